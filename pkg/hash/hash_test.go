package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("Secret1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", h)

	assert.True(t, CheckPassword(h, "Secret1!"))
	assert.False(t, CheckPassword(h, "secret1!"))
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(strings.Repeat("x", 80))
	require.Error(t, err)
}
