package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize_ShrinksWideImages(t *testing.T) {
	t.Parallel()

	out := Normalize(pngOf(t, 1600, 400), "image/png")
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, MaxWidth, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestNormalize_LeavesOthersAlone(t *testing.T) {
	t.Parallel()

	small := pngOf(t, 100, 50)
	assert.Equal(t, small, Normalize(small, "image/png"))

	webp := []byte("RIFF....WEBP")
	assert.Equal(t, webp, Normalize(webp, "image/webp"))

	junk := []byte("not an image")
	assert.Equal(t, junk, Normalize(junk, "image/jpeg"))
}

func TestLocalStore_Put(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStore(dir, "http://cdn.local/static/")
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "../../etc/a.png", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/static/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)
}

func TestLocalStore_CanceledContext(t *testing.T) {
	t.Parallel()

	s, err := NewLocalStore(t.TempDir(), "http://x")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Put(ctx, "a.png", []byte("img"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewSFTPStore_MissingKnownHosts(t *testing.T) {
	t.Parallel()

	_, err := NewSFTPStore(SFTPConfig{Addr: "127.0.0.1:1", KnownHosts: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}
