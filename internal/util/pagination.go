package util

import (
	"strings"

	"github.com/spf13/cast"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := cast.ToIntE(s); err == nil {
		return v
	}
	return def
}

// Calculate turns a 1-based page and a page size into an offset and limit.
// Out-of-range values fall back to the defaults.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = DefaultPage
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	offset = (page - 1) * size
	return offset, size
}
