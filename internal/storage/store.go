package storage

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/nfnt/resize"
)

const MaxWidth = 800

// ImageStore saves an object under name and returns the public URL.
type ImageStore interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// Normalize shrinks JPEG and PNG images wider than MaxWidth, keeping the
// aspect ratio. Other formats and undecodable input are returned unchanged.
func Normalize(data []byte, contentType string) []byte {
	var encode func(*bytes.Buffer, image.Image) error
	switch {
	case strings.HasSuffix(contentType, "jpeg"), strings.HasSuffix(contentType, "jpg"):
		encode = func(b *bytes.Buffer, img image.Image) error {
			return jpeg.Encode(b, img, &jpeg.Options{Quality: 80})
		}
	case strings.HasSuffix(contentType, "png"):
		encode = func(b *bytes.Buffer, img image.Image) error {
			return png.Encode(b, img)
		}
	default:
		return data
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil || img.Bounds().Dx() <= MaxWidth {
		return data
	}

	resized := resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := encode(&buf, resized); err != nil {
		return data
	}
	return buf.Bytes()
}

func publicURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + path.Base(name)
}
