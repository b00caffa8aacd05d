package utils

import (
	"bytes"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ProcessImage resizes an uploaded image to a sane width and re-encodes
// it as WebP (JPEG fallback when WebP encoding fails). Returns the
// encoded bytes and resulting content type.
func ProcessImage(r io.Reader) ([]byte, string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}

	// Max width 2000px, preserve aspect ratio
	if img.Bounds().Dx() > 2000 {
		img = imaging.Resize(img, 2000, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	err = webp.Encode(&buf, img, &webp.Options{
		Lossless: false,
		Quality:  85,
	})
	if err != nil {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}

	return buf.Bytes(), "image/webp", nil
}

// IsImage verifies simple content type
func IsImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}
