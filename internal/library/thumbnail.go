package library

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"github.com/nfnt/resize"
)

// Covers are portrait; landscape spreads are bounded by height instead.
const (
	coverWidth  uint = 200
	coverHeight uint = 300
)

// GenerateThumbnail takes raw cover image data, shrinks it, and returns it
// as a Base64 JPEG data URI ready to store alongside the comic.
func GenerateThumbnail(imageData []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	var thumb image.Image
	if bounds.Dy() > bounds.Dx() {
		thumb = resize.Thumbnail(coverWidth, coverHeight, img, resize.Lanczos3)
	} else {
		thumb = resize.Resize(0, coverHeight, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 75}); err != nil {
		return "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
