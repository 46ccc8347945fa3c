// Package imaging prepares uploaded photos for face detection.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for zero-length input.
var ErrEmptyImage = errors.New("empty image")

// Size returns the pixel dimensions of an encoded image without decoding it fully.
func Size(data []byte) (width, height int, err error) {
	if len(data) == 0 {
		return 0, 0, ErrEmptyImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// FitWidth downscales an image wider than maxWidth, keeping aspect ratio.
// It returns the bytes to analyse and the factor that maps coordinates on
// them back to the original image (1 when no resizing happened, in which
// case data is returned as is).
func FitWidth(data []byte, maxWidth, quality int) ([]byte, float64, error) {
	width, height, err := Size(data)
	if err != nil {
		return nil, 0, err
	}

	if maxWidth <= 0 || width <= maxWidth {
		return data, 1, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	// Calculate new dimensions.
	ratio := float64(maxWidth) / float64(width)
	newWidth := maxWidth
	newHeight := max(int(math.Round(float64(height)*ratio)), 1)

	// Create resized image.
	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Over, nil)

	// Encode as JPEG.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, 0, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), float64(width) / float64(newWidth), nil
}
