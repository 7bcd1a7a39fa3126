package raster

import (
	"bytes"
	"fmt"
	"image"
	"os"

	// Форматы растра: png из stdlib, bmp/webp из x/image.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes a PNG, BMP or WebP raster from path.
func LoadImage(path string) (image.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading raster %s: %w", path, err)
	}
	return DecodeImage(data)
}

// DecodeImage decodes an in-memory raster.
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding raster: %w", err)
	}
	return img, format, nil
}
