package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// WritePNG encodes the bitmap to a PNG file. Used by the manual export
// path and the headless renderer.
func WritePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode export png: %w", err)
	}
	return nil
}
