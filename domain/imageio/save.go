package imageio

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// SaveExtensions lists the export formats accepted by Save.
var SaveExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".tif", ".tiff", ".bmp"}

// JPEGQuality is used for JPEG exports.
const JPEGQuality = 95

// Save writes img to path, choosing the encoder from the extension.
func Save(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".webp" {
		if err := imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality)); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
		f.Close()
		return fmt.Errorf("encode webp %s: %w", path, err)
	}
	return f.Close()
}
