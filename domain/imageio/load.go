// Package imageio loads, resizes and converts images to and from the
// normalized tensors consumed by the style transfer network.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/webp"
)

// DefaultMaxDimension is the long-side size images are scaled to before inference.
const DefaultMaxDimension = 512

// SupportedExtensions lists the file extensions offered in file pickers.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".avif"}

// IsSupported reports whether path has one of SupportedExtensions.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Open reads and decodes the image at path.
// It fails with *FileAccessError or *DecodeError.
func Open(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &FileAccessError{Path: path, Err: errors.New("is a directory")}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// Load opens path, resizes it so the longer side equals maxDimension and
// returns it as an H x W x 3 tensor in [0,1].
func Load(path string, maxDimension int) (*Tensor, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	resized, err := Resize(img, maxDimension)
	if err != nil {
		return nil, fmt.Errorf("resize %s: %w", path, err)
	}
	return FromImage(resized), nil
}

// Resize scales img preserving aspect ratio so that its longer side equals
// maxDimension. Smaller images are upscaled.
func Resize(img image.Image, maxDimension int) (*image.NRGBA, error) {
	if maxDimension <= 0 {
		return nil, fmt.Errorf("max dimension must be positive, got %d", maxDimension)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	w, h := ScaledSize(b.Dx(), b.Dy(), maxDimension)
	if w == b.Dx() && h == b.Dy() {
		return imaging.Clone(img), nil
	}
	return imaging.Resize(img, w, h, imaging.Lanczos), nil
}

// ScaledSize returns the dimensions Resize produces for a w x h image.
func ScaledSize(w, h, maxDimension int) (int, int) {
	scale := float64(maxDimension) / float64(max(w, h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return max(nw, 1), max(nh, 1)
}

// Thumbnail resizes img to exactly w x h, ignoring aspect ratio.
func Thumbnail(img image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
