package imageio

import (
	"path/filepath"
	"testing"
)

func TestSave_Formats(t *testing.T) {
	src := noise(16, 9, 7)

	for _, ext := range []string{".png", ".webp"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "result"+ext)
			if err := Save(path, src); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, err := Open(path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			tensor := FromImage(got)
			back, err := ToImage(tensor)
			if err != nil {
				t.Fatal(err)
			}
			for y := 0; y < 9; y++ {
				for x := 0; x < 16; x++ {
					if back.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, back.NRGBAAt(x, y), src.NRGBAAt(x, y))
					}
				}
			}
		})
	}
}

func TestSave_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.jpg")
	if err := Save(path, noise(8, 8, 3)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width = %d, want 8", img.Bounds().Dx())
	}
}

func TestSave_UnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.xyz")
	if err := Save(path, noise(2, 2, 1)); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
