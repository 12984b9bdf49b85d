package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"stylize-go/domain/imageio"
	"stylize-go/domain/transfer"
)

func writeSolid(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStylize_WritesResult(t *testing.T) {
	dir := t.TempDir()
	content := writeSolid(t, dir, "content.png", 100, 50)
	style := writeSolid(t, dir, "style.png", 20, 20)
	output := filepath.Join(dir, "out.png")

	if err := stylize(context.Background(), transfer.Identity(), content, style, output, 64); err != nil {
		t.Fatalf("stylize() error = %v", err)
	}

	img, err := imageio.Open(output)
	if err != nil {
		t.Fatalf("Open(output) error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("output size = %dx%d, want 64x32", b.Dx(), b.Dy())
	}
}

func TestStylize_Errors(t *testing.T) {
	dir := t.TempDir()
	content := writeSolid(t, dir, "content.png", 10, 10)
	failing := transfer.NetworkFunc(func(ctx context.Context, c, s *imageio.Tensor) (*imageio.Tensor, error) {
		return nil, errors.New("boom")
	})

	tests := []struct {
		name    string
		net     transfer.Network
		style   string
		output  string
		checkAs func(error) bool
	}{
		{
			name:   "missing style",
			net:    transfer.Identity(),
			style:  filepath.Join(dir, "missing.png"),
			output: filepath.Join(dir, "a.png"),
			checkAs: func(err error) bool {
				var fe *imageio.FileAccessError
				return errors.As(err, &fe)
			},
		},
		{
			name:   "network failure",
			net:    failing,
			style:  content,
			output: filepath.Join(dir, "b.png"),
			checkAs: func(err error) bool {
				var ie *transfer.InferenceError
				return errors.As(err, &ie)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := stylize(context.Background(), tt.net, content, tt.style, tt.output, 16)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.checkAs(err) {
				t.Errorf("unexpected error type: %v", err)
			}
			if _, statErr := os.Stat(tt.output); statErr == nil {
				t.Error("output should not be written on failure")
			}
		})
	}
}
