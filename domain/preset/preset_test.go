package preset

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want string
	}{
		{"dotted extension", ".jpg", "style1.jpg"},
		{"bare extension", "jpg", "style1.jpg"},
		{"no extension", "", "style1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := Paths("styles", "style", tt.ext, 5)
			if len(paths) != 5 {
				t.Fatalf("len = %d, want 5", len(paths))
			}
			if paths[0] != filepath.Join("styles", tt.want) {
				t.Errorf("paths[0] = %v, want %v", paths[0], filepath.Join("styles", tt.want))
			}
		})
	}

	if got := Paths("stylized", "stylized", ".jpg", 5)[4]; got != filepath.Join("stylized", "stylized5.jpg") {
		t.Errorf("paths[4] = %v", got)
	}
}

func TestNewCarousel_Empty(t *testing.T) {
	if _, err := NewCarousel("empty", nil); err == nil {
		t.Error("expected error for empty path list")
	}
}

func TestCarousel_IndexAfterTicks(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 7} {
		paths := make([]string, n)
		for i := range paths {
			paths[i] = filepath.Join("p", string(rune('a'+i)))
		}
		c, err := NewCarousel("test", paths)
		if err != nil {
			t.Fatal(err)
		}

		for ticks := 0; ticks < 3*n+2; ticks++ {
			path, idx := c.Advance()
			if idx != ticks%n {
				t.Fatalf("len %d: Advance() index after %d ticks = %d, want %d", n, ticks, idx, ticks%n)
			}
			if path != paths[idx] {
				t.Fatalf("len %d: Advance() path = %s, want %s", n, path, paths[idx])
			}
		}
	}
}

func TestCarousel_CopiesPaths(t *testing.T) {
	src := []string{"a", "b"}
	c, _ := NewCarousel(StylesCarousel, src)
	src[0] = "mutated"

	if p, _ := c.Advance(); p != "a" {
		t.Errorf("first path = %s, want a", p)
	}
	if p, _ := c.Advance(); p != "b" {
		t.Errorf("second path = %s, want b", p)
	}
	if c.Name() != StylesCarousel {
		t.Errorf("Name() = %s", c.Name())
	}
}

func TestCarousel_Contains(t *testing.T) {
	c, _ := NewCarousel(StylesCarousel, Paths("styles", "style", ".jpg", 2))

	if !c.Contains(filepath.Join("styles", "style2.jpg")) {
		t.Error("Contains(style2.jpg) = false")
	}
	if c.Contains(filepath.Join("styles", "style3.jpg")) {
		t.Error("Contains(style3.jpg) = true")
	}
}
