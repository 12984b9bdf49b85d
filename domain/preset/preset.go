// Package preset holds the fixed preset image lists and the carousels that cycle them.
package preset

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Carousel names.
const (
	StylesCarousel  = "styles"
	ResultsCarousel = "results"
)

// Paths returns dir/<prefix>N<ext> for N = 1..count. ext may be given with
// or without its leading dot.
func Paths(dir, prefix, ext string, count int) []string {
	if ext != "" {
		ext = "." + strings.TrimPrefix(ext, ".")
	}
	paths := make([]string, count)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("%s%d%s", prefix, i+1, ext))
	}
	return paths
}

// Carousel cycles through a fixed, read-only list of paths.
type Carousel struct {
	name  string
	paths []string

	mu    sync.Mutex
	ticks int
}

// NewCarousel creates a carousel over paths. The list must not be empty.
func NewCarousel(name string, paths []string) (*Carousel, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("carousel %s has no paths", name)
	}
	return &Carousel{
		name:  name,
		paths: append([]string(nil), paths...),
	}, nil
}

// Name returns the carousel name.
func (c *Carousel) Name() string {
	return c.name
}

// Advance returns the path for the current tick, then increments the counter.
// The returned index is always in [0, len(paths)).
func (c *Carousel) Advance() (path string, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index = c.ticks % len(c.paths)
	c.ticks++
	return c.paths[index], index
}

// Contains reports whether path is one of the carousel's presets.
func (c *Carousel) Contains(path string) bool {
	for _, p := range c.paths {
		if p == path {
			return true
		}
	}
	return false
}
