package imageio

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Channels is the number of color channels of every tensor produced here.
const Channels = 3

// Tensor is a dense row-major float32 array.
// Image tensors are laid out as H x W x C, batched ones as N x H x W x C.
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewTensor allocates a zeroed tensor with the given shape.
func NewTensor(shape ...int) *Tensor {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: make([]float32, n)}
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int {
	return len(t.Shape)
}

// Len returns the number of elements implied by Shape.
func (t *Tensor) Len() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Validate checks that Data holds exactly as many elements as Shape describes.
func (t *Tensor) Validate() error {
	for i, d := range t.Shape {
		if d <= 0 {
			return fmt.Errorf("tensor axis %d has non-positive size %d", i, d)
		}
	}
	if t.Len() != len(t.Data) {
		return fmt.Errorf("tensor shape %v needs %d values, has %d", t.Shape, t.Len(), len(t.Data))
	}
	return nil
}

// Batched returns a view of t with a leading batch axis of size 1.
// The data slice is shared.
func (t *Tensor) Batched() *Tensor {
	shape := make([]int, 0, len(t.Shape)+1)
	shape = append(shape, 1)
	shape = append(shape, t.Shape...)
	return &Tensor{Shape: shape, Data: t.Data}
}

// First returns the first element along the leading axis as a view.
func (t *Tensor) First() (*Tensor, error) {
	if t.Rank() < 2 || t.Shape[0] < 1 {
		return nil, fmt.Errorf("tensor shape %v has no batch axis", t.Shape)
	}
	inner := t.Shape[1:]
	n := 1
	for _, d := range inner {
		n *= d
	}
	if len(t.Data) < n {
		return nil, fmt.Errorf("tensor shape %v needs %d values, has %d", t.Shape, n, len(t.Data))
	}
	return &Tensor{Shape: append([]int(nil), inner...), Data: t.Data[:n]}, nil
}

// Size returns width and height of an image tensor, with or without batch axis.
func (t *Tensor) Size() (width, height int) {
	switch t.Rank() {
	case 3:
		return t.Shape[1], t.Shape[0]
	case 4:
		return t.Shape[2], t.Shape[1]
	default:
		return 0, 0
	}
}

// FromImage converts img to an H x W x 3 tensor with values in [0,1].
// Alpha is dropped.
func FromImage(img image.Image) *Tensor {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	t := NewTensor(h, w, Channels)

	i := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			t.Data[i] = float32(row[x*4]) / 255
			t.Data[i+1] = float32(row[x*4+1]) / 255
			t.Data[i+2] = float32(row[x*4+2]) / 255
			i += 3
		}
	}
	return t
}

// ToImage converts a [0,1] tensor to an opaque bitmap.
// A leading batch axis is dropped by taking its first element.
func ToImage(t *Tensor) (*image.NRGBA, error) {
	if t == nil {
		return nil, fmt.Errorf("nil tensor")
	}
	if t.Rank() == 4 {
		first, err := t.First()
		if err != nil {
			return nil, err
		}
		t = first
	}
	if t.Rank() != 3 || t.Shape[2] != Channels {
		return nil, fmt.Errorf("expected H x W x %d tensor, got shape %v", Channels, t.Shape)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	h, w := t.Shape[0], t.Shape[1]
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	i := 0
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			row[x*4] = toByte(t.Data[i])
			row[x*4+1] = toByte(t.Data[i+1])
			row[x*4+2] = toByte(t.Data[i+2])
			row[x*4+3] = 0xff
			i += 3
		}
	}
	return dst, nil
}

func toByte(v float32) uint8 {
	f := math.Round(float64(v) * 255)
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}
