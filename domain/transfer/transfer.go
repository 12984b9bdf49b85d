// Package transfer wraps the pretrained arbitrary style transfer network.
package transfer

import (
	"context"
	"fmt"

	"stylize-go/domain/imageio"
)

// Network is a pretrained stylization model.
// Run receives batched N x H x W x 3 tensors and returns a batched result.
type Network interface {
	Run(ctx context.Context, content, style *imageio.Tensor) (*imageio.Tensor, error)
}

// NetworkFunc adapts a function to Network.
type NetworkFunc func(ctx context.Context, content, style *imageio.Tensor) (*imageio.Tensor, error)

func (f NetworkFunc) Run(ctx context.Context, content, style *imageio.Tensor) (*imageio.Tensor, error) {
	return f(ctx, content, style)
}

// InferenceError reports a failed network call or an output of unexpected shape.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("style transfer failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// StyleTransfer stylizes content with style. Both inputs are unbatched
// H x W x 3 tensors in [0,1]; the result is the first element of the
// network's output batch.
//
// Inputs are not validated: the network accepts mismatched content and style
// sizes.
func StyleTransfer(ctx context.Context, net Network, content, style *imageio.Tensor) (*imageio.Tensor, error) {
	if net == nil {
		return nil, &InferenceError{Err: fmt.Errorf("network not loaded")}
	}

	out, err := net.Run(ctx, content.Batched(), style.Batched())
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	if out == nil || out.Rank() != 4 || out.Shape[3] != imageio.Channels {
		var shape []int
		if out != nil {
			shape = out.Shape
		}
		return nil, &InferenceError{Err: fmt.Errorf("unexpected output shape %v", shape)}
	}

	first, err := out.First()
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	return first, nil
}
