package onnx

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"stylize-go/domain/imageio"
	"stylize-go/domain/transfer"
)

// Config holds configuration for opening a Network.
type Config struct {
	ModelPath string
	LibPath   string
	// Input and output names; empty means the model's declared order
	// (content first, then style).
	ContentInput string
	StyleInput   string
	Output       string
	Logger       *slog.Logger
}

// Network is a transfer.Network backed by an ONNX Runtime session.
type Network struct {
	session *ort.DynamicAdvancedSession
	names   ioNames
	logger  *slog.Logger

	// ONNX Runtime calls cannot be interrupted; runs are serialized.
	mu     sync.Mutex
	closed bool
}

type ioNames struct {
	content, style, output string
}

// Open initializes the ONNX Runtime environment and loads the model.
func Open(cfg *Config) (*Network, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger.With("component", "onnx")

	if !ort.IsInitialized() {
		libPath := LibPath(cfg.LibPath)
		logger.Info("Using ONNX Runtime library", "path", libPath)
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX Runtime environment: %w", err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get model input/output info: %w", err)
	}

	names, err := resolveNames(cfg, infoNames(inputs), infoNames(outputs))
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer opts.Destroy()

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{names.content, names.style},
		[]string{names.output},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX Runtime session: %w", err)
	}

	logger.Info("Model loaded",
		"path", cfg.ModelPath,
		"content", names.content,
		"style", names.style,
		"output", names.output)

	return &Network{
		session: session,
		names:   names,
		logger:  logger,
	}, nil
}

// Run feeds one batched content and style tensor through the model.
func (n *Network) Run(ctx context.Context, content, style *imageio.Tensor) (*imageio.Tensor, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, fmt.Errorf("network is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contentValue, err := ort.NewTensor(toShape(content.Shape), content.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create content tensor: %w", err)
	}
	defer contentValue.Destroy()

	styleValue, err := ort.NewTensor(toShape(style.Shape), style.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create style tensor: %w", err)
	}
	defer styleValue.Destroy()

	// A nil output is allocated by ONNX Runtime.
	outputs := []ort.Value{nil}
	if err := n.session.Run([]ort.Value{contentValue, styleValue}, outputs); err != nil {
		return nil, fmt.Errorf("failed to run model: %w", err)
	}
	if outputs[0] == nil {
		return nil, fmt.Errorf("model produced no output")
	}
	defer outputs[0].Destroy()

	result, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}

	// The tensor's memory is released by Destroy.
	data := append([]float32(nil), result.GetData()...)
	return &imageio.Tensor{Shape: fromShape(result.GetShape()), Data: data}, nil
}

// Close destroys the session and the ONNX Runtime environment.
func (n *Network) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true

	var err error
	if n.session != nil {
		err = n.session.Destroy()
	}
	if envErr := ort.DestroyEnvironment(); envErr != nil && err == nil {
		err = envErr
	}
	return err
}

// Ensure Network implements transfer.Network
var _ transfer.Network = (*Network)(nil)

func infoNames(infos []ort.InputOutputInfo) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// resolveNames picks the content, style and output names, checking
// configured names against what the model declares.
func resolveNames(cfg *Config, inputs, outputs []string) (ioNames, error) {
	if len(inputs) < 2 {
		return ioNames{}, fmt.Errorf("model declares %d inputs, want content and style", len(inputs))
	}
	if len(outputs) < 1 {
		return ioNames{}, fmt.Errorf("model declares no outputs")
	}

	names := ioNames{content: inputs[0], style: inputs[1], output: outputs[0]}

	pick := func(configured string, declared []string, target *string) error {
		if configured == "" {
			return nil
		}
		for _, d := range declared {
			if d == configured {
				*target = configured
				return nil
			}
		}
		return fmt.Errorf("model has no tensor named %q (declared %v)", configured, declared)
	}

	if err := pick(cfg.ContentInput, inputs, &names.content); err != nil {
		return ioNames{}, err
	}
	if err := pick(cfg.StyleInput, inputs, &names.style); err != nil {
		return ioNames{}, err
	}
	if err := pick(cfg.Output, outputs, &names.output); err != nil {
		return ioNames{}, err
	}
	if names.content == names.style {
		return ioNames{}, fmt.Errorf("content and style inputs are both %q", names.content)
	}
	return names, nil
}

func toShape(dims []int) ort.Shape {
	shape := make(ort.Shape, len(dims))
	for i, d := range dims {
		shape[i] = int64(d)
	}
	return shape
}

func fromShape(shape ort.Shape) []int {
	dims := make([]int, len(shape))
	for i, d := range shape {
		dims[i] = int(d)
	}
	return dims
}
