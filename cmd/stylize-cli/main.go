// Command stylize-cli stylizes one content image with one style image and
// writes the result, without opening a window.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stylize-go/domain/imageio"
	"stylize-go/domain/transfer"
	"stylize-go/infrastructure/config"
	"stylize-go/infrastructure/logging"
	"stylize-go/infrastructure/modelhub"
	"stylize-go/infrastructure/onnx"

	flags "github.com/jessevdk/go-flags"
)

func main() {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Name = "stylize-cli"
	parser.Usage = "-c content.jpg -s style.jpg [-o stylized.png]"
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}
	logger, closeLog, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logging:", err)
		os.Exit(1)
	}

	if err := run(logging.With(context.Background(), logger), cfg, opts); err != nil {
		logger.Error("Stylize failed", "error", err)
		closeLog()
		os.Exit(1)
	}
	closeLog()
}

func run(ctx context.Context, cfg *config.Config, opts *Options) error {
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.Model.DownloadTimeout())
	defer cancel()

	network, err := onnx.Load(fetchCtx, modelhub.New(&modelhub.ClientConfig{
		URL:      cfg.Model.URL,
		Dir:      cfg.Model.Dir,
		FileName: cfg.Model.FileName,
		Timeout:  cfg.Model.DownloadTimeout(),
	}), &onnx.Config{
		LibPath:      cfg.Model.LibPath,
		ContentInput: cfg.Model.ContentInput,
		StyleInput:   cfg.Model.StyleInput,
		Output:       cfg.Model.Output,
	})
	if err != nil {
		return err
	}
	defer network.Close()

	maxDim := cfg.Images.MaxDimension
	if opts.MaxDim > 0 {
		maxDim = opts.MaxDim
	}
	return stylize(ctx, network, opts.Content, opts.Style, opts.Output, maxDim)
}

// stylize loads both images, runs net and writes the result to output.
func stylize(ctx context.Context, net transfer.Network, content, style, output string, maxDim int) error {
	logger := logging.From(ctx)

	contentTensor, err := imageio.Load(content, maxDim)
	if err != nil {
		return err
	}
	styleTensor, err := imageio.Load(style, maxDim)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := transfer.StyleTransfer(ctx, net, contentTensor, styleTensor)
	if err != nil {
		return err
	}
	logger.Info("Stylized", "content", content, "style", style, "elapsed", time.Since(start))

	img, err := imageio.ToImage(result)
	if err != nil {
		return fmt.Errorf("failed to convert result: %w", err)
	}
	if err := imageio.Save(output, img); err != nil {
		return err
	}

	logger.Info("Result saved", "path", output)
	return nil
}
