// Package modelhub fetches the pretrained network into the local model directory.
package modelhub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stylize-go/infrastructure/logging"
)

// SourceSuffix names the sidecar file recording which URL a model came from.
const SourceSuffix = ".source"

// Client provides the path of a ready-to-load model file.
type Client interface {
	// Fetch makes sure the model is present locally and returns its path.
	Fetch(ctx context.Context) (string, error)
}

// ClientConfig contains configuration for the model client.
type ClientConfig struct {
	URL      string
	Dir      string
	FileName string
	Timeout  time.Duration
}

// DefaultClientConfig returns default model client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Dir:      "models",
		FileName: "model.onnx",
		Timeout:  5 * time.Minute,
	}
}

// Path returns the local model file path.
func (c *ClientConfig) Path() string {
	return filepath.Join(c.Dir, c.FileName)
}

// New returns an HTTPClient when a URL is configured and a LocalClient otherwise.
func New(config *ClientConfig) Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	if config.URL == "" {
		return NewLocalClient(config.Path())
	}
	return NewHTTPClient(config)
}

// HTTPClient downloads the model from a versioned URL.
// A model already fetched from the same URL is reused.
type HTTPClient struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP model client.
func NewHTTPClient(config *ClientConfig) *HTTPClient {
	if config == nil {
		config = DefaultClientConfig()
	}

	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Fetch downloads the model unless the local copy came from the configured URL.
func (c *HTTPClient) Fetch(ctx context.Context) (string, error) {
	logger := logging.From(ctx).With("component", "modelhub", "url", c.config.URL)
	path := c.config.Path()

	if c.isCurrent(path) {
		logger.Info("Model already present", "path", path)
		return path, nil
	}

	if err := os.MkdirAll(c.config.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create model dir: %w", err)
	}

	logger.Info("Downloading model", "path", path)
	start := time.Now()

	n, err := c.download(ctx, path)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path+SourceSuffix, []byte(c.config.URL+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to record model source: %w", err)
	}

	logger.Info("Model downloaded", "bytes", n, "elapsed", time.Since(start))
	return path, nil
}

// isCurrent reports whether path exists and its sidecar names the configured URL.
func (c *HTTPClient) isCurrent(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	source, err := os.ReadFile(path + SourceSuffix)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(source)) == c.config.URL
}

// download writes the response body to a temp file and renames it over path,
// so an interrupted fetch never leaves a truncated model behind.
func (c *HTTPClient) download(ctx context.Context, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	tmp, err := os.CreateTemp(c.config.Dir, c.config.FileName+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write model: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to move model into place: %w", err)
	}
	return n, nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// LocalClient serves a model file that is managed outside the app.
type LocalClient struct {
	path string
}

// NewLocalClient creates a client for a model already on disk.
func NewLocalClient(path string) *LocalClient {
	return &LocalClient{path: path}
}

func (c *LocalClient) Fetch(ctx context.Context) (string, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return "", fmt.Errorf("model not found and no download URL configured: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("model path %s is a directory", c.path)
	}
	return c.path, nil
}

var _ Client = (*LocalClient)(nil)
