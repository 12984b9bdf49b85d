// Package config loads application settings from stylize.yaml or stylize.toml,
// falling back to built-in defaults for anything the file leaves out.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// SearchNames are the file names Load looks for when no path is given.
var SearchNames = []string{"stylize.yaml", "stylize.yml", "stylize.toml"}

// Config is the root configuration.
type Config struct {
	Model     ModelConfig     `yaml:"model" toml:"model"`
	Images    ImageConfig     `yaml:"images" toml:"images"`
	Carousels CarouselsConfig `yaml:"carousels" toml:"carousels"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// ModelConfig locates the network and the ONNX Runtime library.
type ModelConfig struct {
	// URL is the versioned download location. Empty means the file in Dir is used as is.
	URL      string `yaml:"url" toml:"url"`
	Dir      string `yaml:"dir" toml:"dir"`
	FileName string `yaml:"file_name" toml:"file_name"`
	// LibPath overrides the per-OS ONNX Runtime shared library location.
	LibPath string `yaml:"lib_path" toml:"lib_path"`
	// Input and output names; empty means the model's declared order.
	ContentInput string `yaml:"content_input" toml:"content_input"`
	StyleInput   string `yaml:"style_input" toml:"style_input"`
	Output       string `yaml:"output" toml:"output"`
	// DownloadTimeoutSeconds bounds the model fetch at startup.
	DownloadTimeoutSeconds int `yaml:"download_timeout_seconds" toml:"download_timeout_seconds"`
}

// Path returns the local model file path.
func (m ModelConfig) Path() string {
	return filepath.Join(m.Dir, m.FileName)
}

// DownloadTimeout returns the fetch timeout as a duration.
func (m ModelConfig) DownloadTimeout() time.Duration {
	return time.Duration(m.DownloadTimeoutSeconds) * time.Second
}

// ImageConfig holds the image sizes used across the app.
type ImageConfig struct {
	MaxDimension  int `yaml:"max_dimension" toml:"max_dimension"`
	PreviewSize   int `yaml:"preview_size" toml:"preview_size"`
	ThumbnailSize int `yaml:"thumbnail_size" toml:"thumbnail_size"`
}

// CarouselsConfig holds both preset carousels.
type CarouselsConfig struct {
	Styles  CarouselConfig `yaml:"styles" toml:"styles"`
	Results CarouselConfig `yaml:"results" toml:"results"`
}

// CarouselConfig describes a numbered preset list: Dir/PrefixN.Ext for N in 1..Count.
type CarouselConfig struct {
	Dir             string `yaml:"dir" toml:"dir"`
	Prefix          string `yaml:"prefix" toml:"prefix"`
	Ext             string `yaml:"ext" toml:"ext"`
	Count           int    `yaml:"count" toml:"count"`
	IntervalSeconds int    `yaml:"interval_seconds" toml:"interval_seconds"`
}

// Interval returns the tick period as a duration.
func (c CarouselConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// LoggingConfig controls the process logger. Dir and the rotation limits
// only apply to prod builds, which log to a file.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level     string `yaml:"level" toml:"level"`
	Dir       string `yaml:"dir" toml:"dir"`
	AddSource bool   `yaml:"add_source" toml:"add_source"`

	MaxSizeMB  int  `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool `yaml:"compress" toml:"compress"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Dir:                    "models",
			FileName:               "arbitrary-image-stylization-v1-256.onnx",
			DownloadTimeoutSeconds: 300,
		},
		Images: ImageConfig{
			MaxDimension:  512,
			PreviewSize:   350,
			ThumbnailSize: 240,
		},
		Carousels: CarouselsConfig{
			Styles: CarouselConfig{
				Dir:             "styles",
				Prefix:          "style",
				Ext:             ".jpg",
				Count:           5,
				IntervalSeconds: 5,
			},
			Results: CarouselConfig{
				Dir:             "stylized",
				Prefix:          "stylized",
				Ext:             ".jpg",
				Count:           5,
				IntervalSeconds: 6,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 10,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

// Load reads the file at path over the defaults. An empty path searches the
// working directory for SearchNames and returns the defaults if none exists.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := Find(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return Default(), nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the first of SearchNames present in dir, or "".
func Find(dir string) (string, error) {
	for _, name := range SearchNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Model.FileName == "" {
		return fmt.Errorf("model.file_name is required")
	}
	if c.Model.DownloadTimeoutSeconds <= 0 {
		return fmt.Errorf("model.download_timeout_seconds must be positive, got %d", c.Model.DownloadTimeoutSeconds)
	}
	if c.Images.MaxDimension <= 0 {
		return fmt.Errorf("images.max_dimension must be positive, got %d", c.Images.MaxDimension)
	}
	if c.Images.PreviewSize <= 0 || c.Images.ThumbnailSize <= 0 {
		return fmt.Errorf("images.preview_size and images.thumbnail_size must be positive")
	}
	for name, cc := range map[string]CarouselConfig{"styles": c.Carousels.Styles, "results": c.Carousels.Results} {
		if cc.Count <= 0 {
			return fmt.Errorf("carousels.%s.count must be positive, got %d", name, cc.Count)
		}
		if cc.IntervalSeconds <= 0 {
			return fmt.Errorf("carousels.%s.interval_seconds must be positive, got %d", name, cc.IntervalSeconds)
		}
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("logging rotation limits must not be negative")
	}
	return nil
}
