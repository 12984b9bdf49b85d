// Package onnx runs the style transfer network with ONNX Runtime.
package onnx

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// LibPath returns the ONNX Runtime shared library to load. A configured path
// wins; otherwise a library next to the executable, then the per-OS default.
func LibPath(configured string) string {
	if configured != "" {
		return configured
	}

	name := defaultLibName()
	if name == "" {
		slog.Error("ONNX Runtime library path could not be determined for this OS", "os", runtime.GOOS)
		return ""
	}

	for _, dir := range []string{"onnxlibs", exeDir()} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	switch runtime.GOOS {
	case "darwin":
		return "/usr/local/lib/libonnxruntime.dylib"
	default:
		// Resolved by the system loader.
		return name
	}
}

func defaultLibName() string {
	switch runtime.GOOS {
	case "linux":
		return "libonnxruntime.so"
	case "darwin":
		return "libonnxruntime.dylib"
	case "windows":
		return "onnxruntime.dll"
	default:
		return ""
	}
}

func exeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
