package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath resolves CHATMTL_RUNTIME_PATH. Relative paths live under the home directory.
func GetRuntimePath() string {
	path := os.Getenv("CHATMTL_RUNTIME_PATH")
	if path == "" {
		path = ".chatmtl"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
