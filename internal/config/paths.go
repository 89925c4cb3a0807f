package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.tempoflow).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tempoflow"), nil
}

// DataDir returns the directory holding the database and crash logs.
// Resolution order (first match wins):
// 1. Explicit config via "data.dir" (Viper/env/flag)
// 2. XDG_DATA_HOME/tempoflow (if XDG_DATA_HOME is set)
// 3. Global fallback: ~/.tempoflow
func DataDir() string {
	if path := viper.GetString("data.dir"); path != "" {
		return path
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "tempoflow")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./.tempoflow"
	}
	return dir
}

// DefaultConfigFile returns ~/.tempoflow/config.yaml.
func DefaultConfigFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
