/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/logger"
)

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	logger.Setup(os.Stderr, logger.Options{
		Verbose: viper.GetBool("verbose"),
		JSON:    viper.GetBool("json"),
	})
	logger.SetVersion(version)
	logger.SetBasePath(config.DataDir())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if path, err := config.DefaultConfigFile(); err == nil {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			if cfgFile != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFile)
			}
			LogError("no config file found, using defaults", nil)
		default:
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
		return
	}
	LogError("using config file "+viper.ConfigFileUsed(), nil)
}

// configPath is where settings are written when no file exists yet.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	path, err := config.DefaultConfigFile()
	if err != nil {
		return ""
	}
	return path
}

// settingsStore persists settings through the global viper instance.
func settingsStore() *config.ViperStore {
	return config.NewViperStore(viper.GetViper(), configPath())
}

// loadSettings returns the validated settings for this run.
func loadSettings() (config.Settings, error) {
	s, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}
