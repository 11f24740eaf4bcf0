// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Board   BoardConfig   `toml:"board"`
	Message MessageConfig `toml:"message"`
	OpenAI  OpenAIConfig  `toml:"openai"`
}

// BoardConfig maps display and animation settings.
type BoardConfig struct {
	TickMs      *int  `toml:"tick-ms"`
	SweepMs     *int  `toml:"sweep-ms"`
	FadeMs      *int  `toml:"fade-ms"`
	HoldSeconds *int  `toml:"hold-seconds"`
	Sound       *bool `toml:"sound"`
}

// MessageConfig maps message source selection.
type MessageConfig struct {
	Source *string `toml:"source"`
	File   *string `toml:"file"`
}

// OpenAIConfig maps the openai message source settings. The API key is
// never stored in the file; api-key-env names the variable carrying it.
type OpenAIConfig struct {
	BaseURL   *string `toml:"base-url"`
	Model     *string `toml:"model"`
	APIKeyEnv *string `toml:"api-key-env"`
	Prompt    *string `toml:"prompt"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
