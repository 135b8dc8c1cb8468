package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from the environment.
type EnvConfig struct {
	ConfigPath  string `env:"TAMATOTS_CONFIG"`
	StatePath   string `env:"TAMATOTS_STATE"`
	JournalPath string `env:"TAMATOTS_JOURNAL"`
	LogPath     string `env:"TAMATOTS_LOG"`
	Verbose     bool   `env:"TAMATOTS_VERBOSE" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads the TAMATOTS_* variables.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := ParseEnv(&cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}
