package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tamatots/internal/pet"
)

// Overrides are values given on the command line. Empty strings are unset.
type Overrides struct {
	ConfigPath  string
	StatePath   string
	JournalPath string
	LogPath     string
	Verbose     bool
}

// Settings is the resolved runtime configuration.
type Settings struct {
	ConfigPath  string
	StatePath   string
	JournalPath string
	LogPath     string
	Verbose     bool
	Defaults    pet.Defaults
}

// Resolve merges flags, environment, the TOML file and built-in defaults,
// in that order of precedence.
func Resolve(flags Overrides) (Settings, error) {
	envCfg, err := LoadEnv()
	if err != nil {
		return Settings{}, err
	}
	configPath := firstNonEmpty(flags.ConfigPath, envCfg.ConfigPath, DefaultConfigPath())
	fileCfg, err := LoadConfig(expandHome(configPath))
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	return merge(configPath, flags, envCfg, fileCfg), nil
}

func merge(configPath string, flags Overrides, envCfg EnvConfig, fileCfg FileConfig) Settings {
	return Settings{
		ConfigPath:  expandHome(configPath),
		StatePath:   expandHome(firstNonEmpty(flags.StatePath, envCfg.StatePath, deref(fileCfg.Paths.State), DefaultStatePath())),
		JournalPath: expandHome(firstNonEmpty(flags.JournalPath, envCfg.JournalPath, deref(fileCfg.Paths.Journal), DefaultJournalPath())),
		LogPath:     expandHome(firstNonEmpty(flags.LogPath, envCfg.LogPath, deref(fileCfg.Paths.Log), DefaultLogPath())),
		Verbose:     flags.Verbose || envCfg.Verbose,
		Defaults:    fileCfg.PetDefaults(),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
