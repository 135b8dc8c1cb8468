package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tamatots/internal/pet"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "this is = = not toml"))
	assert.Error(t, err)
}

func TestPetDefaultsOverlay(t *testing.T) {
	path := writeConfig(t, `
[paths]
state = "/tmp/custom.json"

[pet]
name = "Dumpling"

[defaults]
min-tick-secs = 10

[defaults.decay-per-hour]
hunger = 12.5
sparkle = 3.0

[mess]
max-on-field = 3
target-stat = "fun"
reward = 4.0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Paths.State)
	assert.Equal(t, "/tmp/custom.json", *cfg.Paths.State)

	d := cfg.PetDefaults()
	assert.Equal(t, "Dumpling", d.Name)
	assert.Equal(t, 10, d.Session.MinTickSecs)
	assert.Equal(t, pet.DefaultAutosaveSecs, d.Session.AutosaveSecs)
	assert.Equal(t, 12.5, d.Session.Decay[pet.Hunger])
	assert.Equal(t, 2.0, d.Session.Decay[pet.Health])
	_, ok := d.Session.Decay[pet.Stat("sparkle")]
	assert.False(t, ok)

	assert.Equal(t, 3, d.Mess.MaxOnField)
	assert.Equal(t, pet.Fun, d.Mess.Target)
	assert.Equal(t, 4.0, d.Mess.Reward)
	assert.Equal(t, float64(pet.DefaultSpawnMinSecs), d.Mess.SpawnMinSecs)
}

func TestPetDefaultsEmptyFileIsStock(t *testing.T) {
	assert.Equal(t, pet.StockDefaults(), FileConfig{}.PetDefaults())
}

func TestDefaultTemplateDecodes(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, DefaultTemplate()))
	require.NoError(t, err)
	assert.Equal(t, pet.StockDefaults(), cfg.PetDefaults())
}

func TestMergePrecedence(t *testing.T) {
	fileState := "/file/pet.json"
	fileJournal := "/file/journal.db"
	fileLog := "/file/tamatots.log"
	fileCfg := FileConfig{Paths: PathsConfig{State: &fileState, Journal: &fileJournal, Log: &fileLog}}

	envCfg := EnvConfig{StatePath: "/env/pet.json", JournalPath: "/env/journal.db"}
	flags := Overrides{StatePath: "/flag/pet.json"}

	got := merge("/cfg.toml", flags, envCfg, fileCfg)

	assert.Equal(t, "/cfg.toml", got.ConfigPath)
	assert.Equal(t, "/flag/pet.json", got.StatePath, "flag beats env and file")
	assert.Equal(t, "/env/journal.db", got.JournalPath, "env beats file")
	assert.Equal(t, "/file/tamatots.log", got.LogPath, "file beats default")
	assert.False(t, got.Verbose)
}

func TestMergeFallsBackToXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	got := merge("/cfg.toml", Overrides{Verbose: true}, EnvConfig{}, FileConfig{})

	assert.Equal(t, filepath.Join("/xdg/data", "tamatots", "pet.json"), got.StatePath)
	assert.Equal(t, filepath.Join("/xdg/data", "tamatots", "journal.db"), got.JournalPath)
	assert.Equal(t, filepath.Join("/xdg/data", "tamatots", "tamatots.log"), got.LogPath)
	assert.True(t, got.Verbose)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "pets", "pet.json"), expandHome("~/pets/pet.json"))
	assert.Equal(t, "/abs/pet.json", expandHome("/abs/pet.json"))
	assert.Equal(t, "~other/pet.json", expandHome("~other/pet.json"))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TAMATOTS_STATE", "/env/state.json")
	t.Setenv("TAMATOTS_VERBOSE", "true")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/env/state.json", cfg.StatePath)
	assert.True(t, cfg.Verbose)
}

func TestLoadEnvInvalidBool(t *testing.T) {
	t.Setenv("TAMATOTS_VERBOSE", "sometimes")

	_, err := LoadEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestResolveUsesEnvConfigPath(t *testing.T) {
	path := writeConfig(t, `
[pet]
name = "Tofu"
`)
	t.Setenv("TAMATOTS_CONFIG", path)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	settings, err := Resolve(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, path, settings.ConfigPath)
	assert.Equal(t, "Tofu", settings.Defaults.Name)
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	assert.Equal(t, "/xdg/config/tamatots/config.toml", DefaultConfigPath())
	assert.Equal(t, "/xdg/data/tamatots/pet.json", DefaultStatePath())
}
