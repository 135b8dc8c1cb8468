package config

import (
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"

	"tamatots/internal/pet"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Paths    PathsConfig    `toml:"paths"`
	Pet      PetConfig      `toml:"pet"`
	Defaults DefaultsConfig `toml:"defaults"`
	Mess     MessConfig     `toml:"mess"`
}

// PathsConfig overrides file locations.
type PathsConfig struct {
	State   *string `toml:"state"`
	Journal *string `toml:"journal"`
	Log     *string `toml:"log"`
}

// PetConfig seeds the identity of a new pet.
type PetConfig struct {
	Name  *string `toml:"name"`
	Image *string `toml:"image"`
}

// DefaultsConfig seeds the session cadence and decay rates of a new pet.
type DefaultsConfig struct {
	DecayPerHour map[string]float64 `toml:"decay-per-hour"`
	MinTickSecs  *int               `toml:"min-tick-secs"`
	AutosaveSecs *int               `toml:"autosave-secs"`
}

// MessConfig seeds the mess tuning of a new pet.
type MessConfig struct {
	SpawnMinSecs        *float64 `toml:"spawn-min-secs"`
	SpawnMaxSecs        *float64 `toml:"spawn-max-secs"`
	MaxOnField          *int     `toml:"max-on-field"`
	DecayPerMinute      *float64 `toml:"decay-per-min"`
	OfflineSpawnPerHour *float64 `toml:"offline-spawn-per-hour"`
	OfflineSpawnCap     *int     `toml:"offline-spawn-cap"`
	Reward              *float64 `toml:"reward"`
	TargetStat          *string  `toml:"target-stat"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("Ignoring unknown config key %q", key.String())
	}
	return cfg, nil
}

// PetDefaults overlays the file settings on the stock first-run defaults.
func (c FileConfig) PetDefaults() pet.Defaults {
	d := pet.StockDefaults()
	if c.Pet.Name != nil {
		d.Name = *c.Pet.Name
	}
	if c.Pet.Image != nil {
		d.Image = *c.Pet.Image
	}

	for name, rate := range c.Defaults.DecayPerHour {
		stat, ok := pet.ParseStat(name)
		if !ok {
			log.Printf("Ignoring decay rate for unknown stat %q", name)
			continue
		}
		d.Session.Decay[stat] = rate
	}
	setIfPresent(&d.Session.MinTickSecs, c.Defaults.MinTickSecs)
	setIfPresent(&d.Session.AutosaveSecs, c.Defaults.AutosaveSecs)

	setIfPresent(&d.Mess.SpawnMinSecs, c.Mess.SpawnMinSecs)
	setIfPresent(&d.Mess.SpawnMaxSecs, c.Mess.SpawnMaxSecs)
	setIfPresent(&d.Mess.MaxOnField, c.Mess.MaxOnField)
	setIfPresent(&d.Mess.DecayPerMinute, c.Mess.DecayPerMinute)
	setIfPresent(&d.Mess.OfflineSpawnPerHour, c.Mess.OfflineSpawnPerHour)
	setIfPresent(&d.Mess.OfflineSpawnCap, c.Mess.OfflineSpawnCap)
	setIfPresent(&d.Mess.Reward, c.Mess.Reward)
	if c.Mess.TargetStat != nil {
		d.Mess.Target = pet.Stat(*c.Mess.TargetStat)
	}

	d.Session = d.Session.Normalize()
	d.Mess = d.Mess.Normalize()
	return d
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// DefaultTemplate is written by `tamatots config` when no file exists.
func DefaultTemplate() string {
	return `# tamatots configuration
# Settings under [pet], [defaults] and [mess] only seed a brand new pet.
# An existing save keeps its own configuration.

[paths]
# state = "~/.local/share/tamatots/pet.json"
# journal = "~/.local/share/tamatots/journal.db"
# log = "~/.local/share/tamatots/tamatots.log"

[pet]
# name = "Tamatot"
# image = ""

[defaults]
# min-tick-secs = 5
# autosave-secs = 30

[defaults.decay-per-hour]
# hunger = 6.0
# health = 2.0
# energy = 5.0
# fun = 3.0

[mess]
# spawn-min-secs = 45
# spawn-max-secs = 120
# max-on-field = 5
# decay-per-min = 0.5
# offline-spawn-per-hour = 1.0
# offline-spawn-cap = 6
# reward = 2.0
# target-stat = "energy"
`
}
