package pet

import (
	"log"
	"math"
	"time"
)

// DecayConfig maps stats to points lost per hour.
type DecayConfig map[Stat]float64

// DefaultDecayConfig returns the stock decay rates.
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		Hunger: 6,
		Health: 2,
		Energy: 5,
		Fun:    3,
	}
}

// Clone returns an independent copy.
func (d DecayConfig) Clone() DecayConfig {
	out := make(DecayConfig, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// SessionConfig holds the tick cadence of a running session.
type SessionConfig struct {
	Decay        DecayConfig
	MinTickSecs  int
	AutosaveSecs int
}

// DefaultSessionConfig returns the stock session cadence and decay rates.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Decay:        DefaultDecayConfig(),
		MinTickSecs:  DefaultMinTickSecs,
		AutosaveSecs: DefaultAutosaveSecs,
	}
}

// TickInterval is the decay tick cadence.
func (c SessionConfig) TickInterval() time.Duration {
	return time.Duration(c.MinTickSecs) * time.Second
}

// AutosaveInterval is the autosave cadence.
func (c SessionConfig) AutosaveInterval() time.Duration {
	return time.Duration(c.AutosaveSecs) * time.Second
}

// MessConfig tunes the mess scheduler.
type MessConfig struct {
	SpawnMinSecs        float64
	SpawnMaxSecs        float64
	MaxOnField          int
	DecayPerMinute      float64
	OfflineSpawnPerHour float64
	OfflineSpawnCap     int
	Reward              float64
	Target              Stat
}

// DefaultMessConfig returns the stock mess tuning.
func DefaultMessConfig() MessConfig {
	return MessConfig{
		SpawnMinSecs:        DefaultSpawnMinSecs,
		SpawnMaxSecs:        DefaultSpawnMaxSecs,
		MaxOnField:          DefaultMaxOnField,
		DecayPerMinute:      DefaultMessDecayPerMinute,
		OfflineSpawnPerHour: DefaultOfflineSpawnPerHour,
		OfflineSpawnCap:     DefaultOfflineSpawnCap,
		Reward:              DefaultMessReward,
		Target:              Energy,
	}
}

// Normalize repairs values a hand-edited or stale record could carry.
func (c SessionConfig) Normalize() SessionConfig {
	out := c
	out.Decay = make(DecayConfig, len(c.Decay))
	for stat, rate := range c.Decay {
		if _, ok := ParseStat(string(stat)); !ok {
			log.Printf("Pruning decay rate for unknown stat %q", stat)
			continue
		}
		if !finite(rate) || rate < 0 {
			log.Printf("Invalid decay rate %v for %s, using default", rate, stat)
			rate = DefaultDecayConfig()[stat]
		}
		out.Decay[stat] = rate
	}
	if out.MinTickSecs <= 0 {
		out.MinTickSecs = DefaultMinTickSecs
	}
	if out.AutosaveSecs <= 0 {
		out.AutosaveSecs = DefaultAutosaveSecs
	}
	return out
}

// Normalize repairs out-of-range mess settings.
func (c MessConfig) Normalize() MessConfig {
	def := DefaultMessConfig()
	out := c
	if !finite(out.SpawnMinSecs) || out.SpawnMinSecs < 1 {
		out.SpawnMinSecs = def.SpawnMinSecs
	}
	out.SpawnMinSecs = math.Min(out.SpawnMinSecs, MaxSpawnSecs)
	if !finite(out.SpawnMaxSecs) || out.SpawnMaxSecs < out.SpawnMinSecs {
		out.SpawnMaxSecs = math.Max(out.SpawnMinSecs, def.SpawnMaxSecs)
	}
	out.SpawnMaxSecs = math.Min(out.SpawnMaxSecs, MaxSpawnSecs)
	if out.MaxOnField < 0 {
		out.MaxOnField = def.MaxOnField
	}
	if !finite(out.DecayPerMinute) || out.DecayPerMinute < 0 {
		out.DecayPerMinute = def.DecayPerMinute
	}
	if !finite(out.OfflineSpawnPerHour) || out.OfflineSpawnPerHour < 0 {
		out.OfflineSpawnPerHour = def.OfflineSpawnPerHour
	}
	if out.OfflineSpawnCap < 0 {
		out.OfflineSpawnCap = def.OfflineSpawnCap
	}
	if !finite(out.Reward) || out.Reward < 0 {
		out.Reward = def.Reward
	}
	if _, ok := ParseStat(string(out.Target)); !ok {
		if out.Target != "" {
			log.Printf("Unknown mess target stat %q, using %s", out.Target, def.Target)
		}
		out.Target = def.Target
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
