package pet

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Store persists session records.
type Store interface {
	Save(s *State) error
}

// FileStore keeps the session record as one JSON document on disk.
type FileStore struct {
	Path string
}

type recordConfig struct {
	DecayPerHour map[string]float64 `json:"decay_per_hour"`
	MinTickSecs  int                `json:"min_tick_secs"`
	AutosaveSecs int                `json:"autosave_secs"`
}

type recordMess struct {
	ID      string    `json:"id"`
	SpawnTS time.Time `json:"spawn_ts"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
}

type recordMessConfig struct {
	SpawnMinSecs        float64 `json:"spawn_min_secs"`
	SpawnMaxSecs        float64 `json:"spawn_max_secs"`
	MaxOnField          int     `json:"max_on_field"`
	DecayPerMin         float64 `json:"decay_per_min"`
	OfflineSpawnPerHour float64 `json:"offline_spawn_per_hour"`
	OfflineSpawnCap     int     `json:"offline_spawn_cap"`
	Reward              float64 `json:"reward"`
	TargetStat          string  `json:"target_stat"`
}

type sessionRecord struct {
	Volume     int                `json:"volume"`
	Stats      map[string]float64 `json:"stats"`
	Cfg        recordConfig       `json:"cfg"`
	Poops      []recordMess       `json:"poops"`
	PoopCfg    recordMessConfig   `json:"poop_cfg"`
	LastSeen   time.Time          `json:"last_seen"`
	PetName    string             `json:"pet_name"`
	PetImage   string             `json:"pet_image"`
	LastStatus string             `json:"last_status,omitempty"`
}

// Encode renders s as a session record document.
func Encode(s *State) ([]byte, error) {
	rec := sessionRecord{
		Volume: s.Volume,
		Stats:  make(map[string]float64, len(s.Stats)),
		Cfg: recordConfig{
			DecayPerHour: make(map[string]float64, len(s.Config.Decay)),
			MinTickSecs:  s.Config.MinTickSecs,
			AutosaveSecs: s.Config.AutosaveSecs,
		},
		Poops: make([]recordMess, 0, len(s.Mess.Active)),
		PoopCfg: recordMessConfig{
			SpawnMinSecs:        s.Mess.Config.SpawnMinSecs,
			SpawnMaxSecs:        s.Mess.Config.SpawnMaxSecs,
			MaxOnField:          s.Mess.Config.MaxOnField,
			DecayPerMin:         s.Mess.Config.DecayPerMinute,
			OfflineSpawnPerHour: s.Mess.Config.OfflineSpawnPerHour,
			OfflineSpawnCap:     s.Mess.Config.OfflineSpawnCap,
			Reward:              s.Mess.Config.Reward,
			TargetStat:          string(s.Mess.Config.Target),
		},
		LastSeen:   s.LastSeen.UTC(),
		PetName:    s.Name,
		PetImage:   s.Image,
		LastStatus: s.LastStatus,
	}
	for stat, v := range s.Stats {
		rec.Stats[string(stat)] = v
	}
	for stat, rate := range s.Config.Decay {
		rec.Cfg.DecayPerHour[string(stat)] = rate
	}
	for _, m := range s.Mess.Active {
		rec.Poops = append(rec.Poops, recordMess{
			ID:      m.ID,
			SpawnTS: m.SpawnedAt.UTC(),
			X:       m.Position.X,
			Y:       m.Position.Y,
		})
	}
	return json.MarshalIndent(rec, "", "  ")
}

// Decode rebuilds a state from a session record. Every field is decoded on
// its own; a field that is missing or malformed falls back to d while the
// rest of the record is kept. Only a document that is not a JSON object at
// all is an error.
func Decode(data []byte, d Defaults, now time.Time) (*State, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse session record: %w", err)
	}
	if raw == nil {
		return nil, errors.New("parse session record: not an object")
	}

	s := NewState(d, now)
	s.LastSeen = time.Time{}

	var volume int
	if decodeField(raw, "volume", &volume) {
		s.Volume = clampVolume(volume)
	}

	var stats map[string]json.RawMessage
	if decodeField(raw, "stats", &stats) {
		for name := range stats {
			stat, ok := ParseStat(name)
			if !ok {
				log.Printf("Pruning unknown stat %q", name)
				continue
			}
			var v float64
			if !decodeField(stats, name, &v) {
				continue
			}
			s.Stats[stat] = clampStat(v)
		}
	}

	s.Config = decodeSessionConfig(raw, d.Session)

	if rawMess, ok := raw["poop_cfg"]; ok {
		s.Mess.Config = decodeMessConfig(rawMess, d.Mess)
	}

	var poops []recordMess
	if decodeField(raw, "poops", &poops) {
		for _, p := range poops {
			spawned := p.SpawnTS.UTC()
			if spawned.IsZero() {
				spawned = now.UTC()
			}
			s.Mess.Active = append(s.Mess.Active, Mess{
				ID:        p.ID,
				SpawnedAt: spawned,
				Position:  Position{X: p.X, Y: p.Y},
			})
		}
		s.Mess.dedupe()
	}

	var lastSeen time.Time
	if decodeField(raw, "last_seen", &lastSeen) {
		s.LastSeen = lastSeen.UTC()
	}

	var name string
	if decodeField(raw, "pet_name", &name) && name != "" {
		s.Name = name
	}
	var image string
	if decodeField(raw, "pet_image", &image) {
		s.Image = image
	}
	var status string
	if decodeField(raw, "last_status", &status) && status != "" {
		s.LastStatus = status
	} else {
		s.LastStatus = GetStatus(s)
	}

	return s, nil
}

func decodeSessionConfig(raw map[string]json.RawMessage, def SessionConfig) SessionConfig {
	cfg := def.Normalize()
	rawCfg, ok := raw["cfg"]
	if !ok {
		return cfg
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rawCfg, &fields); err != nil {
		log.Printf("Ignoring malformed cfg: %v", err)
		return cfg
	}

	var decay map[string]float64
	if decodeField(fields, "decay_per_hour", &decay) {
		loaded := make(DecayConfig, len(decay))
		for name, rate := range decay {
			loaded[Stat(name)] = rate
		}
		for stat, rate := range cfg.Decay {
			if _, ok := decay[string(stat)]; !ok {
				loaded[stat] = rate
			}
		}
		cfg.Decay = loaded
	}
	decodeField(fields, "min_tick_secs", &cfg.MinTickSecs)
	decodeField(fields, "autosave_secs", &cfg.AutosaveSecs)
	return cfg.Normalize()
}

func decodeMessConfig(rawCfg json.RawMessage, def MessConfig) MessConfig {
	cfg := def.Normalize()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rawCfg, &fields); err != nil {
		log.Printf("Ignoring malformed poop_cfg: %v", err)
		return cfg
	}
	decodeField(fields, "spawn_min_secs", &cfg.SpawnMinSecs)
	decodeField(fields, "spawn_max_secs", &cfg.SpawnMaxSecs)
	decodeField(fields, "max_on_field", &cfg.MaxOnField)
	decodeField(fields, "decay_per_min", &cfg.DecayPerMinute)
	decodeField(fields, "offline_spawn_per_hour", &cfg.OfflineSpawnPerHour)
	decodeField(fields, "offline_spawn_cap", &cfg.OfflineSpawnCap)
	decodeField(fields, "reward", &cfg.Reward)
	var target string
	if decodeField(fields, "target_stat", &target) {
		cfg.Target = Stat(target)
	}
	return cfg.Normalize()
}

// decodeField unmarshals raw[key] into dst, leaving dst untouched when the
// key is absent or malformed.
func decodeField[T any](raw map[string]json.RawMessage, key string, dst *T) bool {
	b, ok := raw[key]
	if !ok || string(b) == "null" {
		return false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		log.Printf("Ignoring malformed %s: %v", key, err)
		return false
	}
	*dst = v
	return true
}

// Load reads the session record. A missing or unreadable record yields a
// fresh pet and restored=false; it is never an error.
func (fs FileStore) Load(d Defaults) (s *State, restored bool) {
	now := TimeNow()
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error reading state file: %v. Creating new pet.", err)
		} else {
			log.Printf("No state file at %s. Creating new pet.", fs.Path)
		}
		return NewState(d, now), false
	}

	s, err = Decode(data, d, now)
	if err != nil {
		log.Printf("Error loading state: %v. Creating new pet.", err)
		return NewState(d, now), false
	}
	return s, true
}

// Save writes the record to a temporary file next to Path and renames it
// into place, so a failed save leaves the previous record intact.
func (fs FileStore) Save(s *State) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(fs.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fs.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp state: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp state: %w", err)
	}
	if err = os.Rename(tmpName, fs.Path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}
