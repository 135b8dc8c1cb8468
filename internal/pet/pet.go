package pet

import (
	"math/rand"
	"time"
)

// Testable time and random functions
var (
	TimeNow     = func() time.Time { return time.Now().UTC() }
	RandFloat64 = rand.Float64
)

// LogEntry is one line of the pet's care history.
type LogEntry struct {
	Time      time.Time `json:"time"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status,omitempty"`
	Stats     StatSet   `json:"stats,omitempty"`
}

// Log entry kinds
const (
	LogAction    = "action"
	LogReconcile = "reconcile"
	LogStatus    = "status"
	LogMess      = "mess"
)

// Defaults seed the configuration of a brand new session.
type Defaults struct {
	Name    string
	Image   string
	Session SessionConfig
	Mess    MessConfig
}

// StockDefaults returns the built-in first-run configuration.
func StockDefaults() Defaults {
	return Defaults{
		Name:    DefaultPetName,
		Session: DefaultSessionConfig(),
		Mess:    DefaultMessConfig(),
	}
}

// State is everything a session owns. It is mutated only by the engine's
// control loop.
type State struct {
	Name       string
	Image      string
	Volume     int
	Stats      StatSet
	Config     SessionConfig
	Mess       MessField
	LastSeen   time.Time
	LastStatus string
}

// NewState creates a fresh pet from defaults.
func NewState(d Defaults, now time.Time) *State {
	name := d.Name
	if name == "" {
		name = DefaultPetName
	}
	s := &State{
		Name:     name,
		Image:    d.Image,
		Volume:   DefaultVolume,
		Stats:    NewStatSet(),
		Config:   d.Session.Normalize(),
		Mess:     NewMessField(d.Mess),
		LastSeen: now.UTC(),
	}
	s.LastStatus = GetStatus(s)
	return s
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := *s
	out.Stats = s.Stats.Clone()
	out.Config.Decay = s.Config.Decay.Clone()
	out.Mess.Active = s.Mess.Snapshot()
	return &out
}

// ApplyElapsed applies continuous decay for the time between from and to.
func (s *State) ApplyElapsed(from, to time.Time) float64 {
	hours := elapsedHours(from, to)
	s.Stats.ApplyHourlyDecay(s.Config.Decay, hours)
	return hours
}

func elapsedHours(from, to time.Time) float64 {
	if from.IsZero() || to.IsZero() {
		return 0
	}
	h := to.Sub(from).Hours()
	if h < 0 {
		return 0
	}
	return h
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}
