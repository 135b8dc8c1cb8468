package pet

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// NewMessID generates mess identifiers. Tests may replace it.
var NewMessID = uuid.NewString

// Position is a point on the play field, in scene pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RandomPosition picks a point inside the field margins.
func RandomPosition() Position {
	return Position{
		X: FieldMargin + RandFloat64()*(FieldWidth-2*FieldMargin),
		Y: FieldMargin + RandFloat64()*(FieldHeight-2*FieldMargin),
	}
}

// Mess is an uncollected dropping. It lowers the target stat every minute
// until it is collected.
type Mess struct {
	ID        string
	SpawnedAt time.Time
	Position  Position
}

// MessField holds the active messes and the rules that govern them.
type MessField struct {
	Config MessConfig
	Active []Mess
}

// NewMessField returns an empty field with cfg.
func NewMessField(cfg MessConfig) MessField {
	return MessField{Config: cfg.Normalize()}
}

// Count returns the number of active messes.
func (f *MessField) Count() int {
	return len(f.Active)
}

// Full reports whether the field is at its cap.
func (f *MessField) Full() bool {
	return len(f.Active) >= f.Config.MaxOnField
}

// NextSpawnDelay draws the next spawn interval uniformly from the configured
// bounds.
func (f *MessField) NextSpawnDelay() time.Duration {
	lo, hi := f.Config.SpawnMinSecs, f.Config.SpawnMaxSecs
	secs := lo + RandFloat64()*(hi-lo)
	return time.Duration(secs * float64(time.Second))
}

// TrySpawn adds a mess at pos unless the field is full.
func (f *MessField) TrySpawn(now time.Time, pos Position) (Mess, bool) {
	if f.Full() {
		return Mess{}, false
	}
	m := Mess{ID: f.uniqueID(), SpawnedAt: now.UTC(), Position: pos}
	f.Active = append(f.Active, m)
	return m, true
}

// OnMinuteTick charges one minute of penalty for every active mess.
func (f *MessField) OnMinuteTick(stats StatSet) bool {
	n := len(f.Active)
	if n == 0 {
		return false
	}
	stats.ApplyDelta(f.Config.Target, -float64(n)*f.Config.DecayPerMinute)
	return true
}

// Remove collects one mess and grants its reward. Unknown ids are ignored.
func (f *MessField) Remove(id string, stats StatSet) bool {
	for i, m := range f.Active {
		if m.ID != id {
			continue
		}
		f.Active = append(f.Active[:i], f.Active[i+1:]...)
		stats.ApplyDelta(f.Config.Target, f.Config.Reward)
		return true
	}
	return false
}

// ClearAll collects every mess and grants the combined reward as one delta.
func (f *MessField) ClearAll(stats StatSet) int {
	n := len(f.Active)
	if n == 0 {
		return 0
	}
	f.Active = nil
	stats.ApplyDelta(f.Config.Target, f.Config.Reward*float64(n))
	return n
}

// Find returns the active mess with id.
func (f *MessField) Find(id string) (Mess, bool) {
	for _, m := range f.Active {
		if m.ID == id {
			return m, true
		}
	}
	return Mess{}, false
}

// Snapshot returns a copy of the active messes.
func (f *MessField) Snapshot() []Mess {
	out := make([]Mess, len(f.Active))
	copy(out, f.Active)
	return out
}

// dedupe drops repeated ids and anything past the cap, keeping the oldest
// entries first.
func (f *MessField) dedupe() {
	seen := make(map[string]bool, len(f.Active))
	kept := f.Active[:0]
	for _, m := range f.Active {
		if m.ID == "" || seen[m.ID] {
			log.Printf("Dropping duplicate or blank mess id %q", m.ID)
			continue
		}
		seen[m.ID] = true
		kept = append(kept, m)
	}
	if len(kept) > f.Config.MaxOnField {
		log.Printf("Trimming %d messes over the field cap of %d", len(kept)-f.Config.MaxOnField, f.Config.MaxOnField)
		kept = kept[:f.Config.MaxOnField]
	}
	f.Active = kept
}

func (f *MessField) uniqueID() string {
	id := NewMessID()
	for i := 1; ; i++ {
		candidate := id
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", id, i)
		}
		if _, taken := f.Find(candidate); !taken {
			return candidate
		}
	}
}
