package pet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tamatots/internal/scheduler"
)

// Action names a player command.
type Action string

const (
	ActionEat     Action = "eat"
	ActionWater   Action = "water"
	ActionHeal    Action = "heal"
	ActionWash    Action = "wash"
	ActionCollect Action = "collect"
	ActionVolume  Action = "volume"
	ActionName    Action = "name"
)

var cooldowns = map[Action]time.Duration{
	ActionEat:  EatCooldown,
	ActionHeal: HealCooldown,
}

// ErrCooldown matches every CooldownError.
var ErrCooldown = errors.New("action is cooling down")

// CooldownError rejects an action repeated too soon. The state is unchanged.
type CooldownError struct {
	Action    Action
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	if e.Action == ActionEat {
		return "not hungry yet"
	}
	return fmt.Sprintf("%s is cooling down (%s left)", e.Action, e.Remaining.Round(time.Second))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldown
}

// Recorder receives care history entries.
type Recorder interface {
	Record(ctx context.Context, e LogEntry) error
}

// Engine owns one pet session. All methods must be called from a single
// goroutine: the presentation layer's control loop.
type Engine struct {
	state      *State
	store      Store
	recorder   Recorder
	sched      *scheduler.Scheduler
	lastDecay  time.Time
	lastAction map[Action]time.Time
	started    bool
	shutdown   bool
}

// NewEngine wraps s. store and recorder may be nil.
func NewEngine(s *State, store Store, recorder Recorder) *Engine {
	return &Engine{
		state:      s,
		store:      store,
		recorder:   recorder,
		lastAction: make(map[Action]time.Time),
	}
}

// Start reconciles the time since the last session, saves immediately, and
// arms the session tasks.
func (e *Engine) Start(now time.Time) (ReconcileReport, error) {
	if e.started {
		return ReconcileReport{}, errors.New("engine already started")
	}
	now = now.UTC()
	report := Reconcile(e.state, now)
	e.lastDecay = now
	e.started = true

	if report.ElapsedHours > 0 {
		e.record(LogReconcile, fmt.Sprintf("%.2fh offline, %d messes appeared, -%.2f %s",
			report.ElapsedHours, report.Spawned, report.Penalty, e.state.Mess.Config.Target))
	}

	sched := scheduler.New(now)
	cfg := e.state.Config
	if err := errors.Join(
		sched.Every(TaskDecay, cfg.TickInterval(), scheduler.Coalesce, e.flush),
		sched.Every(TaskMessTick, MessTickInterval, scheduler.CatchUp, e.messMinute),
		sched.After(TaskSpawn, e.state.Mess.NextSpawnDelay, e.spawnTick),
		sched.Every(TaskAutosave, cfg.AutosaveInterval(), scheduler.Coalesce, e.autosave),
	); err != nil {
		return report, fmt.Errorf("arm session tasks: %w", err)
	}
	e.sched = sched

	e.save(now)
	return report, nil
}

// Advance runs every session task that is due at now.
func (e *Engine) Advance(now time.Time) {
	if e.sched == nil {
		return
	}
	e.sched.Advance(now.UTC())
}

// Shutdown brings decay up to now, stamps the record, saves it, and stops
// the session tasks. Calling it again is a no-op.
func (e *Engine) Shutdown(now time.Time) error {
	if e.shutdown {
		return nil
	}
	e.shutdown = true
	if e.sched != nil {
		e.sched.Stop()
	}
	return e.persist(now.UTC())
}

// Scheduler exposes the session task driver.
func (e *Engine) Scheduler() *scheduler.Scheduler {
	return e.sched
}

// Eat feeds the pet. A second call within EatCooldown is rejected.
func (e *Engine) Eat() error {
	return e.act(ActionEat, func(s *State) string {
		s.Stats.ApplyDelta(Hunger, EatHungerIncrease)
		s.Stats.ApplyDelta(Fun, EatFunIncrease)
		return fmt.Sprintf("ate, hunger %.0f", s.Stats[Hunger])
	})
}

// Water gives the pet a drink.
func (e *Engine) Water() error {
	return e.act(ActionWater, func(s *State) string {
		s.Stats.ApplyDelta(Energy, WaterEnergyIncrease)
		s.Stats.ApplyDelta(Hunger, WaterHungerIncrease)
		return fmt.Sprintf("drank, energy %.0f", s.Stats[Energy])
	})
}

// Heal treats the pet. A second call within HealCooldown is rejected.
func (e *Engine) Heal() error {
	return e.act(ActionHeal, func(s *State) string {
		s.Stats.ApplyDelta(Health, HealHealthIncrease)
		return fmt.Sprintf("healed, health %.0f", s.Stats[Health])
	})
}

// Wash collects every mess at once and returns how many were cleared.
func (e *Engine) Wash() int {
	var n int
	_ = e.act(ActionWash, func(s *State) string {
		n = s.Mess.ClearAll(s.Stats)
		return fmt.Sprintf("washed, %d messes cleared", n)
	})
	return n
}

// CollectMess removes one mess. Unknown or already collected ids are a
// no-op and report false.
func (e *Engine) CollectMess(id string) bool {
	var removed bool
	_ = e.act(ActionCollect, func(s *State) string {
		removed = s.Mess.Remove(id, s.Stats)
		if !removed {
			return ""
		}
		return "collected mess " + id
	})
	return removed
}

// SetVolume stores the volume preference.
func (e *Engine) SetVolume(v int) {
	_ = e.act(ActionVolume, func(s *State) string {
		s.Volume = clampVolume(v)
		return ""
	})
}

// SetIdentity names the pet and picks its sprite.
func (e *Engine) SetIdentity(name, image string) {
	_ = e.act(ActionName, func(s *State) string {
		if name = strings.TrimSpace(name); name != "" {
			s.Name = name
		}
		s.Image = image
		return "named " + s.Name
	})
}

// Stats returns a copy of the current stat values.
func (e *Engine) Stats() StatSet {
	return e.state.Stats.Clone()
}

// Mood returns the 0..MaxHearts heart rating.
func (e *Engine) Mood() int {
	return e.state.Stats.Mood()
}

// Messes returns the active messes.
func (e *Engine) Messes() []Mess {
	return e.state.Mess.Snapshot()
}

// Status returns the labelled status line.
func (e *Engine) Status() string {
	return GetStatusWithLabel(e.state)
}

// Cooldown reports how long until action is accepted again.
func (e *Engine) Cooldown(action Action) time.Duration {
	cd, ok := cooldowns[action]
	if !ok {
		return 0
	}
	last, ok := e.lastAction[action]
	if !ok {
		return 0
	}
	since := TimeNow().Sub(last)
	// A clock that stepped backwards releases the gate.
	if since < 0 || since >= cd {
		return 0
	}
	return cd - since
}

// Snapshot returns a deep copy of the session state.
func (e *Engine) Snapshot() *State {
	return e.state.Clone()
}

func (e *Engine) act(action Action, apply func(*State) string) error {
	if left := e.Cooldown(action); left > 0 {
		return &CooldownError{Action: action, Remaining: left}
	}
	now := TimeNow()
	detail := apply(e.state)
	if _, gated := cooldowns[action]; gated {
		e.lastAction[action] = now
	}
	if detail != "" {
		log.Printf("Action %s: %s", action, detail)
		e.record(LogAction, detail)
	}
	e.save(now)
	return nil
}

func (e *Engine) flush(now time.Time) {
	if now.After(e.lastDecay) {
		e.state.ApplyElapsed(e.lastDecay, now)
		e.lastDecay = now
	}
}

func (e *Engine) messMinute(time.Time) {
	e.state.Mess.OnMinuteTick(e.state.Stats)
}

func (e *Engine) spawnTick(now time.Time) {
	m, ok := e.state.Mess.TrySpawn(now, RandomPosition())
	if !ok {
		return
	}
	e.record(LogMess, fmt.Sprintf("mess %s appeared at (%.0f, %.0f)", m.ID, m.Position.X, m.Position.Y))
}

func (e *Engine) autosave(now time.Time) {
	e.save(now)
}

// save persists and logs failures; gameplay carries on in memory and the
// next autosave retries.
func (e *Engine) save(now time.Time) {
	if err := e.persist(now); err != nil {
		log.Printf("Error saving state: %v", err)
	}
}

func (e *Engine) persist(now time.Time) error {
	if e.started {
		e.flush(now)
		if now.After(e.state.LastSeen) {
			e.state.LastSeen = now
		}
	}

	current := GetStatus(e.state)
	if current != e.state.LastStatus {
		old := e.state.LastStatus
		e.state.LastStatus = current
		e.recordEntry(LogEntry{
			Time:      now,
			Kind:      LogStatus,
			Detail:    GetStatusWithLabel(e.state),
			OldStatus: old,
			NewStatus: current,
			Stats:     e.state.Stats.Clone(),
		})
	}

	if e.store == nil {
		return nil
	}
	return e.store.Save(e.state)
}

func (e *Engine) record(kind, detail string) {
	e.recordEntry(LogEntry{
		Time:   TimeNow(),
		Kind:   kind,
		Detail: detail,
		Stats:  e.state.Stats.Clone(),
	})
}

func (e *Engine) recordEntry(entry LogEntry) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(context.Background(), entry); err != nil {
		log.Printf("Error recording %s entry: %v", entry.Kind, err)
	}
}
