// Package scheduler drives named time-based tasks from a single control loop.
//
// A Scheduler never starts goroutines or timers of its own. The owner calls
// Advance with the current time and every due task runs synchronously on the
// caller's goroutine, in registration order.
package scheduler

import (
	"fmt"
	"time"
)

// Func is a task body. now is the instant Advance was called with.
type Func func(now time.Time)

// Mode controls how a periodic task treats intervals it missed.
type Mode int

const (
	// Coalesce runs once no matter how many intervals were missed.
	Coalesce Mode = iota
	// CatchUp runs once per missed interval.
	CatchUp
)

type task struct {
	name     string
	interval time.Duration
	next     func() time.Duration
	mode     Mode
	fn       Func
	due      time.Time
	fired    int
}

func (t *task) oneShot() bool { return t.next != nil }

// Scheduler holds named periodic and self-rearming one-shot tasks.
type Scheduler struct {
	now     time.Time
	tasks   []*task
	byName  map[string]*task
	stopped bool
}

// New returns a scheduler whose clock starts at now.
func New(now time.Time) *Scheduler {
	return &Scheduler{now: now, byName: make(map[string]*task)}
}

// Every registers fn to run every interval, first at now+interval.
func (s *Scheduler) Every(name string, interval time.Duration, mode Mode, fn Func) error {
	if interval <= 0 {
		return fmt.Errorf("task %q: interval must be positive, got %s", name, interval)
	}
	return s.add(&task{name: name, interval: interval, mode: mode, fn: fn, due: s.now.Add(interval)})
}

// After registers a one-shot task armed at now+next(). Each time it fires it
// is re-armed exactly once, at the fire instant plus a fresh next().
func (s *Scheduler) After(name string, next func() time.Duration, fn Func) error {
	if next == nil {
		return fmt.Errorf("task %q: next is nil", name)
	}
	return s.add(&task{name: name, next: next, fn: fn, due: s.now.Add(nonNegative(next()))})
}

func (s *Scheduler) add(t *task) error {
	if t.fn == nil {
		return fmt.Errorf("task %q: func is nil", t.name)
	}
	if _, dup := s.byName[t.name]; dup {
		return fmt.Errorf("task %q already registered", t.name)
	}
	s.tasks = append(s.tasks, t)
	s.byName[t.name] = t
	return nil
}

// Advance moves the clock to now and runs every task that has come due.
// Time never moves backwards; an earlier now only runs nothing.
func (s *Scheduler) Advance(now time.Time) {
	if s.stopped {
		return
	}
	if now.Before(s.now) {
		return
	}
	s.now = now
	for _, t := range s.tasks {
		if s.stopped {
			return
		}
		s.runDue(t, now)
	}
}

func (s *Scheduler) runDue(t *task, now time.Time) {
	if now.Before(t.due) {
		return
	}
	if t.oneShot() {
		t.fired++
		t.fn(now)
		t.due = now.Add(nonNegative(t.next()))
		return
	}
	if t.mode == Coalesce {
		t.fired++
		t.fn(now)
		missed := now.Sub(t.due)/t.interval + 1
		t.due = t.due.Add(missed * t.interval)
		return
	}
	for !now.Before(t.due) && !s.stopped {
		t.fired++
		t.fn(now)
		t.due = t.due.Add(t.interval)
	}
}

// Reset re-arms a task as if it had just been registered at the current
// clock.
func (s *Scheduler) Reset(name string) bool {
	t, ok := s.byName[name]
	if !ok {
		return false
	}
	if t.oneShot() {
		t.due = s.now.Add(nonNegative(t.next()))
	} else {
		t.due = s.now.Add(t.interval)
	}
	return true
}

// NextDue reports when the named task will next run.
func (s *Scheduler) NextDue(name string) (time.Time, bool) {
	t, ok := s.byName[name]
	if !ok || s.stopped {
		return time.Time{}, false
	}
	return t.due, true
}

// Fired reports how many times the named task has run.
func (s *Scheduler) Fired(name string) int {
	if t, ok := s.byName[name]; ok {
		return t.fired
	}
	return 0
}

// Names lists the registered tasks in run order.
func (s *Scheduler) Names() []string {
	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = t.name
	}
	return names
}

// Stop disarms every task. Advance is a no-op afterwards.
func (s *Scheduler) Stop() {
	s.stopped = true
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	return s.stopped
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
