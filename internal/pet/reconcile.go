package pet

import (
	"log"
	"math"
	"sort"
	"time"
)

// ReconcileReport summarizes an offline catch-up pass.
type ReconcileReport struct {
	ElapsedHours     float64
	OfflineMessCount int
	Spawned          int
	Penalty          float64
}

// Reconcile replays the time between s.LastSeen and now: continuous decay,
// the offline mess penalty, and backdated messes for the absence. It stamps
// LastSeen with now so the same span is never applied twice.
//
// The offline mess penalty multiplies by min(elapsedHours, 1), so an absence
// of any length past one hour costs the same as one hour. That bound is kept
// as-is pending a product decision.
func Reconcile(s *State, now time.Time) ReconcileReport {
	now = now.UTC()
	from := s.LastSeen
	hours := elapsedHours(from, now)
	report := ReconcileReport{ElapsedHours: hours}

	s.Stats.ApplyHourlyDecay(s.Config.Decay, hours)

	cfg := s.Mess.Config
	report.OfflineMessCount = offlineMessCount(hours, cfg)
	report.Penalty = float64(report.OfflineMessCount) * cfg.DecayPerMinute * math.Min(hours, 1)
	if report.Penalty > 0 {
		s.Stats.ApplyDelta(cfg.Target, -report.Penalty)
	}

	room := cfg.MaxOnField - s.Mess.Count()
	n := report.OfflineMessCount
	if n > room {
		n = room
	}
	for _, ts := range backdatedTimes(from, now, n) {
		if _, ok := s.Mess.TrySpawn(ts, RandomPosition()); ok {
			report.Spawned++
		}
	}

	s.LastSeen = now
	if hours > 0 {
		log.Printf("Reconciled %.2f offline hours: %d messes due, %d spawned, %.2f penalty",
			hours, report.OfflineMessCount, report.Spawned, report.Penalty)
	}
	return report
}

func offlineMessCount(hours float64, cfg MessConfig) int {
	due := math.Floor(hours * cfg.OfflineSpawnPerHour)
	if !(due > 0) {
		return 0
	}
	if due > float64(cfg.OfflineSpawnCap) {
		return cfg.OfflineSpawnCap
	}
	return int(due)
}

// backdatedTimes spreads n pseudo-random instants over [from, to], oldest
// first.
func backdatedTimes(from, to time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	span := to.Sub(from)
	if from.IsZero() || span < 0 {
		span = 0
	}
	times := make([]time.Time, n)
	for i := range times {
		times[i] = to.Add(-time.Duration(RandFloat64() * float64(span)))
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}
