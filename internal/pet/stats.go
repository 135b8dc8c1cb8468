package pet

import (
	"math"
	"sort"
)

// Stat names a bounded pet attribute.
type Stat string

const (
	Hunger Stat = "hunger"
	Health Stat = "health"
	Energy Stat = "energy"
	Fun    Stat = "fun"
)

// AllStats lists every recognized stat in display order.
var AllStats = []Stat{Hunger, Health, Energy, Fun}

// moodWeights are normalized over the stats actually present in a set.
var moodWeights = map[Stat]float64{
	Hunger: 0.45,
	Health: 0.35,
	Energy: 0.20,
	Fun:    0.20,
}

// ParseStat returns the recognized stat for name.
func ParseStat(name string) (Stat, bool) {
	for _, s := range AllStats {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// StatSet maps stats to values kept inside [MinStat, MaxStat].
type StatSet map[Stat]float64

// NewStatSet returns every recognized stat at DefaultStat.
func NewStatSet() StatSet {
	s := make(StatSet, len(AllStats))
	for _, stat := range AllStats {
		s[stat] = DefaultStat
	}
	return s
}

// Get returns the value of stat and whether the set tracks it.
func (s StatSet) Get(stat Stat) (float64, bool) {
	v, ok := s[stat]
	return v, ok
}

// ApplyDelta adds amount to stat and clamps the result. Stats the set does
// not track and non-finite amounts are ignored.
func (s StatSet) ApplyDelta(stat Stat, amount float64) {
	cur, ok := s[stat]
	if !ok || math.IsNaN(amount) {
		return
	}
	s[stat] = clampStat(cur + amount)
}

// ApplyHourlyDecay subtracts rate*elapsedHours from every stat with a
// configured rate. Negative elapsed time counts as zero.
func (s StatSet) ApplyHourlyDecay(rates DecayConfig, elapsedHours float64) {
	if !(elapsedHours > 0) || math.IsInf(elapsedHours, 0) {
		return
	}
	for stat, rate := range rates {
		if rate == 0 {
			continue
		}
		s.ApplyDelta(stat, -rate*elapsedHours)
	}
}

// Mood returns the weighted stat composite as 0..MaxHearts hearts.
func (s StatSet) Mood() int {
	var total, weights float64
	for _, stat := range AllStats {
		v, ok := s[stat]
		if !ok {
			continue
		}
		w := moodWeights[stat]
		total += v * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	hearts := int(math.Round(total / weights / MaxStat * MaxHearts))
	if hearts < 0 {
		return 0
	}
	if hearts > MaxHearts {
		return MaxHearts
	}
	return hearts
}

// Lowest returns the tracked stat with the smallest value.
func (s StatSet) Lowest() (Stat, float64) {
	var lowest Stat
	value := math.Inf(1)
	for _, stat := range AllStats {
		if v, ok := s[stat]; ok && v < value {
			lowest, value = stat, v
		}
	}
	return lowest, value
}

// Clone returns an independent copy.
func (s StatSet) Clone() StatSet {
	out := make(StatSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Names returns the tracked stat names in display order.
func (s StatSet) Names() []Stat {
	names := make([]Stat, 0, len(s))
	for stat := range s {
		names = append(names, stat)
	}
	sort.Slice(names, func(i, j int) bool { return statOrder(names[i]) < statOrder(names[j]) })
	return names
}

func statOrder(s Stat) int {
	for i, stat := range AllStats {
		if stat == s {
			return i
		}
	}
	return len(AllStats)
}

func clampStat(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return MinStat
	case v < MinStat:
		return MinStat
	case v > MaxStat:
		return MaxStat
	}
	return v
}
