// Package fatigue projects the health cost of repeated low-comfort travel.
//
// A leg is low-comfort when its comfort is below the tracker threshold.
// Consecutive low-comfort legs build a streak, and each leg's penalty grows
// with both its comfort deficit and the streak length. A comfortable leg
// resets the streak.
package fatigue

import (
	"math"
	"sort"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// DefaultThreshold is the comfort score below which a leg counts as low-comfort.
const DefaultThreshold = 50

const (
	penaltyScale = 20.0
	minHealth    = 0
	maxHealth    = 100
)

// Leg is the fatigue-relevant view of one stop's inbound travel.
type Leg struct {
	StopID    string    `json:"stop_id"`
	Date      time.Time `json:"date"`
	Comfort   int       `json:"comfort"`
	Completed bool      `json:"completed"`
}

// Entry is the per-stop fatigue projection.
type Entry struct {
	StopID  string `json:"stop_id"`
	Comfort int    `json:"comfort"`
	Penalty int    `json:"penalty"`
	Streak  int    `json:"streak"`
}

// Report is the full-itinerary fatigue projection.
type Report struct {
	Entries        []Entry          `json:"entries"`
	ByStop         map[string]Entry `json:"by_stop"`
	TotalPenalty   int              `json:"total_penalty"`
	WorstStreak    int              `json:"worst_streak"`
	LowComfortLegs int              `json:"low_comfort_legs"`
	AverageComfort float64          `json:"average_comfort"`
}

// Tracker applies the streak/penalty rule for a given threshold.
type Tracker struct {
	Threshold int `json:"threshold"`
}

// NewTracker returns a tracker with the given threshold, or the default when
// threshold is not positive.
func NewTracker(threshold int) Tracker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Tracker{Threshold: threshold}
}

// IsLowComfort reports whether comfort falls below the threshold.
func (t Tracker) IsLowComfort(comfort int) bool {
	return comfort < t.threshold()
}

// Penalty returns the (negative) health penalty for a leg at the given streak.
// Comfortable legs carry no penalty.
func (t Tracker) Penalty(comfort, streak int) int {
	if !t.IsLowComfort(comfort) {
		return 0
	}
	deficit := float64(t.threshold()-comfort) / 100
	base := int(math.Round(deficit * penaltyScale))
	if base < 1 {
		base = 1
	}
	if streak < 1 {
		streak = 1
	}
	return -base * streak
}

// Track walks the legs in date order and projects a penalty for each.
func (t Tracker) Track(legs []Leg) Report {
	ordered := sortByDate(legs)
	report := Report{
		Entries: make([]Entry, 0, len(ordered)),
		ByStop:  make(map[string]Entry, len(ordered)),
	}

	streak := 0
	comfortSum := 0
	for _, leg := range ordered {
		entry := Entry{StopID: leg.StopID, Comfort: leg.Comfort}
		if t.IsLowComfort(leg.Comfort) {
			streak++
			entry.Streak = streak
			entry.Penalty = t.Penalty(leg.Comfort, streak)
			report.LowComfortLegs++
		} else {
			streak = 0
		}
		if streak > report.WorstStreak {
			report.WorstStreak = streak
		}
		report.TotalPenalty += -entry.Penalty
		comfortSum += leg.Comfort

		report.Entries = append(report.Entries, entry)
		report.ByStop[leg.StopID] = entry
	}
	if len(ordered) > 0 {
		report.AverageComfort = math.Round(float64(comfortSum)/float64(len(ordered))*100) / 100
	}
	return report
}

// SettlementPenalty returns the penalty to apply when stopID is completed.
// Only completed stops dated before it count toward the streak; scheduled
// stops that have not been played yet are ignored.
func (t Tracker) SettlementPenalty(legs []Leg, stopID string) (int, error) {
	ordered := sortByDate(legs)
	idx := -1
	for i, leg := range ordered {
		if leg.StopID == stopID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, validation.Invalid("stop_id", stopID, "not part of this itinerary")
	}
	target := ordered[idx]

	streak := 0
	for _, leg := range ordered[:idx] {
		if !leg.Completed || !leg.Date.Before(target.Date) {
			continue
		}
		if t.IsLowComfort(leg.Comfort) {
			streak++
		} else {
			streak = 0
		}
	}
	if !t.IsLowComfort(target.Comfort) {
		return 0, nil
	}
	return t.Penalty(target.Comfort, streak+1), nil
}

// ApplyHealth adds a penalty to health and clamps the result to [0,100].
func ApplyHealth(health, penalty int) int {
	h := health + penalty
	if h < minHealth {
		return minHealth
	}
	if h > maxHealth {
		return maxHealth
	}
	return h
}

// HealthDelta is the change that ApplyHealth would make, for delta-based
// settlement. Out-of-range starting health is clamped first.
func HealthDelta(health, penalty int) int {
	start := ApplyHealth(health, 0)
	return ApplyHealth(start, penalty) - health
}

func (t Tracker) threshold() int {
	if t.Threshold <= 0 {
		return DefaultThreshold
	}
	return t.Threshold
}

func sortByDate(legs []Leg) []Leg {
	ordered := make([]Leg, len(legs))
	copy(ordered, legs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}
