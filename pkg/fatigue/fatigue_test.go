package fatigue

import (
	"testing"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

func day(n int) time.Time {
	return time.Date(2025, time.June, n, 20, 0, 0, 0, time.UTC)
}

func legs(comforts ...int) []Leg {
	out := make([]Leg, len(comforts))
	for i, c := range comforts {
		out[i] = Leg{StopID: string(rune('a' + i)), Date: day(i + 1), Comfort: c}
	}
	return out
}

func TestTrackStreakResets(t *testing.T) {
	r := NewTracker(50).Track(legs(30, 90, 20))

	if got := r.ByStop["c"].Streak; got != 1 {
		t.Errorf("leg 3 streak = %d, want 1 (leg 2 resets)", got)
	}
	if got := r.ByStop["b"]; got.Streak != 0 || got.Penalty != 0 {
		t.Errorf("comfortable leg should have zero streak/penalty, got %+v", got)
	}
	if got := r.ByStop["a"].Penalty; got != -4 {
		t.Errorf("leg 1 penalty = %d, want -4", got)
	}
	if got := r.ByStop["c"].Penalty; got != -6 {
		t.Errorf("leg 3 penalty = %d, want -6", got)
	}
	if r.TotalPenalty != 10 {
		t.Errorf("total penalty = %d, want 10", r.TotalPenalty)
	}
	if r.WorstStreak != 1 || r.LowComfortLegs != 2 {
		t.Errorf("worst streak %d low legs %d, want 1 and 2", r.WorstStreak, r.LowComfortLegs)
	}
	if r.AverageComfort != 46.67 {
		t.Errorf("average comfort = %.2f, want 46.67", r.AverageComfort)
	}
}

func TestTrackPenaltyGrowsWithStreak(t *testing.T) {
	r := NewTracker(50).Track(legs(40, 40, 40))
	want := []int{-2, -4, -6}
	for i, e := range r.Entries {
		if e.Streak != i+1 {
			t.Errorf("leg %d streak = %d, want %d", i, e.Streak, i+1)
		}
		if e.Penalty != want[i] {
			t.Errorf("leg %d penalty = %d, want %d", i, e.Penalty, want[i])
		}
	}
	if r.WorstStreak != 3 {
		t.Errorf("worst streak = %d, want 3", r.WorstStreak)
	}
}

func TestPenaltyMinimumMagnitude(t *testing.T) {
	// A one-point deficit rounds to 0 but the floor keeps it at 1.
	if got := NewTracker(50).Penalty(49, 1); got != -1 {
		t.Errorf("Penalty(49,1) = %d, want -1", got)
	}
	if got := NewTracker(50).Penalty(49, 0); got != -1 {
		t.Errorf("Penalty(49,0) = %d, want -1", got)
	}
	if got := NewTracker(50).Penalty(50, 3); got != 0 {
		t.Errorf("comfort at threshold should carry no penalty, got %d", got)
	}
}

func TestTrackOrdersByDate(t *testing.T) {
	in := []Leg{
		{StopID: "late", Date: day(9), Comfort: 20},
		{StopID: "early", Date: day(1), Comfort: 20},
	}
	r := NewTracker(50).Track(in)
	if r.Entries[0].StopID != "early" {
		t.Errorf("first entry = %s, want early", r.Entries[0].StopID)
	}
	if r.ByStop["late"].Streak != 2 {
		t.Errorf("late streak = %d, want 2", r.ByStop["late"].Streak)
	}
	if in[0].StopID != "late" {
		t.Error("Track must not reorder its input")
	}
}

func TestTrackEmpty(t *testing.T) {
	r := NewTracker(0).Track(nil)
	if len(r.Entries) != 0 || r.TotalPenalty != 0 || r.AverageComfort != 0 {
		t.Errorf("empty track should be zero, got %+v", r)
	}
}

func TestSettlementPenaltyCountsCompletedOnly(t *testing.T) {
	in := legs(30, 30, 30)
	tr := NewTracker(50)

	// Nothing completed yet: the third stop starts a fresh streak.
	p, err := tr.SettlementPenalty(in, "c")
	if err != nil {
		t.Fatal(err)
	}
	if p != -4 {
		t.Errorf("penalty with no completed stops = %d, want -4", p)
	}

	in[0].Completed = true
	in[1].Completed = true
	p, _ = tr.SettlementPenalty(in, "c")
	if p != -12 {
		t.Errorf("penalty after two completed low legs = %d, want -12", p)
	}

	// A completed comfortable stop in between resets the streak.
	in[1].Comfort = 80
	p, _ = tr.SettlementPenalty(in, "c")
	if p != -4 {
		t.Errorf("penalty after reset = %d, want -4", p)
	}
}

func TestSettlementPenaltyIgnoresFutureStops(t *testing.T) {
	in := legs(30, 30, 30)
	in[2].Completed = true
	p, _ := NewTracker(50).SettlementPenalty(in, "a")
	if p != -4 {
		t.Errorf("future completed stop should not count, got %d", p)
	}
}

func TestSettlementPenaltyUnknownStop(t *testing.T) {
	_, err := NewTracker(50).SettlementPenalty(legs(30), "zzz")
	if !validation.IsInvalidInput(err) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestApplyHealthClamp(t *testing.T) {
	cases := []struct{ health, penalty, want int }{
		{50, -10, 40},
		{5, -12, 0},
		{100, 0, 100},
		{98, 10, 100},
		{-5, 0, 0},
	}
	for _, tc := range cases {
		if got := ApplyHealth(tc.health, tc.penalty); got != tc.want {
			t.Errorf("ApplyHealth(%d,%d) = %d, want %d", tc.health, tc.penalty, got, tc.want)
		}
	}
}

func TestHealthStaysInRangeOverManySettlements(t *testing.T) {
	tr := NewTracker(50)
	health := 100
	for i := 0; i < 40; i++ {
		health += HealthDelta(health, tr.Penalty(10, i+1))
		if health < 0 || health > 100 {
			t.Fatalf("health left range after settlement %d: %d", i, health)
		}
	}
	if health != 0 {
		t.Errorf("health = %d, want 0 after sustained exhaustion", health)
	}
}
