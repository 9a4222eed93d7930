package environment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

type captureLog struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureLog) logf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

func (c *captureLog) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func heatwave() Effect {
	return Effect{ID: "w1", Name: "Heatwave", Source: SourceWeather, AttendanceMultiplier: Float(0.9)}
}

func fuelCrisis() Effect {
	return Effect{ID: "e1", Name: "Fuel crisis", Source: SourceWorldEvent, AttendanceMultiplier: Float(0.8), CostMultiplier: Float(1.25)}
}

var at = time.Date(2025, time.July, 14, 20, 0, 0, 0, time.UTC)

func TestNeutral(t *testing.T) {
	n := Neutral()
	if !n.IsNeutral() {
		t.Errorf("Neutral() = %+v", n)
	}
	if n.Applied == nil || len(n.Applied) != 0 {
		t.Errorf("Applied = %v, want empty non-nil", n.Applied)
	}
	if got := OrNeutral(nil); !got.IsNeutral() {
		t.Errorf("OrNeutral(nil) = %+v", got)
	}
}

func TestCombineMultiplicative(t *testing.T) {
	m := Combine([]Effect{heatwave(), fuelCrisis()})
	if !approxEqual(m.AttendanceMultiplier, 0.72) {
		t.Errorf("attendance = %v, want 0.72", m.AttendanceMultiplier)
	}
	if !approxEqual(m.CostMultiplier, 1.25) {
		t.Errorf("cost = %v, want 1.25", m.CostMultiplier)
	}
	if m.MoraleModifier != 1 {
		t.Errorf("morale = %v, want 1 when no effect sets it", m.MoraleModifier)
	}
	if len(m.Applied) != 2 || m.Applied[0].ID != "w1" || m.Applied[1].ID != "e1" {
		t.Errorf("applied = %+v", m.Applied)
	}
}

func TestCombineEmpty(t *testing.T) {
	if m := Combine(nil); !m.IsNeutral() {
		t.Errorf("Combine(nil) = %+v", m)
	}
}

func TestSummaryCopiesMultipliers(t *testing.T) {
	e := heatwave()
	s := e.Summary()
	*e.AttendanceMultiplier = 0.1
	if *s.AttendanceMultiplier != 0.9 {
		t.Errorf("summary shares storage with effect: %v", *s.AttendanceMultiplier)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		effect Effect
		want   string
	}{
		{heatwave(), "Heatwave (attendance -10%)"},
		{fuelCrisis(), "Fuel crisis (attendance -20%, cost +25%)"},
		{Effect{Name: "Festival buzz", MoraleModifier: Float(1.15)}, "Festival buzz (morale +15%)"},
		{Effect{Name: "Calm"}, "Calm"},
	}
	for _, tt := range tests {
		if got := tt.effect.Summary().Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestComposeAtCombinesSource(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, location string, _ time.Time) ([]Effect, error) {
		if location != "London" {
			return nil, nil
		}
		return []Effect{heatwave(), fuelCrisis()}, nil
	})
	c := &Composer{Source: src, Timeout: time.Second}
	m := c.ComposeAt(context.Background(), "London", at)
	if !approxEqual(m.AttendanceMultiplier, 0.72) {
		t.Errorf("attendance = %v, want 0.72", m.AttendanceMultiplier)
	}
	if m := c.ComposeAt(context.Background(), "Paris", at); !m.IsNeutral() {
		t.Errorf("Paris = %+v, want neutral", m)
	}
}

func TestComposeAtSourceErrorIsNeutral(t *testing.T) {
	logs := &captureLog{}
	src := SourceFunc(func(context.Context, string, time.Time) ([]Effect, error) {
		return nil, errors.New("feed unavailable")
	})
	c := &Composer{Source: src, Timeout: time.Second, Logf: logs.logf}
	m := c.ComposeAt(context.Background(), "London", at)
	if !m.IsNeutral() || len(m.Applied) != 0 {
		t.Errorf("modifier = %+v, want neutral", m)
	}
	if logs.count() != 1 || !strings.Contains(logs.lines[0], "feed unavailable") {
		t.Errorf("logs = %v", logs.lines)
	}
}

func TestComposeAtTimeoutIsNeutral(t *testing.T) {
	logs := &captureLog{}
	src := SourceFunc(func(ctx context.Context, _ string, _ time.Time) ([]Effect, error) {
		<-ctx.Done()
		return []Effect{heatwave()}, nil
	})
	c := &Composer{Source: src, Timeout: 20 * time.Millisecond, Logf: logs.logf}

	start := time.Now()
	m := c.ComposeAt(context.Background(), "London", at)
	if !m.IsNeutral() {
		t.Errorf("modifier = %+v, want neutral on timeout", m)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ComposeAt took %v, expected to give up near the timeout", elapsed)
	}
	if logs.count() != 1 {
		t.Errorf("expected one log line, got %v", logs.lines)
	}
}

func TestComposeAtNilSource(t *testing.T) {
	var c *Composer
	if m := c.ComposeAt(context.Background(), "London", at); !m.IsNeutral() {
		t.Errorf("nil composer = %+v", m)
	}
	if m := (&Composer{}).ComposeAt(context.Background(), "London", at); !m.IsNeutral() {
		t.Errorf("nil source = %+v", m)
	}
}

func TestComposeParsesDates(t *testing.T) {
	var seen time.Time
	src := SourceFunc(func(_ context.Context, _ string, when time.Time) ([]Effect, error) {
		seen = when
		return nil, nil
	})
	c := &Composer{Source: src, Timeout: time.Second}

	if _, err := c.Compose(context.Background(), "London", "2025-07-14"); err != nil {
		t.Fatalf("date only: %v", err)
	}
	if !seen.Equal(time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("seen = %v", seen)
	}
	if _, err := c.Compose(context.Background(), "London", "2025-07-14T20:00:00Z"); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if !seen.Equal(at) {
		t.Errorf("seen = %v, want %v", seen, at)
	}
}

func TestComposeRejectsBadDate(t *testing.T) {
	c := NewComposer(CalendarSource{})
	_, err := c.Compose(context.Background(), "London", "next tuesday")
	if err == nil {
		t.Fatal("expected error for unparsable date")
	}
	if !strings.Contains(err.Error(), "date") {
		t.Errorf("error = %v", err)
	}
}

func TestCalendarSource(t *testing.T) {
	src := CalendarSource{Entries: []CalendarEntry{
		{
			Effect:    heatwave(),
			Locations: []string{"london", "Paris"},
			From:      time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
			To:        time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			Effect:    fuelCrisis(),
			Locations: []string{AnyLocation},
		},
	}}

	tests := []struct {
		location string
		when     time.Time
		want     []string
	}{
		{"London", at, []string{"w1", "e1"}},
		{"  PARIS ", at, []string{"w1", "e1"}},
		{"Berlin", at, []string{"e1"}},
		{"London", at.AddDate(0, 0, 1), []string{"e1"}},
		{"London", time.Date(2025, time.July, 9, 23, 0, 0, 0, time.UTC), []string{"e1"}},
	}
	for _, tt := range tests {
		effects, err := src.ActiveEffects(context.Background(), tt.location, tt.when)
		if err != nil {
			t.Fatalf("ActiveEffects: %v", err)
		}
		var ids []string
		for _, e := range effects {
			ids = append(ids, e.ID)
		}
		if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%s @ %s: got %v, want %v", tt.location, tt.when.Format(time.DateOnly), ids, tt.want)
		}
	}
}

func TestCalendarSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (CalendarSource{}).ActiveEffects(ctx, "London", at); err == nil {
		t.Error("expected context error")
	}
}
