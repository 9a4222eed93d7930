package tour

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/environment"
	"github.com/ChicagoDave/tourplanner/pkg/fatigue"
	"github.com/ChicagoDave/tourplanner/pkg/geo"
	"github.com/ChicagoDave/tourplanner/pkg/travel"
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

func day(n int) time.Time {
	return time.Date(2025, time.October, n, 20, 0, 0, 0, time.UTC)
}

func defaultPlayer() economics.PlayerState {
	return economics.PlayerState{
		ID:     "p1",
		Fame:   1500,
		Health: 90,
		Skills: economics.Skills{Performance: 55, Vocals: 60, Guitar: 45, Songwriting: 50},
		Attributes: economics.Attributes{
			Charisma: 300, Looks: 250, Musicality: 350, Performance: 300,
		},
	}
}

func venue(id, location string) economics.Venue {
	return economics.Venue{
		ID:            id,
		Name:          "Venue " + id,
		Location:      location,
		BasePayment:   400,
		Capacity:      300,
		PrestigeLevel: 1,
	}
}

func defaultPlanner(src environment.Source) *Planner {
	n := 0
	p := NewPlanner(travel.DefaultModel(), &environment.Composer{Source: src, Timeout: time.Second}, fatigue.NewTracker(fatigue.DefaultThreshold))
	p.NewID = func() string {
		n++
		return fmt.Sprintf("stop-%d", n)
	}
	return p
}

func book(t *testing.T, p *Planner, tr *Tour, v economics.Venue, date time.Time, mode travel.Mode) Stop {
	t.Helper()
	s, err := p.Schedule(context.Background(), tr, Booking{Venue: v, Date: date, Show: economics.ShowStandard, Mode: mode}, defaultPlayer())
	if err != nil {
		t.Fatalf("Schedule(%s): %v", v.ID, err)
	}
	return s
}

func countWarnings(r *validation.Report, substr string) int {
	n := 0
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, substr) {
			n++
		}
	}
	return n
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusScheduled, StatusCompleted, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusScheduled, StatusScheduled, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.ok {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestScheduleFirstStopHasNoTravel(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1"}
	s := book(t, p, tr, venue("a", "London"), day(1), "")

	if s.ID != "stop-1" || s.Status != StatusScheduled {
		t.Errorf("stop = %+v", s)
	}
	if s.Leg.DistanceKm != 0 || s.Leg.Cost != 0 || s.Leg.TimeHours != 0 {
		t.Errorf("first leg = %+v, want no travel", s.Leg)
	}
	if s.Mode != travel.ModeTaxi {
		t.Errorf("mode = %s, want taxi for a zero-distance leg", s.Mode)
	}
	if s.Leg.Comfort != travel.TaxiBaseComfort {
		t.Errorf("comfort = %d, want base comfort %d", s.Leg.Comfort, travel.TaxiBaseComfort)
	}
	if !s.Environment.IsNeutral() || len(s.Environment.Applied) != 0 {
		t.Errorf("environment = %+v, want neutral", s.Environment)
	}
	if len(tr.Stops) != 1 {
		t.Fatalf("tour has %d stops", len(tr.Stops))
	}
}

func TestScheduleLegFromPreviousStop(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1", Origin: "London"}
	book(t, p, tr, venue("a", "London"), day(1), travel.ModeCoach)
	book(t, p, tr, venue("b", "Glasgow"), day(5), travel.ModeCoach)
	s := book(t, p, tr, venue("c", "Manchester"), day(3), travel.ModeCoach)

	if s.Leg.From != "London" {
		t.Errorf("from = %q, want London (latest stop before day 3)", s.Leg.From)
	}
	want := geo.DistanceKm("London", "Manchester")
	if s.Leg.DistanceKm != want {
		t.Errorf("distance = %.2f, want %.2f", s.Leg.DistanceKm, want)
	}
}

func TestScheduleSuggestsMode(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1", Origin: "London"}
	s := book(t, p, tr, venue("a", "Sydney"), day(1), "")
	if s.Mode != travel.ModeAir {
		t.Errorf("mode = %s, want air for an intercontinental leg", s.Mode)
	}
}

func TestScheduleSnapshotsEnvironment(t *testing.T) {
	src := environment.CalendarSource{Entries: []environment.CalendarEntry{{
		Effect: environment.Effect{
			ID: "fuel", Name: "Fuel crisis", Source: environment.SourceWorldEvent,
			CostMultiplier:       environment.Float(1.25),
			AttendanceMultiplier: environment.Float(0.8),
		},
		Locations: []string{"Manchester"},
	}}}
	p := defaultPlanner(src)
	tr := &Tour{ID: "t1", Origin: "London"}
	s := book(t, p, tr, venue("m", "Manchester"), day(2), travel.ModeCoach)

	base, err := travel.DefaultModel().Leg("London", "Manchester", travel.ModeCoach)
	if err != nil {
		t.Fatal(err)
	}
	wantCost := math.Round(base.Cost*1.25*100) / 100
	if s.Leg.Cost != wantCost {
		t.Errorf("cost = %.2f, want %.2f", s.Leg.Cost, wantCost)
	}
	if len(s.Environment.Applied) != 1 || s.Environment.Applied[0].ID != "fuel" {
		t.Errorf("applied = %+v", s.Environment.Applied)
	}

	neutral := defaultPlanner(nil)
	plain := book(t, neutral, &Tour{ID: "t2", Origin: "London"}, venue("m", "Manchester"), day(2), travel.ModeCoach)
	if s.ProjectedAttendance >= plain.ProjectedAttendance {
		t.Errorf("projected %d should drop below neutral %d", s.ProjectedAttendance, plain.ProjectedAttendance)
	}

	res, err := p.Complete(tr, s.ID, defaultPlayer(), economics.FixedSource(0, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	got := tr.Stops[0]
	if len(got.Environment.Applied) != 1 || got.Environment.Applied[0].ID != "fuel" {
		t.Errorf("applied effects changed on completion: %+v", got.Environment.Applied)
	}
	if got.ProjectedAttendance != res.Attendance {
		t.Errorf("projected = %d, want actual %d", got.ProjectedAttendance, res.Attendance)
	}
}

func TestScheduleRequirementsUnmet(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1"}
	v := venue("arena", "London")
	v.Requirements = []economics.Requirement{{Kind: economics.RequireMinFame, Minimum: 50000}}
	_, err := p.Schedule(context.Background(), tr, Booking{Venue: v, Date: day(1), Show: economics.ShowStandard}, defaultPlayer())
	if !errors.Is(err, ErrRequirementsUnmet) {
		t.Fatalf("err = %v, want ErrRequirementsUnmet", err)
	}
	if len(tr.Stops) != 0 {
		t.Error("rejected booking was added to the tour")
	}
}

func TestScheduleInvalidInput(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1"}
	_, err := p.Schedule(context.Background(), tr, Booking{Venue: venue("a", "London"), Show: economics.ShowStandard}, defaultPlayer())
	if !validation.IsInvalidInput(err) {
		t.Errorf("missing date: err = %v", err)
	}
	_, err = p.Schedule(context.Background(), tr, Booking{Venue: venue("a", "London"), Date: day(1), Show: "opera"}, defaultPlayer())
	if !validation.IsInvalidInput(err) {
		t.Errorf("unknown show: err = %v", err)
	}
	_, err = p.Schedule(context.Background(), tr, Booking{Venue: venue("a", "London"), Date: day(1), Show: economics.ShowStandard, Mode: "rocket"}, defaultPlayer())
	if !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("unknown mode: err = %v", err)
	}
}

func TestCompleteLifecycle(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1"}
	s := book(t, p, tr, venue("a", "London"), day(1), travel.ModeCoach)

	res, err := p.Complete(tr, s.ID, defaultPlayer(), economics.FixedSource(0, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if tr.Stops[0].Status != StatusCompleted || tr.Stops[0].Result == nil {
		t.Errorf("stop after completion = %+v", tr.Stops[0])
	}
	// Coach at zero distance has comfort 45: deficit 5 gives a penalty of 1.
	if res.HealthDelta != -1 {
		t.Errorf("health delta = %d, want -1", res.HealthDelta)
	}

	if _, err := p.Complete(tr, s.ID, defaultPlayer(), nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double settlement: err = %v, want ErrInvalidTransition", err)
	}
	if err := p.Cancel(tr, s.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel completed: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := p.Complete(tr, "nope", defaultPlayer(), nil); !errors.Is(err, ErrStopNotFound) {
		t.Errorf("unknown stop: err = %v, want ErrStopNotFound", err)
	}
}

func TestCancel(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1"}
	s := book(t, p, tr, venue("a", "London"), day(1), "")
	if err := p.Cancel(tr, s.ID); err != nil {
		t.Fatal(err)
	}
	if tr.Stops[0].Status != StatusCancelled {
		t.Errorf("status = %s", tr.Stops[0].Status)
	}
	if _, err := p.Complete(tr, s.ID, defaultPlayer(), nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("complete cancelled: err = %v", err)
	}
	if err := p.Cancel(tr, "missing"); !errors.Is(err, ErrStopNotFound) {
		t.Errorf("cancel missing: err = %v", err)
	}
	if len(tr.Active()) != 0 {
		t.Error("cancelled stop still active")
	}
}

func TestCompletePenaltyIgnoresUnplayedStops(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1", Origin: "London"}
	a := book(t, p, tr, venue("a", "London"), day(1), travel.ModeCoach)
	book(t, p, tr, venue("b", "Manchester"), day(2), travel.ModeCoach)
	c := book(t, p, tr, venue("c", "Glasgow"), day(3), travel.ModeCoach)

	if _, err := p.Complete(tr, a.ID, defaultPlayer(), economics.FixedSource(0, 0.5)); err != nil {
		t.Fatal(err)
	}
	res, err := p.Complete(tr, c.ID, defaultPlayer(), economics.FixedSource(0, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	// Only stop a is completed before c, so c sits on a streak of two.
	want := p.Fatigue.Penalty(c.Leg.Comfort, 2)
	if res.HealthDelta != want {
		t.Errorf("health delta = %d, want %d", res.HealthDelta, want)
	}
}

func TestHealthStaysInRange(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1", Origin: "Sydney"}
	cities := []string{"London", "Sydney", "Toronto", "Berlin", "Nashville", "Dublin"}
	for i, c := range cities {
		book(t, p, tr, venue(fmt.Sprint(i), c), day(i*4+1), travel.ModeCoach)
	}
	player := defaultPlayer()
	player.Health = 30
	for _, s := range tr.Active() {
		res, err := p.Complete(tr, s.ID, player, economics.SeededSource(int64(len(s.ID))))
		if err != nil {
			t.Fatal(err)
		}
		player.Health += res.HealthDelta
		if player.Health < 0 || player.Health > 100 {
			t.Fatalf("health left range: %d", player.Health)
		}
	}
}

func TestPlan(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1", Name: "Autumn run"}
	a := book(t, p, tr, venue("a", "London"), day(1), travel.ModeCoach)
	b := book(t, p, tr, venue("b", "Glasgow"), day(2), travel.ModeCoach)
	c := book(t, p, tr, venue("c", "Manchester"), day(3), travel.ModeCoach)
	x := book(t, p, tr, venue("x", "Dublin"), day(4), travel.ModeAir)
	if err := p.Cancel(tr, x.ID); err != nil {
		t.Fatal(err)
	}

	it, report := p.Plan(tr)
	if !report.Valid {
		t.Fatalf("report invalid: %+v", report.Errors)
	}
	if it.Totals.Shows != 3 || len(it.Legs) != 3 {
		t.Fatalf("shows = %d legs = %d, want 3", it.Totals.Shows, len(it.Legs))
	}
	wantDist := math.Round((a.Leg.DistanceKm+b.Leg.DistanceKm+c.Leg.DistanceKm)*100) / 100
	if it.Totals.DistanceKm != wantDist {
		t.Errorf("distance = %.2f, want %.2f", it.Totals.DistanceKm, wantDist)
	}
	if want := a.Quote.Payment + b.Quote.Payment + c.Quote.Payment; it.Totals.ProjectedPayment != want {
		t.Errorf("payment = %d, want %d", it.Totals.ProjectedPayment, want)
	}
	if it.Route.SavingsKm <= 0 {
		t.Errorf("expected the London-Glasgow-Manchester zig-zag to have savings")
	}
	if len(report.Info) == 0 {
		t.Error("expected a route savings info finding")
	}
	if it.Fatigue.WorstStreak != 3 {
		t.Errorf("worst streak = %d, want 3 coach legs in a row", it.Fatigue.WorstStreak)
	}
	if countWarnings(report, "consecutive low-comfort") != 1 {
		t.Errorf("warnings = %+v", report.Warnings)
	}
}

func TestPlanWarnsOnInfeasibleRest(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1"}
	book(t, p, tr, venue("a", "London"), day(1), travel.ModeAir)
	s := book(t, p, tr, venue("b", "Sydney"), day(3), travel.ModeCoach)
	if s.Leg.RestDays < 2 {
		t.Fatalf("rest days = %d, expected a long coach haul", s.Leg.RestDays)
	}
	_, report := p.Plan(tr)
	if countWarnings(report, "rest day") != 1 {
		t.Errorf("warnings = %+v", report.Warnings)
	}
}

func TestPlanSameDayShowsNeedNoRest(t *testing.T) {
	p := defaultPlanner(nil)
	tr := &Tour{ID: "t1"}
	book(t, p, tr, venue("a", "London"), day(1), travel.ModeTaxi)
	s := book(t, p, tr, venue("b", "London"), day(1), travel.ModeTaxi)
	if s.Leg.RestDays != 0 {
		t.Fatalf("rest days = %d, want 0 for a same-city leg", s.Leg.RestDays)
	}
	_, report := p.Plan(tr)
	if n := countWarnings(report, "rest day"); n != 0 {
		t.Errorf("rest warnings = %d, want 0: %+v", n, report.Warnings)
	}
}

func TestPlanEmptyTour(t *testing.T) {
	it, report := defaultPlanner(nil).Plan(&Tour{ID: "empty"})
	if it.Totals.Shows != 0 || len(it.Route.Order) != 0 {
		t.Errorf("itinerary = %+v", it)
	}
	if !report.Valid || len(report.Warnings) != 0 {
		t.Errorf("report = %+v", report)
	}
}
