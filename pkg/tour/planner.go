package tour

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/environment"
	"github.com/ChicagoDave/tourplanner/pkg/fatigue"
	"github.com/ChicagoDave/tourplanner/pkg/geo"
	"github.com/ChicagoDave/tourplanner/pkg/travel"
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// Planner runs the booking and settlement workflow over a Tour.
type Planner struct {
	Travel   travel.Model
	Composer *environment.Composer
	Fatigue  fatigue.Tracker
	NewID    func() string
}

// NewPlanner builds a planner with uuid stop ids.
func NewPlanner(model travel.Model, composer *environment.Composer, tracker fatigue.Tracker) *Planner {
	return &Planner{
		Travel:   model,
		Composer: composer,
		Fatigue:  tracker,
		NewID:    uuid.NewString,
	}
}

// Schedule books a show and appends it to the tour. The travel leg comes from
// the latest active stop before the booking date, or the tour origin.
func (p *Planner) Schedule(ctx context.Context, t *Tour, b Booking, player economics.PlayerState) (Stop, error) {
	if b.Date.IsZero() {
		return Stop{}, validation.Invalid("date", b.Date, "booking date is required")
	}
	if unmet := economics.CheckRequirements(b.Venue, player); len(unmet) > 0 {
		return Stop{}, fmt.Errorf("%w at %s: %v", ErrRequirementsUnmet, b.Venue.Name, unmet)
	}
	cfg, err := b.Show.Config()
	if err != nil {
		return Stop{}, err
	}

	from := t.previousLocation(b.Date)
	mode := b.Mode
	if mode == "" {
		mode = travel.SuggestMode(geo.DistanceKm(from, b.Venue.Location))
	}
	leg, err := p.Travel.Leg(from, b.Venue.Location, mode)
	if err != nil {
		return Stop{}, fmt.Errorf("scheduling %s: %w", b.Venue.Name, err)
	}

	env := environment.Neutral()
	if p.Composer != nil {
		env = p.Composer.ComposeAt(ctx, b.Venue.Location, b.Date)
	}
	leg.Cost = math.Round(leg.Cost*env.CostMultiplier*100) / 100

	quote, err := economics.QuoteGig(b.Venue, b.Show, player)
	if err != nil {
		return Stop{}, err
	}

	projected := int(math.Floor(float64(b.Venue.Capacity) * cfg.AttendanceModifier * env.AttendanceMultiplier * float64(quote.SuccessChance) / 100))
	if projected < 1 {
		projected = 1
	}

	id := b.ID
	if id == "" {
		id = p.newID()
	} else if _, err := t.Find(id); err == nil {
		return Stop{}, validation.Invalid("stop_id", id, "already used in this tour")
	}

	stop := Stop{
		ID:                  id,
		Venue:               b.Venue,
		Location:            b.Venue.Location,
		Date:                b.Date,
		ShowType:            b.Show,
		Mode:                mode,
		Leg:                 leg,
		Environment:         env,
		Quote:               quote,
		ProjectedAttendance: projected,
		Status:              StatusScheduled,
	}
	t.Stops = append(t.Stops, stop)
	return stop, nil
}

// Complete settles a scheduled stop. The travel penalty counts only stops
// already completed before it, and the environment is the booking snapshot.
func (p *Planner) Complete(t *Tour, stopID string, player economics.PlayerState, rnd economics.RandomSource) (economics.Settlement, error) {
	i, err := t.Find(stopID)
	if err != nil {
		return economics.Settlement{}, err
	}
	stop := &t.Stops[i]
	if !stop.Status.CanTransition(StatusCompleted) {
		return economics.Settlement{}, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, stopID, stop.Status)
	}

	penalty, err := p.Fatigue.SettlementPenalty(t.FatigueLegs(), stopID)
	if err != nil {
		return economics.Settlement{}, err
	}

	env := stop.Environment
	result, err := economics.PerformGig(economics.SettlementInput{
		Venue:         stop.Venue,
		Show:          stop.ShowType,
		Player:        player,
		Quote:         stop.Quote,
		Environment:   &env,
		TravelPenalty: penalty,
		Random:        rnd,
	})
	if err != nil {
		return economics.Settlement{}, fmt.Errorf("settling %s: %w", stopID, err)
	}

	stop.Status = StatusCompleted
	stop.ProjectedAttendance = result.Attendance
	stop.Result = &result
	return result, nil
}

// Cancel drops a scheduled stop from the tour. Cancelled stops stay in the
// list for audit but no longer count toward fatigue or totals.
func (p *Planner) Cancel(t *Tour, stopID string) error {
	i, err := t.Find(stopID)
	if err != nil {
		return err
	}
	stop := &t.Stops[i]
	if !stop.Status.CanTransition(StatusCancelled) {
		return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, stopID, stop.Status)
	}
	stop.Status = StatusCancelled
	return nil
}

func (p *Planner) newID() string {
	if p.NewID == nil {
		return uuid.NewString()
	}
	return p.NewID()
}

func sortStops(stops []Stop) {
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Date.Before(stops[j].Date)
	})
}
