package tour

import (
	"errors"
	"fmt"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/environment"
	"github.com/ChicagoDave/tourplanner/pkg/fatigue"
	"github.com/ChicagoDave/tourplanner/pkg/routing"
	"github.com/ChicagoDave/tourplanner/pkg/travel"
)

var (
	ErrInvalidTransition = errors.New("invalid stop transition")
	ErrStopNotFound      = errors.New("stop not found")
	ErrRequirementsUnmet = errors.New("venue requirements not met")
)

// Status is the stop lifecycle state.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// CanTransition reports whether a stop may move from s to next.
// Only scheduled stops move, and only to completed or cancelled.
func (s Status) CanTransition(next Status) bool {
	return s == StatusScheduled && (next == StatusCompleted || next == StatusCancelled)
}

// Booking is a request to add a show to a tour. An empty Mode lets the
// planner pick one from the leg distance; an empty ID gets a generated one.
type Booking struct {
	ID    string             `json:"id,omitempty"`
	Venue economics.Venue    `json:"venue"`
	Date  time.Time          `json:"date"`
	Show  economics.ShowType `json:"show_type"`
	Mode  travel.Mode        `json:"mode,omitempty"`
}

// Stop is a scheduled show. Leg and Environment are snapshots taken when the
// stop was scheduled and are never recomputed.
type Stop struct {
	ID                  string                `json:"id"`
	Venue               economics.Venue       `json:"venue"`
	Location            string                `json:"location"`
	Date                time.Time             `json:"date"`
	ShowType            economics.ShowType    `json:"show_type"`
	Mode                travel.Mode           `json:"mode"`
	Leg                 travel.Leg            `json:"leg"`
	Environment         environment.Modifier  `json:"environment"`
	Quote               economics.Quote       `json:"quote"`
	ProjectedAttendance int                   `json:"projected_attendance"`
	Status              Status                `json:"status"`
	Result              *economics.Settlement `json:"result,omitempty"`
}

// Tour is an ordered collection of stops. Origin is where the band starts;
// an empty origin means the first leg has no travel.
type Tour struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Origin string `json:"origin,omitempty"`
	Stops  []Stop `json:"stops"`
}

// Find returns the index of the stop with the given id.
func (t *Tour) Find(stopID string) (int, error) {
	for i := range t.Stops {
		if t.Stops[i].ID == stopID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrStopNotFound, stopID)
}

// Active returns the non-cancelled stops in date order.
func (t *Tour) Active() []Stop {
	var out []Stop
	for _, s := range t.Stops {
		if s.Status != StatusCancelled {
			out = append(out, s)
		}
	}
	sortStops(out)
	return out
}

// previousLocation is where the band will be coming from for a show on date.
func (t *Tour) previousLocation(date time.Time) string {
	loc := t.Origin
	var latest time.Time
	for _, s := range t.Stops {
		if s.Status == StatusCancelled || !s.Date.Before(date) {
			continue
		}
		if latest.IsZero() || !s.Date.Before(latest) {
			latest = s.Date
			loc = s.Location
		}
	}
	return loc
}

// FatigueLegs is the fatigue view of the active stops.
func (t *Tour) FatigueLegs() []fatigue.Leg {
	active := t.Active()
	legs := make([]fatigue.Leg, len(active))
	for i, s := range active {
		legs[i] = fatigue.Leg{
			StopID:    s.ID,
			Date:      s.Date,
			Comfort:   s.Leg.Comfort,
			Completed: s.Status == StatusCompleted,
		}
	}
	return legs
}

// RouteStops is the route optimizer view of the active stops.
func (t *Tour) RouteStops() []routing.Stop {
	active := t.Active()
	stops := make([]routing.Stop, len(active))
	for i, s := range active {
		stops[i] = routing.Stop{ID: s.ID, Date: s.Date, Location: s.Location}
	}
	return stops
}
