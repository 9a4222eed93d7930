package tour

import (
	"fmt"
	"math"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/fatigue"
	"github.com/ChicagoDave/tourplanner/pkg/routing"
	"github.com/ChicagoDave/tourplanner/pkg/travel"
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// LongStreak is the low-comfort streak length that triggers a warning.
const LongStreak = 3

// Totals aggregates an itinerary.
type Totals struct {
	Shows               int     `json:"shows"`
	DistanceKm          float64 `json:"distance_km"`
	TravelCost          float64 `json:"travel_cost"`
	TravelHours         float64 `json:"travel_hours"`
	RestDays            int     `json:"rest_days"`
	ProjectedPayment    int     `json:"projected_payment"`
	ProjectedAttendance int     `json:"projected_attendance"`
}

// Itinerary is the planning view of a tour.
type Itinerary struct {
	TourID  string             `json:"tour_id"`
	Name    string             `json:"name"`
	Stops   []Stop             `json:"stops"`
	Legs    []travel.Leg       `json:"legs"`
	Route   routing.Suggestion `json:"route"`
	Fatigue fatigue.Report     `json:"fatigue"`
	Totals  Totals             `json:"totals"`
}

// Plan builds the itinerary for the active stops and reports scheduling
// problems. Stored legs are used as-is.
func (p *Planner) Plan(t *Tour) (*Itinerary, *validation.Report) {
	report := validation.NewReport()
	active := t.Active()

	it := &Itinerary{
		TourID:  t.ID,
		Name:    t.Name,
		Stops:   active,
		Legs:    make([]travel.Leg, len(active)),
		Route:   routing.Suggest(t.RouteStops()),
		Fatigue: p.Fatigue.Track(t.FatigueLegs()),
	}

	for i, s := range active {
		it.Legs[i] = s.Leg
		it.Totals.Shows++
		it.Totals.DistanceKm += s.Leg.DistanceKm
		it.Totals.TravelCost += s.Leg.Cost
		it.Totals.TravelHours += s.Leg.TimeHours
		it.Totals.RestDays += s.Leg.RestDays
		if s.Result != nil {
			it.Totals.ProjectedPayment += s.Result.Payment
		} else {
			it.Totals.ProjectedPayment += s.Quote.Payment
		}
		it.Totals.ProjectedAttendance += s.ProjectedAttendance

		if i == 0 {
			continue
		}
		gap := daysBetween(active[i-1].Date, s.Date)
		if s.Leg.RestDays > 0 && s.Leg.RestDays >= gap {
			report.AddWarning(validation.Result{
				Level:       validation.LevelItinerary,
				Message:     fmt.Sprintf("travel to %s needs %d rest day(s) but only %d day(s) separate the shows", s.Location, s.Leg.RestDays, gap),
				SpecPath:    fmt.Sprintf("stops[%d].date", i),
				StopID:      s.ID,
				ActualValue: gap,
				Expected:    fmt.Sprintf("> %d days", s.Leg.RestDays),
				Suggestions: []string{"move the show later", "pick a faster or more comfortable mode"},
			})
		}
	}
	it.Totals.DistanceKm = round2(it.Totals.DistanceKm)
	it.Totals.TravelCost = round2(it.Totals.TravelCost)
	it.Totals.TravelHours = round2(it.Totals.TravelHours)

	for _, e := range it.Fatigue.Entries {
		if e.Streak == LongStreak {
			report.AddWarning(validation.Result{
				Level:       validation.LevelItinerary,
				Message:     fmt.Sprintf("%d consecutive low-comfort legs ending at this stop", e.Streak),
				SpecPath:    "stops",
				StopID:      e.StopID,
				ActualValue: e.Comfort,
				Suggestions: []string{"upgrade a leg to air or taxi"},
			})
		}
	}
	if it.Route.SavingsKm > 0 {
		report.AddInfo(validation.Result{
			Level:       validation.LevelItinerary,
			Message:     fmt.Sprintf("visiting in suggested order would save %.2f km", it.Route.SavingsKm),
			SpecPath:    "stops",
			ActualValue: it.Route.ChronologicalDistanceKm,
		})
	}
	return it, report
}

// daysBetween counts whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(math.Round(db.Sub(da).Hours() / 24))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
