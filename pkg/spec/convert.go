package spec

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/environment"
	"github.com/ChicagoDave/tourplanner/pkg/fatigue"
	"github.com/ChicagoDave/tourplanner/pkg/tour"
	"github.com/ChicagoDave/tourplanner/pkg/travel"
)

// TravelModel returns the default model with the file's mode overrides.
func (s *TourSpec) TravelModel() travel.Model {
	return travel.DefaultModel().WithOverrides(s.Travel.Modes)
}

// FatigueTracker returns a tracker for the configured threshold.
func (s *TourSpec) FatigueTracker() fatigue.Tracker {
	return fatigue.NewTracker(s.Travel.FatigueThreshold)
}

// CalendarSource converts the declared effects into an environment source.
func (s *TourSpec) CalendarSource() (environment.CalendarSource, error) {
	var src environment.CalendarSource
	for i, e := range s.Environment.Effects {
		from, err := parseOptionalDate(e.From)
		if err != nil {
			return src, fmt.Errorf("environment.effects[%d].from: %w", i, err)
		}
		to, err := parseOptionalDate(e.To)
		if err != nil {
			return src, fmt.Errorf("environment.effects[%d].to: %w", i, err)
		}
		src.Entries = append(src.Entries, environment.CalendarEntry{
			Effect:    e.Effect,
			Locations: e.Locations,
			From:      from,
			To:        to,
		})
	}
	return src, nil
}

// Planner builds the planner described by the file, using src for environment
// effects. A nil src uses the file's own calendar.
func (s *TourSpec) Planner(src environment.Source) (*tour.Planner, error) {
	if src == nil {
		cal, err := s.CalendarSource()
		if err != nil {
			return nil, err
		}
		src = cal
	}
	timeout, err := time.ParseDuration(s.Environment.Timeout)
	if err != nil {
		return nil, fmt.Errorf("environment.timeout: %w", err)
	}
	composer := &environment.Composer{Source: src, Timeout: timeout, Logf: log.Printf}
	return tour.NewPlanner(s.TravelModel(), composer, s.FatigueTracker()), nil
}

// BuildTour schedules every stop in the file, in date order, so that each leg
// starts from the previous show.
func (s *TourSpec) BuildTour(ctx context.Context, p *tour.Planner) (*tour.Tour, error) {
	type dated struct {
		def  StopDef
		date time.Time
	}
	stops := make([]dated, 0, len(s.Stops))
	for i, st := range s.Stops {
		at, err := environment.ParseTime(st.Date)
		if err != nil {
			return nil, fmt.Errorf("stops[%d].date: %w", i, err)
		}
		stops = append(stops, dated{st, at})
	}
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].date.Before(stops[j].date)
	})

	t := &tour.Tour{ID: s.Tour.ID, Name: s.Tour.Name, Origin: s.Tour.Origin}
	for _, st := range stops {
		venue := s.VenueByID(st.def.Venue)
		if venue == nil {
			return nil, fmt.Errorf("stop %s: unknown venue %q", st.def.ID, st.def.Venue)
		}
		show, err := economics.ParseShowType(st.def.ShowType)
		if err != nil {
			return nil, fmt.Errorf("stop %s: %w", st.def.ID, err)
		}
		var mode travel.Mode
		if st.def.Mode != "" {
			if mode, err = travel.ParseMode(st.def.Mode); err != nil {
				return nil, fmt.Errorf("stop %s: %w", st.def.ID, err)
			}
		}
		booking := tour.Booking{ID: st.def.ID, Venue: *venue, Date: st.date, Show: show, Mode: mode}
		if _, err := p.Schedule(ctx, t, booking, s.Player); err != nil {
			return nil, fmt.Errorf("stop %s: %w", st.def.ID, err)
		}
	}
	return t, nil
}
