package environment

import (
	"context"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/geo"
)

// AnyLocation matches every location in a calendar entry.
const AnyLocation = "*"

// CalendarEntry schedules an effect for some locations over an inclusive
// date window. Dates compare by calendar day in UTC.
type CalendarEntry struct {
	Effect    Effect
	Locations []string
	From      time.Time
	To        time.Time
}

// CalendarSource is a static Source backed by scheduled entries, such as the
// environment section of a tour project file.
type CalendarSource struct {
	Entries []CalendarEntry
}

// ActiveEffects returns the effects whose window and location match.
func (s CalendarSource) ActiveEffects(ctx context.Context, location string, at time.Time) ([]Effect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := geo.Normalize(location)
	when := dayOf(at)

	var out []Effect
	for _, e := range s.Entries {
		if !e.From.IsZero() && when.Before(dayOf(e.From)) {
			continue
		}
		if !e.To.IsZero() && when.After(dayOf(e.To)) {
			continue
		}
		if !matchesLocation(e.Locations, key) {
			continue
		}
		out = append(out, e.Effect)
	}
	return out, nil
}

func matchesLocation(locations []string, key string) bool {
	if len(locations) == 0 {
		return true
	}
	for _, l := range locations {
		if l == AnyLocation || geo.Normalize(l) == key {
			return true
		}
	}
	return false
}

func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
