package spec

import (
	"fmt"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/environment"
	"github.com/ChicagoDave/tourplanner/pkg/geo"
	"github.com/ChicagoDave/tourplanner/pkg/travel"
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// Validate performs schema validation on a parsed TourSpec.
// It checks structural correctness before anything is scheduled.
func Validate(s *TourSpec) *validation.Report {
	r := validation.NewReport()

	validateVersion(s, r)
	validatePlayer(s, r)
	validateVenues(s, r)
	validateStops(s, r)
	validateTravel(s, r)
	validateEnvironment(s, r)

	return r
}

func schemaError(r *validation.Report, path, msg string, actual any, expected string) {
	r.AddError(validation.Result{
		Level:       validation.LevelSchema,
		Message:     msg,
		SpecPath:    path,
		ActualValue: actual,
		Expected:    expected,
	})
}

func validateVersion(s *TourSpec, r *validation.Report) {
	if s.SpecVersion != CurrentVersion {
		r.AddWarning(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("spec_version %q is not %q; fields may be ignored", s.SpecVersion, CurrentVersion),
			SpecPath:    "spec_version",
			ActualValue: s.SpecVersion,
			Expected:    CurrentVersion,
		})
	}
}

func validatePlayer(s *TourSpec, r *validation.Report) {
	p := s.Player
	if p.ID == "" {
		schemaError(r, "player.id", "player.id is required", p.ID, "non-empty")
	}
	if p.Health < 0 || p.Health > 100 {
		schemaError(r, "player.health", "player.health must be within 0-100", p.Health, "0-100")
	}
	if p.Fame < 0 {
		schemaError(r, "player.fame", "player.fame must be non-negative", p.Fame, ">= 0")
	}
	for _, name := range []string{"performance", "vocals", "guitar", "songwriting"} {
		v, _ := p.Skills.Value(name)
		if v < 0 || v > economics.MaxSkill {
			schemaError(r, "player.skills."+name, fmt.Sprintf("skill %s must be within 0-100", name), v, "0-100")
		}
	}
	for _, name := range []string{"charisma", "looks", "musicality", "performance"} {
		v, _ := p.Attributes.Value(name)
		if v < 0 || v > economics.MaxAttribute {
			schemaError(r, "player.attributes."+name, fmt.Sprintf("attribute %s must be within 0-1000", name), v, "0-1000")
		}
	}
}

func validateVenues(s *TourSpec, r *validation.Report) {
	if len(s.Venues) == 0 {
		schemaError(r, "venues", "venues must contain at least one venue", 0, "at least 1 venue")
		return
	}
	seen := map[string]bool{}
	for i, v := range s.Venues {
		path := fmt.Sprintf("venues[%d]", i)
		if v.ID == "" {
			schemaError(r, path+".id", "venue id is required", v.ID, "non-empty")
		} else if seen[v.ID] {
			schemaError(r, path+".id", fmt.Sprintf("duplicate venue id %q", v.ID), v.ID, "unique")
		}
		seen[v.ID] = true

		if v.Location == "" {
			r.AddWarning(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("venue %q has no location; travel to it will be treated as zero distance", v.ID),
				SpecPath:    path + ".location",
				Suggestions: []string{"Set a city name such as London or Berlin"},
			})
		} else if !geo.IsKnown(v.Location) {
			r.AddInfo(validation.Result{
				Level:    validation.LevelSchema,
				Message:  fmt.Sprintf("location %q is not in the known city table; a synthetic coordinate will be used", v.Location),
				SpecPath: path + ".location",
			})
		}
		if v.Capacity <= 0 {
			schemaError(r, path+".capacity", "capacity must be greater than 0", v.Capacity, "> 0")
		}
		if v.BasePayment < 0 {
			schemaError(r, path+".base_payment", "base_payment must be non-negative", v.BasePayment, ">= 0")
		}
		if v.PrestigeLevel < 0 {
			schemaError(r, path+".prestige_level", "prestige_level must be non-negative", v.PrestigeLevel, ">= 0")
		}
		for j, req := range v.Requirements {
			if err := req.Validate(); err != nil {
				schemaError(r, fmt.Sprintf("%s.requirements[%d]", path, j), err.Error(), req.Kind, "valid requirement")
			}
		}
	}
}

func validateStops(s *TourSpec, r *validation.Report) {
	ids := map[string]bool{}
	dates := map[string]string{}
	for i, st := range s.Stops {
		path := fmt.Sprintf("stops[%d]", i)
		if st.ID != "" {
			if ids[st.ID] {
				schemaError(r, path+".id", fmt.Sprintf("duplicate stop id %q", st.ID), st.ID, "unique")
			}
			ids[st.ID] = true
		}
		if s.VenueByID(st.Venue) == nil {
			schemaError(r, path+".venue", fmt.Sprintf("unknown venue %q", st.Venue), st.Venue, "a venue id from venues")
		}
		if _, err := environment.ParseTime(st.Date); err != nil {
			schemaError(r, path+".date", "date must be YYYY-MM-DD or RFC3339", st.Date, "date")
		} else if prev, ok := dates[st.Date]; ok {
			r.AddWarning(validation.Result{
				Level:    validation.LevelSchema,
				Message:  fmt.Sprintf("two shows on %s (%s and this stop)", st.Date, prev),
				SpecPath: path + ".date",
				StopID:   st.ID,
			})
		} else {
			dates[st.Date] = path
		}
		if _, err := economics.ParseShowType(st.ShowType); err != nil {
			schemaError(r, path+".show_type", "show_type must be standard or acoustic", st.ShowType, "standard | acoustic")
		}
		if st.Mode != "" {
			if _, err := travel.ParseMode(st.Mode); err != nil {
				schemaError(r, path+".mode", "mode must be coach, taxi, air or ferry", st.Mode, "travel mode")
			}
		}
	}
}

func validateTravel(s *TourSpec, r *validation.Report) {
	if t := s.Travel.FatigueThreshold; t < 0 || t > 100 {
		schemaError(r, "travel.fatigue_threshold", "fatigue_threshold must be within 0-100", t, "0-100")
	}
	for m := range s.Travel.Modes {
		if _, err := travel.ParseMode(string(m)); err != nil {
			schemaError(r, "travel.modes."+string(m), fmt.Sprintf("unknown travel mode %q", m), m, "coach | taxi | air | ferry")
		}
	}
	if err := s.TravelModel().Validate(); err != nil {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     err.Error(),
			SpecPath:    "travel.modes",
			Suggestions: []string{"Coach must stay the cheapest mode and air the fastest"},
		})
	}
}

func validateEnvironment(s *TourSpec, r *validation.Report) {
	if d, err := time.ParseDuration(s.Environment.Timeout); err != nil || d <= 0 {
		schemaError(r, "environment.timeout", "timeout must be a positive duration", s.Environment.Timeout, "e.g. 2s")
	}
	for i, e := range s.Environment.Effects {
		path := fmt.Sprintf("environment.effects[%d]", i)
		if e.Name == "" {
			schemaError(r, path+".name", "effect name is required", e.Name, "non-empty")
		}
		if e.Source != environment.SourceWeather && e.Source != environment.SourceWorldEvent {
			schemaError(r, path+".source", "source must be weather or world_event", e.Source, "weather | world_event")
		}
		for axis, v := range map[string]*float64{
			"attendance_multiplier": e.AttendanceMultiplier,
			"cost_multiplier":       e.CostMultiplier,
			"morale_modifier":       e.MoraleModifier,
		} {
			if v != nil && *v <= 0 {
				schemaError(r, path+"."+axis, axis+" must be greater than 0", *v, "> 0")
			}
		}
		from, fromErr := parseOptionalDate(e.From)
		if fromErr != nil {
			schemaError(r, path+".from", "from must be YYYY-MM-DD or RFC3339", e.From, "date")
		}
		to, toErr := parseOptionalDate(e.To)
		if toErr != nil {
			schemaError(r, path+".to", "to must be YYYY-MM-DD or RFC3339", e.To, "date")
		}
		if fromErr == nil && toErr == nil && !from.IsZero() && !to.IsZero() && to.Before(from) {
			schemaError(r, path, "effect window ends before it starts", e.To, ">= from")
		}
	}
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return environment.ParseTime(s)
}
