package spec

import (
	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/environment"
	"github.com/ChicagoDave/tourplanner/pkg/travel"
)

// TourSpec is the top-level tour project file.
type TourSpec struct {
	SpecVersion string                `yaml:"spec_version" json:"spec_version"`
	Tour        TourDef               `yaml:"tour" json:"tour"`
	Player      economics.PlayerState `yaml:"player" json:"player"`
	Venues      []economics.Venue     `yaml:"venues" json:"venues"`
	Stops       []StopDef             `yaml:"stops" json:"stops"`
	Travel      TravelDef             `yaml:"travel" json:"travel"`
	Environment EnvironmentDef        `yaml:"environment" json:"environment"`
}

type TourDef struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Origin string `yaml:"origin" json:"origin"`
}

// StopDef books a venue on a date. Mode is optional; the planner suggests
// one from the leg distance when it is empty.
type StopDef struct {
	ID       string `yaml:"id" json:"id"`
	Venue    string `yaml:"venue" json:"venue"`
	Date     string `yaml:"date" json:"date"`
	ShowType string `yaml:"show_type" json:"show_type"`
	Mode     string `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// TravelDef overrides travel and fatigue tuning. Each entry in Modes
// replaces the whole default config for that mode.
type TravelDef struct {
	FatigueThreshold int                               `yaml:"fatigue_threshold" json:"fatigue_threshold"`
	Modes            map[travel.Mode]travel.ModeConfig `yaml:"modes,omitempty" json:"modes,omitempty"`
}

type EnvironmentDef struct {
	Timeout string      `yaml:"timeout" json:"timeout"`
	Effects []EffectDef `yaml:"effects" json:"effects"`
}

// EffectDef schedules an effect. Locations may contain "*" for everywhere;
// From and To are inclusive dates and either may be left open.
type EffectDef struct {
	environment.Effect `yaml:",inline"`
	Locations          []string `yaml:"locations" json:"locations"`
	From               string   `yaml:"from,omitempty" json:"from,omitempty"`
	To                 string   `yaml:"to,omitempty" json:"to,omitempty"`
}

// VenueByID returns the venue with the given id, or nil if not found.
func (s *TourSpec) VenueByID(id string) *economics.Venue {
	for i := range s.Venues {
		if s.Venues[i].ID == id {
			return &s.Venues[i]
		}
	}
	return nil
}

// StopByID returns the stop definition with the given id, or nil if not found.
func (s *TourSpec) StopByID(id string) *StopDef {
	for i := range s.Stops {
		if s.Stops[i].ID == id {
			return &s.Stops[i]
		}
	}
	return nil
}
