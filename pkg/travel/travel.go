package travel

import (
	"fmt"
	"math"
	"strings"

	"github.com/ChicagoDave/tourplanner/pkg/geo"
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// Mode identifies a transport mode.
type Mode string

const (
	ModeCoach Mode = "coach"
	ModeTaxi  Mode = "taxi"
	ModeAir   Mode = "air"
	ModeFerry Mode = "ferry"
)

// Modes lists every supported mode in a stable order.
var Modes = []Mode{ModeCoach, ModeTaxi, ModeAir, ModeFerry}

// ParseMode resolves a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", validation.Invalid("mode", s, "must be one of coach, taxi, air, ferry")
}

// ModeConfig holds the static rates for one mode.
type ModeConfig struct {
	CostPerKm            float64 `yaml:"cost_per_km" json:"cost_per_km"`
	SpeedKmh             float64 `yaml:"speed_kmh" json:"speed_kmh"`
	BaseComfort          int     `yaml:"base_comfort" json:"base_comfort"`
	ComfortLossPer1000Km float64 `yaml:"comfort_loss_per_1000km" json:"comfort_loss_per_1000km"`
}

// Estimate is the cost/time/comfort of covering a distance in one mode.
type Estimate struct {
	Cost      float64 `json:"cost"`
	TimeHours float64 `json:"time_hours"`
	Comfort   int     `json:"comfort"`
}

// Leg is the travel segment into a stop. It is computed once when the stop
// is scheduled and stored with it.
type Leg struct {
	From       string  `json:"from,omitempty"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
	Mode       Mode    `json:"mode"`
	Cost       float64 `json:"cost"`
	TimeHours  float64 `json:"time_hours"`
	Comfort    int     `json:"comfort"`
	RestDays   int     `json:"rest_days"`
}

// Model is the reference table of mode configurations.
type Model struct {
	Modes map[Mode]ModeConfig `json:"modes"`
}

// DefaultModel returns the baseline mode table.
func DefaultModel() Model {
	return Model{Modes: map[Mode]ModeConfig{
		ModeCoach: {CoachCostPerKm, CoachSpeedKmh, CoachBaseComfort, CoachComfortLoss},
		ModeFerry: {FerryCostPerKm, FerrySpeedKmh, FerryBaseComfort, FerryComfortLoss},
		ModeTaxi:  {TaxiCostPerKm, TaxiSpeedKmh, TaxiBaseComfort, TaxiComfortLoss},
		ModeAir:   {AirCostPerKm, AirSpeedKmh, AirBaseComfort, AirComfortLoss},
	}}
}

// WithOverrides returns a copy of m with the given mode configs replaced.
func (m Model) WithOverrides(overrides map[Mode]ModeConfig) Model {
	out := Model{Modes: make(map[Mode]ModeConfig, len(m.Modes))}
	for k, v := range m.Modes {
		out.Modes[k] = v
	}
	for k, v := range overrides {
		out.Modes[k] = v
	}
	return out
}

// Validate checks that every mode is configured with sane rates and that the
// ordering invariant holds: coach is the cheapest mode and air the fastest.
func (m Model) Validate() error {
	for _, mode := range Modes {
		cfg, ok := m.Modes[mode]
		if !ok {
			return fmt.Errorf("mode %s not configured", mode)
		}
		if cfg.SpeedKmh <= 0 {
			return fmt.Errorf("mode %s: speed_kmh must be > 0", mode)
		}
		if cfg.CostPerKm < 0 || cfg.ComfortLossPer1000Km < 0 {
			return fmt.Errorf("mode %s: rates must be non-negative", mode)
		}
		if cfg.BaseComfort < 0 || cfg.BaseComfort > 100 {
			return fmt.Errorf("mode %s: base_comfort must be within 0-100", mode)
		}
	}
	coach, air := m.Modes[ModeCoach], m.Modes[ModeAir]
	for _, mode := range Modes {
		cfg := m.Modes[mode]
		if mode != ModeCoach && cfg.CostPerKm <= coach.CostPerKm {
			return fmt.Errorf("coach must be the cheapest mode (%s costs %.2f/km, coach %.2f/km)", mode, cfg.CostPerKm, coach.CostPerKm)
		}
		if mode != ModeAir && cfg.SpeedKmh >= air.SpeedKmh {
			return fmt.Errorf("air must be the fastest mode (%s at %.0f km/h, air %.0f km/h)", mode, cfg.SpeedKmh, air.SpeedKmh)
		}
	}
	return nil
}

// Estimate converts a distance into cost, time, and comfort for mode.
// Cost and time scale linearly with distance; comfort starts at the mode's
// base and drops slightly as the trip gets longer, clamped to [0,100].
func (m Model) Estimate(distanceKm float64, mode Mode) (Estimate, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return Estimate{}, validation.Invalid("distance_km", distanceKm, "must be a finite number")
	}
	if distanceKm < 0 {
		return Estimate{}, validation.Invalid("distance_km", distanceKm, "must be >= 0")
	}
	cfg, ok := m.Modes[mode]
	if !ok {
		return Estimate{}, validation.Invalid("mode", mode, "unknown travel mode")
	}
	if distanceKm == 0 {
		return Estimate{Comfort: clampComfort(float64(cfg.BaseComfort))}, nil
	}

	comfort := float64(cfg.BaseComfort) - distanceKm/1000*cfg.ComfortLossPer1000Km
	return Estimate{
		Cost:      round2(distanceKm * cfg.CostPerKm),
		TimeHours: round2(distanceKm / cfg.SpeedKmh),
		Comfort:   clampComfort(comfort),
	}, nil
}

// Leg builds the travel leg between two location labels.
func (m Model) Leg(from, to string, mode Mode) (Leg, error) {
	dist := geo.DistanceKm(from, to)
	est, err := m.Estimate(dist, mode)
	if err != nil {
		return Leg{}, err
	}
	return Leg{
		From:       from,
		To:         to,
		DistanceKm: dist,
		Mode:       mode,
		Cost:       est.Cost,
		TimeHours:  est.TimeHours,
		Comfort:    est.Comfort,
		RestDays:   RestDays(est),
	}, nil
}

// RestDays returns how many off days a leg consumes: one for every full
// travel day beyond the first, plus one after an exhausting leg.
func RestDays(est Estimate) int {
	if est.TimeHours <= 0 {
		return 0
	}
	days := int(math.Ceil(est.TimeHours/HoursPerTravelDay)) - 1
	if days < 0 {
		days = 0
	}
	if est.Comfort < ExhaustingComfort {
		days++
	}
	return days
}

// SuggestMode picks a sensible default mode for a distance.
func SuggestMode(distanceKm float64) Mode {
	switch {
	case distanceKm < TaxiMaxSuggestedKm:
		return ModeTaxi
	case distanceKm < CoachMaxSuggestedKm:
		return ModeCoach
	default:
		return ModeAir
	}
}

func clampComfort(v float64) int {
	c := int(math.Round(v))
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
