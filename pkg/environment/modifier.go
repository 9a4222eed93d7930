package environment

import (
	"fmt"
	"math"
	"strings"
)

// SourceKind says where an effect comes from.
type SourceKind string

const (
	SourceWeather    SourceKind = "weather"
	SourceWorldEvent SourceKind = "world_event"
)

// Effect is one named environmental condition. An axis left nil is neutral.
type Effect struct {
	ID                   string     `yaml:"id" json:"id"`
	Name                 string     `yaml:"name" json:"name"`
	Source               SourceKind `yaml:"source" json:"source"`
	AttendanceMultiplier *float64   `yaml:"attendance_multiplier,omitempty" json:"attendance_multiplier,omitempty"`
	CostMultiplier       *float64   `yaml:"cost_multiplier,omitempty" json:"cost_multiplier,omitempty"`
	MoraleModifier       *float64   `yaml:"morale_modifier,omitempty" json:"morale_modifier,omitempty"`
	Description          string     `yaml:"description,omitempty" json:"description,omitempty"`
}

// EffectSummary is the audit record of one contributing effect.
type EffectSummary struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Source               SourceKind `json:"source"`
	AttendanceMultiplier *float64   `json:"attendance_multiplier,omitempty"`
	CostMultiplier       *float64   `json:"cost_multiplier,omitempty"`
	MoraleModifier       *float64   `json:"morale_modifier,omitempty"`
	Description          string     `json:"description,omitempty"`
}

// Modifier is the product of all active effects. Applied is kept for display
// and audit and is never recomputed from the multipliers.
type Modifier struct {
	AttendanceMultiplier float64         `json:"attendance_multiplier"`
	CostMultiplier       float64         `json:"cost_multiplier"`
	MoraleModifier       float64         `json:"morale_modifier"`
	Applied              []EffectSummary `json:"applied"`
}

// Neutral returns the modifier that changes nothing.
func Neutral() Modifier {
	return Modifier{
		AttendanceMultiplier: 1,
		CostMultiplier:       1,
		MoraleModifier:       1,
		Applied:              []EffectSummary{},
	}
}

// IsNeutral reports whether m leaves every axis unchanged.
func (m Modifier) IsNeutral() bool {
	return m.AttendanceMultiplier == 1 && m.CostMultiplier == 1 && m.MoraleModifier == 1
}

// OrNeutral returns *m, or Neutral when m is nil.
func OrNeutral(m *Modifier) Modifier {
	if m == nil {
		return Neutral()
	}
	return *m
}

// Combine multiplies effects together axis by axis.
func Combine(effects []Effect) Modifier {
	m := Neutral()
	for _, e := range effects {
		m.AttendanceMultiplier *= axis(e.AttendanceMultiplier)
		m.CostMultiplier *= axis(e.CostMultiplier)
		m.MoraleModifier *= axis(e.MoraleModifier)
		m.Applied = append(m.Applied, e.Summary())
	}
	return m
}

// Summary converts an effect into its audit record.
func (e Effect) Summary() EffectSummary {
	return EffectSummary{
		ID:                   e.ID,
		Name:                 e.Name,
		Source:               e.Source,
		AttendanceMultiplier: copyFloat(e.AttendanceMultiplier),
		CostMultiplier:       copyFloat(e.CostMultiplier),
		MoraleModifier:       copyFloat(e.MoraleModifier),
		Description:          e.Description,
	}
}

// Label renders the summary for display, e.g. "Heatwave (attendance -10%)".
func (s EffectSummary) Label() string {
	var parts []string
	if p := percent("attendance", s.AttendanceMultiplier); p != "" {
		parts = append(parts, p)
	}
	if p := percent("cost", s.CostMultiplier); p != "" {
		parts = append(parts, p)
	}
	if p := percent("morale", s.MoraleModifier); p != "" {
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return s.Name
	}
	return fmt.Sprintf("%s (%s)", s.Name, strings.Join(parts, ", "))
}

func percent(name string, v *float64) string {
	if v == nil || *v == 1 {
		return ""
	}
	pct := int(math.Round((*v - 1) * 100))
	return fmt.Sprintf("%s %+d%%", name, pct)
}

func axis(v *float64) float64 {
	if v == nil {
		return 1
	}
	return *v
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float is a convenience for building effects in code.
func Float(v float64) *float64 {
	return &v
}
