package economics

import (
	"fmt"

	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// RequirementKind tags what a venue requirement checks.
type RequirementKind string

const (
	RequireMinFame      RequirementKind = "min_fame"
	RequireMinSkill     RequirementKind = "min_skill"
	RequireMinAttribute RequirementKind = "min_attribute"
)

// Requirement is a venue booking precondition. Skill is set for min_skill,
// Attribute for min_attribute; Minimum always applies.
type Requirement struct {
	Kind      RequirementKind `yaml:"kind" json:"kind"`
	Skill     string          `yaml:"skill,omitempty" json:"skill,omitempty"`
	Attribute string          `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Minimum   float64         `yaml:"minimum" json:"minimum"`
}

// Validate checks that the requirement is well formed.
func (r Requirement) Validate() error {
	switch r.Kind {
	case RequireMinFame:
	case RequireMinSkill:
		if _, ok := (Skills{}).Value(r.Skill); !ok {
			return validation.Invalid("skill", r.Skill, "unknown skill")
		}
	case RequireMinAttribute:
		if _, ok := (Attributes{}).Value(r.Attribute); !ok {
			return validation.Invalid("attribute", r.Attribute, "unknown attribute")
		}
	default:
		return validation.Invalid("kind", string(r.Kind), "expected min_fame, min_skill or min_attribute")
	}
	if r.Minimum < 0 {
		return validation.Invalid("minimum", r.Minimum, "must be non-negative")
	}
	return nil
}

// Met reports whether the player satisfies the requirement. Malformed
// requirements are never met.
func (r Requirement) Met(p PlayerState) bool {
	switch r.Kind {
	case RequireMinFame:
		return float64(p.Fame) >= r.Minimum
	case RequireMinSkill:
		v, ok := p.Skills.Value(r.Skill)
		return ok && v >= r.Minimum
	case RequireMinAttribute:
		v, ok := p.Attributes.Value(r.Attribute)
		return ok && v >= r.Minimum
	}
	return false
}

func (r Requirement) String() string {
	switch r.Kind {
	case RequireMinFame:
		return fmt.Sprintf("fame >= %g", r.Minimum)
	case RequireMinSkill:
		return fmt.Sprintf("%s skill >= %g", r.Skill, r.Minimum)
	case RequireMinAttribute:
		return fmt.Sprintf("%s >= %g", r.Attribute, r.Minimum)
	}
	return string(r.Kind)
}

// CheckRequirements returns the venue requirements the player does not meet.
func CheckRequirements(v Venue, p PlayerState) []Requirement {
	var unmet []Requirement
	for _, r := range v.Requirements {
		if !r.Met(p) {
			unmet = append(unmet, r)
		}
	}
	return unmet
}
