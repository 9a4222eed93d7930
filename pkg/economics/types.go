package economics

import (
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// ShowType is a performance format.
type ShowType string

const (
	ShowStandard ShowType = "standard"
	ShowAcoustic ShowType = "acoustic"
)

// ShowTypeConfig holds the per-format modifiers applied to payment,
// success, attendance and rewards.
type ShowTypeConfig struct {
	PaymentMultiplier  float64 `json:"payment_multiplier"`
	SuccessOffset      float64 `json:"success_offset"`
	AttendanceModifier float64 `json:"attendance_modifier"`
	FanMultiplier      float64 `json:"fan_multiplier"`
	PayoutModifier     float64 `json:"payout_modifier"`
	ExperienceModifier float64 `json:"experience_modifier"`
	SkillWeights       Skills  `json:"skill_weights"` // success chance only
}

// ShowTypes is the modifier table. Acoustic sets pay less and draw smaller
// crowds but are easier to pull off and build a closer fan base.
var ShowTypes = map[ShowType]ShowTypeConfig{
	ShowStandard: {
		PaymentMultiplier:  1.0,
		SuccessOffset:      20,
		AttendanceModifier: 1.0,
		FanMultiplier:      1.0,
		PayoutModifier:     1.0,
		ExperienceModifier: 1.0,
		SkillWeights:       Skills{Performance: 0.4, Vocals: 0.3, Guitar: 0.3},
	},
	ShowAcoustic: {
		PaymentMultiplier:  0.75,
		SuccessOffset:      28,
		AttendanceModifier: 0.7,
		FanMultiplier:      1.15,
		PayoutModifier:     0.95,
		ExperienceModifier: 1.1,
		SkillWeights:       Skills{Performance: 0.3, Vocals: 0.4, Songwriting: 0.3},
	},
}

// ParseShowType validates a show type name.
func ParseShowType(s string) (ShowType, error) {
	st := ShowType(s)
	if _, ok := ShowTypes[st]; !ok {
		return "", validation.Invalid("show_type", s, "expected standard or acoustic")
	}
	return st, nil
}

// Config returns the modifier row for a show type.
func (s ShowType) Config() (ShowTypeConfig, error) {
	cfg, ok := ShowTypes[s]
	if !ok {
		return ShowTypeConfig{}, validation.Invalid("show_type", string(s), "unknown show type")
	}
	return cfg, nil
}

// Skills are trained levels, 0-100.
type Skills struct {
	Performance float64 `yaml:"performance" json:"performance"`
	Vocals      float64 `yaml:"vocals" json:"vocals"`
	Guitar      float64 `yaml:"guitar" json:"guitar"`
	Songwriting float64 `yaml:"songwriting" json:"songwriting"`
}

// Average is the plain mean of all four skills.
func (s Skills) Average() float64 {
	return (s.Performance + s.Vocals + s.Guitar + s.Songwriting) / 4
}

// Weighted returns the dot product of s with weights.
func (s Skills) Weighted(weights Skills) float64 {
	return clamp(s.Performance, 0, MaxSkill)*weights.Performance +
		clamp(s.Vocals, 0, MaxSkill)*weights.Vocals +
		clamp(s.Guitar, 0, MaxSkill)*weights.Guitar +
		clamp(s.Songwriting, 0, MaxSkill)*weights.Songwriting
}

// Value looks a skill up by name.
func (s Skills) Value(name string) (float64, bool) {
	switch name {
	case "performance":
		return s.Performance, true
	case "vocals":
		return s.Vocals, true
	case "guitar":
		return s.Guitar, true
	case "songwriting":
		return s.Songwriting, true
	}
	return 0, false
}

// Attributes are long-term character scores, 0-1000.
type Attributes struct {
	Charisma    float64 `yaml:"charisma" json:"charisma"`
	Looks       float64 `yaml:"looks" json:"looks"`
	Musicality  float64 `yaml:"musicality" json:"musicality"`
	Performance float64 `yaml:"performance" json:"performance"`
}

// Value looks an attribute up by name.
func (a Attributes) Value(name string) (float64, bool) {
	switch name {
	case "charisma":
		return a.Charisma, true
	case "looks":
		return a.Looks, true
	case "musicality":
		return a.Musicality, true
	case "performance":
		return a.Performance, true
	}
	return 0, false
}

// Add applies deltas, keeping each score within [0, MaxAttribute].
func (a Attributes) Add(d AttributeDeltas) Attributes {
	return Attributes{
		Charisma:    clamp(a.Charisma+d.Charisma, 0, MaxAttribute),
		Looks:       clamp(a.Looks+d.Looks, 0, MaxAttribute),
		Musicality:  clamp(a.Musicality+d.Musicality, 0, MaxAttribute),
		Performance: clamp(a.Performance+d.Performance, 0, MaxAttribute),
	}
}

// PlayerState is a read-only snapshot of the player. The engine never
// changes it; it returns Deltas instead.
type PlayerState struct {
	ID         string     `yaml:"id" json:"id"`
	Name       string     `yaml:"name,omitempty" json:"name,omitempty"`
	Cash       int        `yaml:"cash" json:"cash"`
	Fame       int        `yaml:"fame" json:"fame"`
	Health     int        `yaml:"health" json:"health"`
	Experience int        `yaml:"experience" json:"experience"`
	Skills     Skills     `yaml:"skills" json:"skills"`
	Attributes Attributes `yaml:"attributes" json:"attributes"`
}

// Venue is a bookable performance space.
type Venue struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name" json:"name"`
	Location      string        `yaml:"location" json:"location"`
	BasePayment   int           `yaml:"base_payment" json:"base_payment"`
	Capacity      int           `yaml:"capacity" json:"capacity"`
	PrestigeLevel int           `yaml:"prestige_level" json:"prestige_level"`
	Requirements  []Requirement `yaml:"requirements,omitempty" json:"requirements,omitempty"`
}

// AttributeDeltas are additive changes to Attributes.
type AttributeDeltas struct {
	Charisma    float64 `json:"charisma"`
	Looks       float64 `json:"looks"`
	Musicality  float64 `json:"musicality"`
	Performance float64 `json:"performance"`
}

// Deltas is the only thing a settlement hands back to the profile owner.
type Deltas struct {
	CashDelta       int             `json:"cash_delta"`
	FameDelta       int             `json:"fame_delta"`
	HealthDelta     int             `json:"health_delta"`
	ExperienceDelta int             `json:"experience_delta"`
	AttributeDeltas AttributeDeltas `json:"attribute_deltas"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
