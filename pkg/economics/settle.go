package economics

import (
	"math"
	"math/rand"

	"github.com/ChicagoDave/tourplanner/pkg/environment"
	"github.com/ChicagoDave/tourplanner/pkg/fatigue"
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// RandomSource returns uniform draws in [0,1).
type RandomSource func() float64

// SeededSource returns a deterministic RandomSource.
func SeededSource(seed int64) RandomSource {
	r := rand.New(rand.NewSource(seed))
	return r.Float64
}

// FixedSource replays the given draws in order, then repeats the last one.
func FixedSource(draws ...float64) RandomSource {
	i := 0
	return func() float64 {
		if len(draws) == 0 {
			return 0
		}
		v := draws[min(i, len(draws)-1)]
		i++
		return v
	}
}

// SettlementInput is everything PerformGig needs. Environment is the snapshot
// taken at booking; nil is treated as neutral.
type SettlementInput struct {
	Venue         Venue
	Show          ShowType
	Player        PlayerState
	Quote         Quote
	Environment   *environment.Modifier
	TravelPenalty int
	Random        RandomSource
}

// Settlement is the outcome of one performance.
type Settlement struct {
	IsSuccess           bool            `json:"is_success"`
	Attendance          int             `json:"attendance"`
	Payment             int             `json:"payment"`
	FanGainDelta        int             `json:"fan_gain_delta"`
	ExperienceGainDelta int             `json:"experience_gain_delta"`
	AttributeDeltas     AttributeDeltas `json:"attribute_deltas"`
	HealthDelta         int             `json:"health_delta"`
}

// Deltas converts the settlement into profile deltas.
func (s Settlement) Deltas() Deltas {
	return Deltas{
		CashDelta:       s.Payment,
		FameDelta:       s.FanGainDelta,
		HealthDelta:     s.HealthDelta,
		ExperienceDelta: s.ExperienceGainDelta,
		AttributeDeltas: s.AttributeDeltas,
	}
}

// PerformGig settles a show. It draws twice from the random source: first
// the success roll, then the attendance spread.
func PerformGig(in SettlementInput) (Settlement, error) {
	cfg, err := in.Show.Config()
	if err != nil {
		return Settlement{}, err
	}
	if in.Venue.Capacity < 0 {
		return Settlement{}, validation.Invalid("capacity", in.Venue.Capacity, "must be non-negative")
	}
	if in.Quote.Payment < 0 {
		return Settlement{}, validation.Invalid("quoted_payment", in.Quote.Payment, "must be non-negative")
	}
	random := in.Random
	if random == nil {
		random = rand.Float64
	}
	env := environment.OrNeutral(in.Environment)
	p := in.Player

	isSuccess := random()*100 < float64(in.Quote.SuccessChance)
	spread := random()

	var base float64
	if isSuccess {
		base = SuccessAttendanceBase + SuccessAttendanceSpread*spread
	} else {
		base = FailureAttendanceBase + FailureAttendanceSpread*spread
	}
	attendance := int(math.Round(float64(in.Venue.Capacity) * base * cfg.AttendanceModifier * env.AttendanceMultiplier))
	if attendance < 1 {
		attendance = 1
	}

	fans := float64(attendance) *
		(FanRateBase + FanRatePerPrestige*float64(in.Venue.PrestigeLevel)) *
		cfg.FanMultiplier * env.MoraleModifier
	fanGain := gainFunction(fans, p)

	outcome := 1.0
	if !isSuccess {
		outcome = FailurePaymentFactor
	}
	payment := int(math.Round(float64(in.Quote.Payment) * outcome * cfg.PayoutModifier))
	if floor := int(math.Round(PaymentFloorFraction * float64(in.Quote.Payment))); payment < floor {
		payment = floor
	}

	xpFactor := 1.0
	if !isSuccess {
		xpFactor = FailureExperienceFactor
	}
	xp := rewardFunction(float64(attendance)/ExperiencePerAttendees*cfg.ExperienceModifier*xpFactor, p)

	return Settlement{
		IsSuccess:           isSuccess,
		Attendance:          attendance,
		Payment:             payment,
		FanGainDelta:        fanGain,
		ExperienceGainDelta: xp,
		AttributeDeltas:     attributeGrowth(p.Attributes, fanGain, xp),
		HealthDelta:         fatigue.HealthDelta(p.Health, in.TravelPenalty),
	}, nil
}

// gainFunction scales raw fan gain by skill and charisma.
func gainFunction(raw float64, p PlayerState) int {
	skill := FanSkillBase + clamp(p.Skills.Average(), 0, MaxSkill)/FanSkillDivisor
	gain := int(math.Round(raw * skill * AttributeScoreToMultiplier(p.Attributes.Charisma)))
	if gain < 0 {
		return 0
	}
	return gain
}

// rewardFunction scales raw experience by musicality.
func rewardFunction(raw float64, p PlayerState) int {
	xp := int(math.Round(raw * AttributeScoreToMultiplier(p.Attributes.Musicality)))
	if xp < MinExperienceGain {
		return MinExperienceGain
	}
	return xp
}

func attributeGrowth(a Attributes, fans, xp int) AttributeDeltas {
	return AttributeDeltas{
		Charisma:    capped(a.Charisma, float64(fans)*CharismaPerFan),
		Looks:       capped(a.Looks, float64(fans)*LooksPerFan),
		Musicality:  capped(a.Musicality, float64(xp)*MusicalityPerXP),
		Performance: capped(a.Performance, float64(xp)*PerformancePerXP),
	}
}

// capped limits growth so current+delta never passes MaxAttribute.
func capped(current, delta float64) float64 {
	room := MaxAttribute - current
	if room < 0 {
		room = 0
	}
	d := math.Round(delta*100) / 100
	if d > room {
		return room
	}
	return d
}
