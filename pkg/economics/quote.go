package economics

import (
	"math"
)

// Quote is the booking-time preview shown to the player. It is optimistic
// and never written back to player state.
type Quote struct {
	Payment       int           `json:"payment"`
	SuccessChance int           `json:"success_chance"`
	Unmet         []Requirement `json:"unmet,omitempty"`
}

// Bookable reports whether every venue requirement is satisfied.
func (q Quote) Bookable() bool {
	return len(q.Unmet) == 0
}

// AttributeScoreToMultiplier maps a 0-1000 attribute score onto a
// saturating multiplier: 1.0 at zero, about 1.46 at the ceiling.
func AttributeScoreToMultiplier(score float64) float64 {
	s := clamp(score, 0, MaxAttribute)
	return 1 + MaxAttributeBonus*(1-math.Exp(-s/AttributeSaturation))
}

// paymentAttributeMultiplier blends charisma, looks and musicality.
func paymentAttributeMultiplier(a Attributes) float64 {
	return CharismaPaymentWeight*AttributeScoreToMultiplier(a.Charisma) +
		LooksPaymentWeight*AttributeScoreToMultiplier(a.Looks) +
		MusicPaymentWeight*AttributeScoreToMultiplier(a.Musicality)
}

// PaymentSkillWeights blend skills into the payment bonus. They are the
// same for every show type so only PaymentMultiplier separates formats.
var PaymentSkillWeights = Skills{Performance: 0.4, Vocals: 0.3, Guitar: 0.3}

// CalculateGigPayment quotes what the venue will pay for this show.
func CalculateGigPayment(v Venue, show ShowType, p PlayerState) (int, error) {
	cfg, err := show.Config()
	if err != nil {
		return 0, err
	}
	fame := math.Min(math.Max(float64(p.Fame), 0), FameBonusCap)
	popularityBonus := fame / FameBonusDivisor
	skillBonus := SkillBonusPerPoint * p.Skills.Weighted(PaymentSkillWeights)

	base := float64(v.BasePayment) + popularityBonus + skillBonus
	payment := base * cfg.PaymentMultiplier * paymentAttributeMultiplier(p.Attributes)
	return int(math.Round(math.Max(payment, 0))), nil
}

// CalculateSuccessChance returns the percent chance of a good night,
// always within [MinSuccessChance, MaxSuccessChance].
func CalculateSuccessChance(show ShowType, p PlayerState) (int, error) {
	cfg, err := show.Config()
	if err != nil {
		return 0, err
	}
	fame := math.Min(math.Max(float64(p.Fame), 0), SuccessFameCap)
	raw := p.Skills.Weighted(cfg.SkillWeights)*SuccessSkillWeight +
		fame/SuccessFameCap*SuccessFamePoints +
		cfg.SuccessOffset

	attr := (AttributeScoreToMultiplier(p.Attributes.Performance) + AttributeScoreToMultiplier(p.Attributes.Charisma)) / 2
	chance := int(math.Round(raw * attr))
	if chance < MinSuccessChance {
		chance = MinSuccessChance
	}
	if chance > MaxSuccessChance {
		chance = MaxSuccessChance
	}
	return chance, nil
}

// QuoteGig computes payment, success chance and unmet requirements together.
func QuoteGig(v Venue, show ShowType, p PlayerState) (Quote, error) {
	payment, err := CalculateGigPayment(v, show, p)
	if err != nil {
		return Quote{}, err
	}
	chance, err := CalculateSuccessChance(show, p)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Payment:       payment,
		SuccessChance: chance,
		Unmet:         CheckRequirements(v, p),
	}, nil
}
