package economics

// Tuning constants for booking estimates and settlement.
const (
	MaxAttribute        = 1000.0 // attribute score ceiling
	MaxSkill            = 100.0  // skill level ceiling
	AttributeSaturation = 400.0  // score scale of the saturating attribute curve
	MaxAttributeBonus   = 0.5    // multiplier approaches 1.5 as score grows

	FameBonusCap       = 10000 // fame above this adds nothing to payment
	FameBonusDivisor   = 20.0  // fame points per currency unit of bonus
	SkillBonusPerPoint = 2.0   // payment per weighted skill point

	SuccessSkillWeight = 0.55 // share of weighted skill in the success chance
	SuccessFameCap     = 5000 // fame above this adds nothing to success
	SuccessFamePoints  = 15.0 // success points at the fame cap
	MinSuccessChance   = 12   // percent
	MaxSuccessChance   = 97   // percent

	SuccessAttendanceBase   = 0.70 // share of capacity on a good night
	SuccessAttendanceSpread = 0.30
	FailureAttendanceBase   = 0.30 // share of capacity on a bad night
	FailureAttendanceSpread = 0.25

	FanRateBase        = 0.04 // fans gained per attendee at prestige 0
	FanRatePerPrestige = 0.02
	FanSkillBase       = 0.75  // gain factor at zero average skill
	FanSkillDivisor    = 200.0 // average skill 100 adds 0.5

	FailurePaymentFactor    = 0.5
	PaymentFloorFraction    = 0.3 // share of the quote always paid out
	ExperiencePerAttendees  = 10.0
	FailureExperienceFactor = 0.6
	MinExperienceGain       = 1

	CharismaPerFan        = 0.02
	LooksPerFan           = 0.01
	MusicalityPerXP       = 0.05
	PerformancePerXP      = 0.03
	CharismaPaymentWeight = 0.4
	LooksPaymentWeight    = 0.2
	MusicPaymentWeight    = 0.4
)
