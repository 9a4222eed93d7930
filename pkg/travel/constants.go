package travel

// Baseline mode constants. They order the modes by trade-off: coach is the
// cheapest and slowest, air the fastest and most expensive.
const (
	CoachCostPerKm   = 0.12 // $/km
	CoachSpeedKmh    = 65.0
	CoachBaseComfort = 45
	CoachComfortLoss = 12.0 // comfort points lost per 1000 km

	FerryCostPerKm   = 0.30
	FerrySpeedKmh    = 40.0
	FerryBaseComfort = 60
	FerryComfortLoss = 8.0

	TaxiCostPerKm   = 0.65
	TaxiSpeedKmh    = 85.0
	TaxiBaseComfort = 70
	TaxiComfortLoss = 10.0

	AirCostPerKm   = 0.90
	AirSpeedKmh    = 750.0
	AirBaseComfort = 82
	AirComfortLoss = 3.0

	HoursPerTravelDay   = 10.0 // travel hours that fit in one day before a rest day is needed
	ExhaustingComfort   = 25   // legs below this comfort cost an extra rest day
	TaxiMaxSuggestedKm  = 60.0
	CoachMaxSuggestedKm = 900.0
)
