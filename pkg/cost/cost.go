// Package cost turns an itinerary into a tour budget: travel spend by mode
// against show income, quoted and settled.
package cost

import (
	"math"

	"github.com/ChicagoDave/tourplanner/pkg/tour"
	"github.com/ChicagoDave/tourplanner/pkg/travel"
)

// Breakdown itemizes travel spend by mode.
type Breakdown struct {
	Coach float64 `json:"coach"`
	Taxi  float64 `json:"taxi"`
	Air   float64 `json:"air"`
	Ferry float64 `json:"ferry"`
	Total float64 `json:"total"`
}

func (b *Breakdown) add(mode travel.Mode, amount float64) {
	switch mode {
	case travel.ModeCoach:
		b.Coach += amount
	case travel.ModeTaxi:
		b.Taxi += amount
	case travel.ModeAir:
		b.Air += amount
	case travel.ModeFerry:
		b.Ferry += amount
	}
	b.Total += amount
}

func (b Breakdown) rounded() Breakdown {
	return Breakdown{
		Coach: round2(b.Coach),
		Taxi:  round2(b.Taxi),
		Air:   round2(b.Air),
		Ferry: round2(b.Ferry),
		Total: round2(b.Total),
	}
}

// Ledger is income against travel spend for a set of stops.
type Ledger struct {
	Shows      int       `json:"shows"`
	DistanceKm float64   `json:"distance_km"`
	Travel     Breakdown `json:"travel"`
	Income     int       `json:"income"`
	Net        float64   `json:"net"`
}

// Report is the complete budget output. Estimate covers every active stop at
// its quoted payment; Actual covers completed stops at their settled payment.
type Report struct {
	Estimate *Ledger `json:"estimate"`
	Actual   *Ledger `json:"actual,omitempty"`

	Summary struct {
		TravelCost  float64 `json:"travel_cost"`
		Income      int     `json:"income"`
		Net         float64 `json:"net"`
		NetPerShow  float64 `json:"net_per_show"`
		CostPerKm   float64 `json:"cost_per_km"`
		TravelShare float64 `json:"travel_share"`
	} `json:"summary"`
}

// Estimate budgets an itinerary. Summary figures blend settled results for
// completed stops with quotes for the rest.
func Estimate(it *tour.Itinerary) *Report {
	report := &Report{}
	estimate := &Ledger{}
	actual := &Ledger{}
	blended := &Ledger{}

	for _, s := range it.Stops {
		estimate.record(s, s.Quote.Payment)
		if s.Status == tour.StatusCompleted && s.Result != nil {
			actual.record(s, s.Result.Payment)
			blended.record(s, s.Result.Payment)
		} else {
			blended.record(s, s.Quote.Payment)
		}
	}

	report.Estimate = estimate.finish()
	if actual.Shows > 0 {
		report.Actual = actual.finish()
	}

	blended.finish()
	report.Summary.TravelCost = blended.Travel.Total
	report.Summary.Income = blended.Income
	report.Summary.Net = blended.Net
	if blended.Shows > 0 {
		report.Summary.NetPerShow = round2(blended.Net / float64(blended.Shows))
	}
	if blended.DistanceKm > 0 {
		report.Summary.CostPerKm = round2(blended.Travel.Total / blended.DistanceKm)
	}
	if blended.Income > 0 {
		report.Summary.TravelShare = round2(blended.Travel.Total / float64(blended.Income))
	}
	return report
}

func (l *Ledger) record(s tour.Stop, payment int) {
	l.Shows++
	l.DistanceKm += s.Leg.DistanceKm
	l.Travel.add(s.Leg.Mode, s.Leg.Cost)
	l.Income += payment
}

func (l *Ledger) finish() *Ledger {
	l.DistanceKm = round2(l.DistanceKm)
	l.Travel = l.Travel.rounded()
	l.Net = round2(float64(l.Income) - l.Travel.Total)
	return l
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
