package main

import (
	"fmt"
	"strings"

	"github.com/ChicagoDave/tourplanner/pkg/cost"
	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/tour"
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.SpecPath != "" {
		fmt.Printf("    -> %s = %v\n", res.SpecPath, res.ActualValue)
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

func printItinerary(it *tour.Itinerary) {
	title := fmt.Sprintf("Itinerary: %s", it.Name)
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))
	fmt.Println()

	fmt.Printf("%-8s %-10s %-12s %-9s %6s %9s %7s %4s %8s %6s %8s\n",
		"Stop", "Date", "Location", "Show", "Mode", "Km", "Cost", "Cmf", "Fatigue", "Odds", "Pay")
	fmt.Printf("%-8s %-10s %-12s %-9s %6s %9s %7s %4s %8s %6s %8s\n",
		"--------", "----------", "------------", "---------", "------", "---------", "-------", "----", "--------", "------", "--------")

	for _, s := range it.Stops {
		penalty := it.Fatigue.ByStop[s.ID].Penalty
		fmt.Printf("%-8s %-10s %-12s %-9s %6s %9.1f %7s %4d %8d %5d%% %8s\n",
			s.ID, s.Date.Format("2006-01-02"), truncate(s.Location, 12), s.ShowType, s.Mode,
			s.Leg.DistanceKm, formatMoney(s.Leg.Cost), s.Leg.Comfort, penalty,
			s.Quote.SuccessChance, formatMoney(float64(s.Quote.Payment)))
		for _, e := range s.Environment.Applied {
			fmt.Printf("%-8s   ~ %s\n", "", e.Label())
		}
	}

	tt := it.Totals
	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  Shows:                %d\n", tt.Shows)
	fmt.Printf("  Distance:             %.1f km\n", tt.DistanceKm)
	fmt.Printf("  Travel cost:          $%s\n", formatMoney(tt.TravelCost))
	fmt.Printf("  Travel time:          %.1f h (%d rest days)\n", tt.TravelHours, tt.RestDays)
	fmt.Printf("  Projected payment:    $%s\n", formatMoney(float64(tt.ProjectedPayment)))
	fmt.Printf("  Projected attendance: %d\n", tt.ProjectedAttendance)
	fmt.Printf("  Fatigue penalty:      %d (worst streak %d)\n", it.Fatigue.TotalPenalty, it.Fatigue.WorstStreak)
	if it.Route.SavingsKm > 0 {
		fmt.Printf("  Suggested order:      %s (saves %.1f km)\n", strings.Join(it.Route.IDs(), " -> "), it.Route.SavingsKm)
	}
}

func printStop(s tour.Stop) {
	fmt.Printf("Stop %s: %s, %s on %s (%s)\n", s.ID, s.Venue.Name, s.Location, s.Date.Format("2006-01-02"), s.Status)
	fmt.Printf("  Travel:     %s from %s, %.1f km, %.1f h, comfort %d, $%s\n",
		s.Leg.Mode, orDash(s.Leg.From), s.Leg.DistanceKm, s.Leg.TimeHours, s.Leg.Comfort, formatMoney(s.Leg.Cost))
	fmt.Printf("  Show:       %s\n", s.ShowType)
	fmt.Printf("  Payment:    $%s\n", formatMoney(float64(s.Quote.Payment)))
	fmt.Printf("  Success:    %d%%\n", s.Quote.SuccessChance)
	fmt.Printf("  Attendance: %d of %d\n", s.ProjectedAttendance, s.Venue.Capacity)
	env := s.Environment
	fmt.Printf("  Conditions: attendance x%.2f, cost x%.2f, morale x%.2f\n",
		env.AttendanceMultiplier, env.CostMultiplier, env.MoraleModifier)
	for _, e := range env.Applied {
		fmt.Printf("    * %s\n", e.Label())
	}
	for _, r := range s.Quote.Unmet {
		fmt.Printf("  Unmet:      %s\n", r)
	}
}

func printSettlement(st economics.Settlement, before, after economics.PlayerState) {
	outcome := "FAILURE"
	if st.IsSuccess {
		outcome = "SUCCESS"
	}
	fmt.Printf("Settlement: %s\n", outcome)
	fmt.Println("----------")
	fmt.Printf("  Attendance:  %d\n", st.Attendance)
	fmt.Printf("  Payment:     $%s\n", formatMoney(float64(st.Payment)))
	fmt.Printf("  Fans:        %+d\n", st.FanGainDelta)
	fmt.Printf("  Experience:  %+d\n", st.ExperienceGainDelta)
	fmt.Printf("  Health:      %+d\n", st.HealthDelta)
	fmt.Println()
	fmt.Printf("%-12s %10s %10s\n", "Player", "Before", "After")
	fmt.Printf("%-12s %10d %10d\n", "Cash", before.Cash, after.Cash)
	fmt.Printf("%-12s %10d %10d\n", "Fame", before.Fame, after.Fame)
	fmt.Printf("%-12s %10d %10d\n", "Health", before.Health, after.Health)
	fmt.Printf("%-12s %10d %10d\n", "Experience", before.Experience, after.Experience)
	fmt.Printf("%-12s %10.2f %10.2f\n", "Charisma", before.Attributes.Charisma, after.Attributes.Charisma)
	fmt.Printf("%-12s %10.2f %10.2f\n", "Looks", before.Attributes.Looks, after.Attributes.Looks)
	fmt.Printf("%-12s %10.2f %10.2f\n", "Musicality", before.Attributes.Musicality, after.Attributes.Musicality)
	fmt.Printf("%-12s %10.2f %10.2f\n", "Performance", before.Attributes.Performance, after.Attributes.Performance)
}

func printCostReport(r *cost.Report) {
	fmt.Println("Budget")
	fmt.Println("------")
	fmt.Printf("%-10s %6s %10s %9s %9s %9s %9s %10s %10s\n",
		"Ledger", "Shows", "Km", "Coach", "Taxi", "Air", "Ferry", "Income", "Net")
	printLedger("Estimate", r.Estimate)
	if r.Actual != nil {
		printLedger("Actual", r.Actual)
	}
	fmt.Println()
	fmt.Printf("  Net per show:   $%s\n", formatMoney(r.Summary.NetPerShow))
	fmt.Printf("  Cost per km:    $%.2f\n", r.Summary.CostPerKm)
	fmt.Printf("  Travel share:   %.0f%% of income\n", r.Summary.TravelShare*100)
}

func printLedger(label string, l *cost.Ledger) {
	fmt.Printf("%-10s %6d %10.1f %9s %9s %9s %9s %10s %10s\n",
		label, l.Shows, l.DistanceKm,
		formatMoney(l.Travel.Coach), formatMoney(l.Travel.Taxi), formatMoney(l.Travel.Air), formatMoney(l.Travel.Ferry),
		formatMoney(float64(l.Income)), formatMoney(l.Net))
}

func formatMoney(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 10_000 {
		return fmt.Sprintf("%.1fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
