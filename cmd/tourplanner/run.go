package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ChicagoDave/tourplanner/internal/server"
	"github.com/ChicagoDave/tourplanner/internal/store"
	"github.com/ChicagoDave/tourplanner/pkg/cost"
	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/spec"
	"github.com/ChicagoDave/tourplanner/pkg/tour"
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// loadAndValidate loads the project and runs schema validation.
func loadAndValidate(projectPath string) (*spec.TourSpec, *validation.Report, error) {
	tourSpec, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading spec: %w", err)
	}
	return tourSpec, spec.Validate(tourSpec), nil
}

// loadTour validates the project and schedules every stop.
func loadTour(ctx context.Context, projectPath string) (*spec.TourSpec, *tour.Planner, *tour.Tour, error) {
	tourSpec, report, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := report.Err(); err != nil {
		printValidationReport(report)
		return nil, nil, nil, fmt.Errorf("spec has validation errors: %w", err)
	}
	planner, err := tourSpec.Planner(nil)
	if err != nil {
		return nil, nil, nil, err
	}
	t, err := tourSpec.BuildTour(ctx, planner)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scheduling: %w", err)
	}
	return tourSpec, planner, t, nil
}

func runValidate(projectPath string) error {
	_, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	printValidationReport(report)
	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runPlan(ctx context.Context, projectPath string, asJSON bool) error {
	tourSpec, planner, t, err := loadTour(ctx, projectPath)
	if err != nil {
		return err
	}
	itinerary, planReport := planner.Plan(t)

	// Schema warnings and info ride along with the itinerary findings.
	report := validation.NewReport()
	report.Merge(spec.Validate(tourSpec))
	report.Merge(planReport)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"itinerary":  itinerary,
			"cost":       cost.Estimate(itinerary),
			"validation": report,
		})
	}

	printItinerary(itinerary)
	fmt.Println()
	printCostReport(cost.Estimate(itinerary))
	if len(report.Warnings) > 0 || len(report.Info) > 0 {
		fmt.Println()
		printValidationReport(report)
	}
	return nil
}

// checkStop rejects stop ids the project file does not define.
func checkStop(s *spec.TourSpec, stopID string) error {
	if s.StopByID(stopID) == nil {
		return validation.Invalid("stop", stopID, "not defined in "+spec.ProjectFile)
	}
	return nil
}

func runQuote(ctx context.Context, projectPath, stopID string) error {
	tourSpec, _, t, err := loadTour(ctx, projectPath)
	if err != nil {
		return err
	}
	if err := checkStop(tourSpec, stopID); err != nil {
		return err
	}
	i, err := t.Find(stopID)
	if err != nil {
		return err
	}
	printStop(t.Stops[i])
	return nil
}

// runSettle plays one stop against an in-memory copy of the player and
// prints the profile the deltas produce. A nil seed draws from math/rand.
func runSettle(ctx context.Context, projectPath, stopID string, seed *int64) error {
	tourSpec, planner, t, err := loadTour(ctx, projectPath)
	if err != nil {
		return err
	}
	if err := checkStop(tourSpec, stopID); err != nil {
		return err
	}

	var rnd economics.RandomSource
	if seed != nil {
		rnd = economics.SeededSource(*seed)
	}
	settlement, err := planner.Complete(t, stopID, tourSpec.Player, rnd)
	if err != nil {
		return err
	}

	profiles := store.NewMemoryStore()
	if _, err := profiles.Put(ctx, tourSpec.Player); err != nil {
		return err
	}
	profile, err := profiles.ApplyDelta(ctx, tourSpec.Player.ID, store.EventID(t.ID, stopID), settlement.Deltas())
	if err != nil {
		return err
	}

	i, _ := t.Find(stopID)
	printStop(t.Stops[i])
	fmt.Println()
	printSettlement(settlement, tourSpec.Player, profile.PlayerState)
	return nil
}

func runServe(ctx context.Context, projectPath string, port int, databaseURL string) error {
	tourSpec, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		printValidationReport(report)
		return fmt.Errorf("spec has validation errors: %w", err)
	}

	var profiles store.ProfileStore
	if databaseURL != "" {
		pg, err := store.OpenPostgres(ctx, databaseURL, slog.Default())
		if err != nil {
			return err
		}
		defer pg.Close()
		profiles = pg
		log.Printf("Profiles: postgres")
	} else {
		profiles = store.NewMemoryStore()
		log.Printf("Profiles: in-memory")
	}

	srv, err := server.New(ctx, tourSpec, profiles)
	if err != nil {
		return err
	}
	log.Printf("Project: %s", projectPath)
	return srv.Start(ctx, port)
}
