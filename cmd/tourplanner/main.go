package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tourplanner",
		Short: "Tour routing, travel and performance economics engine",
	}

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(settleCmd())
	rootCmd.AddCommand(serveCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a tour project without scheduling it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func planCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan [project-path]",
		Short: "Schedule every stop and print the itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the itinerary as JSON")
	return cmd
}

func quoteCmd() *cobra.Command {
	var stopID string

	cmd := &cobra.Command{
		Use:   "quote [project-path]",
		Short: "Show the booking-time quote and projection for one stop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd.Context(), args[0], stopID)
		},
	}

	cmd.Flags().StringVar(&stopID, "stop", "", "stop id to quote")
	cmd.MarkFlagRequired("stop")
	return cmd
}

func settleCmd() *cobra.Command {
	var (
		stopID string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "settle [project-path]",
		Short: "Simulate the performance at one stop and show the resulting deltas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *int64
			if cmd.Flags().Changed("seed") {
				s = &seed
			}
			return runSettle(cmd.Context(), args[0], stopID, s)
		},
	}

	cmd.Flags().StringVar(&stopID, "stop", "", "stop id to settle")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for a reproducible settlement")
	cmd.MarkFlagRequired("stop")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		port        int
		databaseURL string
	)

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the HTTP API and live settlement feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("TOURPLANNER_DATABASE_URL")
			}
			return runServe(cmd.Context(), args[0], port, databaseURL)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL for player profiles (default: in-memory)")
	return cmd
}
