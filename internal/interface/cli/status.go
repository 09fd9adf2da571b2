package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldlog/fieldlog/internal/application/usecase/logbook"
)

func newStatusCmd() *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current state of every phase",
		RunE: func(c *cobra.Command, _ []string) error {
			if !watch {
				return printStatus(c.Context())
			}

			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			if err := printStatus(ctx); err != nil {
				return err
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := printStatus(ctx); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Refresh until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Refresh interval in watch mode")
	return cmd
}

func printStatus(ctx context.Context) error {
	ctn, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer ctn.Close()

	status, err := ctn.Logbook.Status(ctx)
	if err != nil {
		return err
	}

	if status.DraftStartedAt != nil {
		fmt.Printf("Draft open since %s\n", status.DraftStartedAt.Format("15:04:05"))
	} else {
		fmt.Println("No open draft")
	}
	if status.OperationSaved {
		fmt.Printf("Current operation: %s\n", status.CurrentOperationID)
	}

	printPhase("Displacement", status.Displacement)
	printPhase("Mobilization", status.Mobilization)
	printPhase("Demobilization", status.Demobilization)
	printPhase("Waiting", status.Waiting)
	printPhase("Lunch", status.Lunch)
	printPhase("Refueling", status.Refueling)

	fmt.Printf("History: %d operation(s), %d pending sync\n", status.HistoryCount, status.PendingSyncCount)
	return nil
}

func printPhase(label string, p logbook.PhaseStatus) {
	switch {
	case p.Active:
		detail := ""
		if p.Detail != "" {
			detail = " - " + p.Detail
		}
		fmt.Printf("  %-15s active, %s elapsed%s\n", label+":", p.Elapsed, detail)
	case p.Completed:
		fmt.Printf("  %-15s completed\n", label+":")
	default:
		fmt.Printf("  %-15s idle\n", label+":")
	}
}
