package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWaitingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waiting",
		Short: "Track idle time on the current operation",
	}
	cmd.AddCommand(newWaitingStartCmd())
	cmd.AddCommand(newWaitingNoteCmd())
	cmd.AddCommand(newWaitingEndCmd())
	return cmd
}

func newWaitingStartCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a waiting period",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.StartWaiting(c.Context(), reason); err != nil {
				return err
			}
			fmt.Printf("Waiting started: %s\n", reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the crew is waiting (required)")
	return cmd
}

func newWaitingNoteCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "note",
		Short: "Note another reason on the open waiting period",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.AddWaitingReason(c.Context(), text); err != nil {
				return err
			}
			fmt.Println("Reason noted")
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Reason text")
	return cmd
}

func newWaitingEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the waiting period",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			period, err := ctn.Logbook.EndWaiting(c.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Waiting ended after %s\n", period.Duration)
			return nil
		},
	}
}
