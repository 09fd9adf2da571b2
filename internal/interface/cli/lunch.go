package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLunchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lunch",
		Short: "Track a lunch break on the current operation",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a lunch break",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.StartLunch(c.Context()); err != nil {
				return err
			}
			fmt.Println("Lunch break started")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End the lunch break",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			record, err := ctn.Logbook.EndLunch(c.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Lunch break ended after %s\n", record.Duration)
			return nil
		},
	})

	return cmd
}
