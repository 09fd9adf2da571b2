package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMobilizationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mobilization",
		Short: "Track equipment setup at the work site",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start mobilization",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.StartMobilization(c.Context()); err != nil {
				return err
			}
			fmt.Println("Mobilization started")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End mobilization",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			duration, err := ctn.Logbook.EndMobilization(c.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Mobilization completed in %s\n", duration)
			return nil
		},
	})

	return cmd
}
