package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDemobilizationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demobilization",
		Short: "Track equipment teardown, closing the operation cycle",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start demobilization",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.StartDemobilization(c.Context()); err != nil {
				return err
			}
			fmt.Println("Demobilization started")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "end",
		Short: "End demobilization and close the cycle",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			result, err := ctn.Logbook.EndDemobilization(c.Context())
			if err != nil {
				return err
			}
			for _, warning := range result.Warnings {
				globalLogger.Warn("%s", warning)
			}

			fmt.Printf("Demobilization completed in %s\n", result.Duration)
			if result.Total != nil {
				fmt.Printf("Total operation time: %s\n", *result.Total)
			} else {
				fmt.Println("Total operation time: N/A (mobilization not recorded)")
			}
			fmt.Printf("Operation %s closed\n", result.Operation.ID())
			return nil
		},
	})

	return cmd
}
