package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDisplacementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "displacement",
		Short: "Track the travel leg to the work site",
	}
	cmd.AddCommand(newDisplacementStartCmd())
	cmd.AddCommand(newDisplacementEndCmd())
	return cmd
}

func newDisplacementStartCmd() *cobra.Command {
	var origin, destination, startKm string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a displacement",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.StartDisplacement(c.Context(), origin, destination, startKm); err != nil {
				return err
			}
			fmt.Printf("Displacement started: %s -> %s (odometer %s km)\n", origin, destination, startKm)
			return nil
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "", "Departure location")
	cmd.Flags().StringVar(&destination, "destination", "", "Arrival location")
	cmd.Flags().StringVar(&startKm, "start-km", "", "Odometer reading at departure")
	return cmd
}

func newDisplacementEndCmd() *cobra.Command {
	var endKm string

	cmd := &cobra.Command{
		Use:   "end",
		Short: "End the displacement",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			snap, err := ctn.Logbook.EndDisplacement(c.Context(), endKm)
			if err != nil {
				return err
			}
			fmt.Printf("Displacement completed: %.1f km in %s\n", snap.DistanceKm, snap.Duration)
			return nil
		},
	}

	cmd.Flags().StringVar(&endKm, "end-km", "", "Odometer reading at arrival")
	return cmd
}
