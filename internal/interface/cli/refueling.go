package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldlog/fieldlog/internal/domain/model"
)

func newRefuelingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refueling",
		Short: "Track a refueling stop on the current operation",
	}
	cmd.AddCommand(newRefuelingStartCmd())
	cmd.AddCommand(newRefuelingEndCmd())
	return cmd
}

func newRefuelingStartCmd() *cobra.Command {
	var fuel string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a refueling stop",
		RunE: func(c *cobra.Command, _ []string) error {
			fuelType, err := model.ParseFuelType(fuel)
			if err != nil {
				return err
			}

			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.StartRefueling(c.Context(), fuelType); err != nil {
				return err
			}
			fmt.Printf("Refueling started (%s)\n", fuelType)
			return nil
		},
	}

	cmd.Flags().StringVar(&fuel, "fuel", "", "What is being loaded: water or fuel")
	return cmd
}

func newRefuelingEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the refueling stop",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			record, err := ctn.Logbook.EndRefueling(c.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Refueling ended after %s (%s)\n", record.Duration, record.FuelType)
			return nil
		},
	}
}
