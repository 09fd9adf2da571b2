package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldlog/fieldlog/internal/domain/model/profile"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the operator profile shown in report headers",
	}
	cmd.AddCommand(newProfileSetCmd())
	cmd.AddCommand(newProfileShowCmd())
	return cmd
}

func newProfileSetCmd() *cobra.Command {
	var name, registration, auxiliary, vehiclePlate string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save the operator profile",
		RunE: func(c *cobra.Command, _ []string) error {
			p, err := profile.New(name, registration, auxiliary, vehiclePlate)
			if err != nil {
				return err
			}

			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Profile.Save(c.Context(), p); err != nil {
				return err
			}
			fmt.Printf("Profile saved: %s (%s)\n", p.Name, p.Registration)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Operator name (required)")
	cmd.Flags().StringVar(&registration, "registration", "", "Operator registration (required)")
	cmd.Flags().StringVar(&auxiliary, "auxiliary", "", "Auxiliary operator name")
	cmd.Flags().StringVar(&vehiclePlate, "vehicle-plate", "", "Vehicle plate")
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored operator profile",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			p, err := ctn.Profile.Load(c.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Name:         %s\n", p.Name)
			fmt.Printf("Registration: %s\n", p.Registration)
			fmt.Printf("Position:     %s\n", p.Position)
			if p.AuxiliaryName != "" {
				fmt.Printf("Auxiliary:    %s\n", p.AuxiliaryName)
			}
			if p.VehiclePlate != "" {
				fmt.Printf("Vehicle:      %s\n", p.VehiclePlate)
			}
			return nil
		},
	}
}
