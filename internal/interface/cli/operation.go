package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldlog/fieldlog/internal/domain/model/operation"
)

func newOperationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operation",
		Short: "Manage the operation record itself",
	}
	cmd.AddCommand(newOperationStartCmd())
	cmd.AddCommand(newOperationSaveCmd())
	cmd.AddCommand(newOperationAbandonCmd())
	return cmd
}

func newOperationStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Open a new operation draft",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.StartOperation(c.Context()); err != nil {
				return err
			}
			fmt.Println("Operation draft started")
			return nil
		},
	}
}

func newOperationSaveCmd() *cobra.Command {
	var fields operation.Fields

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the open draft to the history",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			result, err := ctn.Logbook.SaveOperation(c.Context(), fields)
			if err != nil {
				return err
			}
			for _, warning := range result.Warnings {
				globalLogger.Warn("%s", warning)
			}
			fmt.Printf("Operation saved: %s\n", result.Operation.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&fields.Type, "type", "", "Operation type (required)")
	cmd.Flags().StringVar(&fields.City, "city", "", "City (required)")
	cmd.Flags().StringVar(&fields.WellService, "well-service", "", "Well or service name (required)")
	cmd.Flags().StringVar(&fields.OperatorName, "operator", "", "Operator name (required)")
	cmd.Flags().StringVar(&fields.Volume, "volume", "", "Volume")
	cmd.Flags().StringVar(&fields.Temperature, "temperature", "", "Temperature")
	cmd.Flags().StringVar(&fields.Pressure, "pressure", "", "Pressure")
	cmd.Flags().StringVar(&fields.Activities, "activities", "", "Activities description")
	return cmd
}

func newOperationAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon",
		Short: "Discard the open draft without saving",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.AbandonOperation(c.Context()); err != nil {
				return err
			}
			fmt.Println("Operation draft abandoned")
			return nil
		},
	}
}
