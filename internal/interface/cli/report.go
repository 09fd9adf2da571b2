package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the full history as a plain-text report",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			document, err := ctn.Report.Generate(c.Context())
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Print(document)
				return nil
			}
			if err := afero.WriteFile(ctn.FS, out, []byte(document), 0o644); err != nil {
				return fmt.Errorf("write report to %s: %w", out, err)
			}
			fmt.Printf("Report written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the report to a file instead of stdout")
	return cmd
}
