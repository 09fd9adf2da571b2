package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldlog/fieldlog/internal/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fieldlog version",
		Run: func(c *cobra.Command, _ []string) {
			fmt.Printf("fieldlog %s\n", buildinfo.GetVersion())
		},
	}
}
