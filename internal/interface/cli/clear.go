package cli

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Wipe the whole history, the sync queue and the tracker state",
		Long: `Clear removes every stored operation, the pending sync queue and the
current tracker state. The operator profile and settings are kept.

This cannot be undone.`,
		RunE: func(c *cobra.Command, _ []string) error {
			if !yes {
				confirmed, err := confirmClear()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted")
					return nil
				}
			}

			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if err := ctn.Logbook.ClearHistory(c.Context()); err != nil {
				return err
			}
			fmt.Println("History cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func confirmClear() (bool, error) {
	prompt := promptui.Prompt{
		Label:     "Delete all recorded operations",
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return true, nil
}
