package cli

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fieldlog/fieldlog/internal/app"
	infraConfig "github.com/fieldlog/fieldlog/internal/infra/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the fieldlog home directory",
		RunE: func(c *cobra.Command, _ []string) error {
			paths := app.ResolvePaths()
			fs := afero.NewOsFs()

			for _, dir := range []string{paths.Home, paths.Reports} {
				if err := fs.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create directory %s: %w", dir, err)
				}
			}

			if err := writeIfNotExists(fs, paths.Settings, infraConfig.CreateDefaultSettings(paths.Home)); err != nil {
				return err
			}

			fmt.Printf("Initialized %s:\n", paths.Home)
			fmt.Printf("  %s\n", paths.Settings)
			fmt.Printf("  %s/\n", paths.Reports)
			return nil
		},
	}
}

// writeIfNotExists writes a file only when it is not already present
func writeIfNotExists(fs afero.Fs, path string, content []byte) error {
	if _, err := fs.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
