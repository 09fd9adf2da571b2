package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldlog/fieldlog/internal/adapter/gateway/storage"
	"github.com/fieldlog/fieldlog/internal/application/usecase/sync"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push queued operation documents to the remote mirror",
		RunE: func(c *cobra.Command, _ []string) error {
			ctn, err := newContainer(c.Context())
			if err != nil {
				return err
			}
			defer ctn.Close()

			if ctn.Config.SyncBucket() == "" {
				return fmt.Errorf("sync_bucket not configured in %s", ctn.Paths.Settings)
			}

			gateway, err := storage.NewS3MirrorGateway(c.Context(), storage.S3Config{
				Bucket: ctn.Config.SyncBucket(),
				Prefix: ctn.Config.SyncPrefix(),
				Region: ctn.Config.SyncRegion(),
			})
			if err != nil {
				return err
			}

			result, err := sync.NewService(ctn.Queue, gateway).Run(c.Context())
			if err != nil {
				return err
			}

			for _, path := range result.Pushed {
				globalLogger.Info("pushed %s", path)
			}
			for _, failure := range result.Failures {
				globalLogger.Warn("push failed for operation %s: %v", failure.OperationID, failure.Err)
			}

			fmt.Printf("Sync: %d pushed, %d failed\n", len(result.Pushed), len(result.Failures))
			return nil
		},
	}
}
