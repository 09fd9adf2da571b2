package cli

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"

	"github.com/fieldlog/fieldlog/internal/app"
	"github.com/fieldlog/fieldlog/internal/app/config"
	"github.com/fieldlog/fieldlog/internal/application/usecase/logbook"
	"github.com/fieldlog/fieldlog/internal/application/usecase/report"
	"github.com/fieldlog/fieldlog/internal/domain/repository"
	infraConfig "github.com/fieldlog/fieldlog/internal/infra/config"
	"github.com/fieldlog/fieldlog/internal/infrastructure/persistence/sqlite"
	infraRepo "github.com/fieldlog/fieldlog/internal/infrastructure/repository"
)

// Container wires repositories and services for one command invocation
type Container struct {
	Paths  app.Paths
	Config config.Config
	FS     afero.Fs

	History repository.HistoryRepository
	Profile repository.ProfileRepository
	Queue   repository.SyncQueueRepository

	Logbook *logbook.Service
	Report  *report.Generator

	db *sql.DB
}

// newContainer assembles the full dependency graph. The home directory
// must exist (run init first); the sync queue database is opened and
// migrated here.
func newContainer(ctx context.Context) (*Container, error) {
	paths := app.ResolvePaths()
	fs := afero.NewOsFs()

	if ok, err := afero.DirExists(fs, paths.Home); err != nil {
		return nil, fmt.Errorf("check home directory: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("home directory %s not found (run 'fieldlog init' first)", paths.Home)
	}

	cfg, err := infraConfig.LoadSettings(fs, paths.Home)
	if err != nil {
		return nil, err
	}
	InitGlobalLogger(cfg.StderrLevel())

	db, err := sql.Open("sqlite3", paths.QueueDB)
	if err != nil {
		return nil, fmt.Errorf("open sync queue database: %w", err)
	}
	if err := sqlite.NewMigrator(db).Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sync queue database: %w", err)
	}

	historyRepo := infraRepo.NewHistoryRepositoryImpl(fs, paths.History, cfg.RewriteOnLoad())
	stateRepo := infraRepo.NewStateRepositoryImpl(fs, paths.State)
	profileRepo := infraRepo.NewProfileRepositoryImpl(fs, paths.Profile)
	queueRepo := sqlite.NewSyncQueueRepositoryImpl(db)

	svc, err := logbook.NewService(ctx, stateRepo, historyRepo, queueRepo)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Container{
		Paths:   paths,
		Config:  cfg,
		FS:      fs,
		History: historyRepo,
		Profile: profileRepo,
		Queue:   queueRepo,
		Logbook: svc,
		Report:  report.NewGenerator(historyRepo, profileRepo),
		db:      db,
	}, nil
}

// Close releases the container's resources
func (c *Container) Close() error {
	return c.db.Close()
}
