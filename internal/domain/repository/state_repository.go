package repository

import (
	"context"

	"github.com/fieldlog/fieldlog/internal/domain/model/logbook"
)

// StateRepository persists the application state between invocations
type StateRepository interface {
	// Load retrieves the stored state, or a fresh one when none exists
	Load(ctx context.Context) (*logbook.State, error)

	// Save persists the state
	Save(ctx context.Context, state *logbook.State) error

	// Reset discards the stored state
	Reset(ctx context.Context) error
}
