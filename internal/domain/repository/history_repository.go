package repository

import (
	"context"
	"errors"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/operation"
)

// ErrOperationNotFound is returned when no operation matches the given ID
var ErrOperationNotFound = errors.New("operation not found")

// HistoryRepository manages the ordered collection of saved operations.
// The whole collection is persisted as one document and rewritten in full
// on every mutation.
type HistoryRepository interface {
	// All retrieves every stored operation in insertion order
	All(ctx context.Context) ([]*operation.Operation, error)

	// FindByID retrieves one operation by ID
	FindByID(ctx context.Context, id model.OperationID) (*operation.Operation, error)

	// Last retrieves the most recently appended operation, or
	// ErrOperationNotFound when the history is empty
	Last(ctx context.Context) (*operation.Operation, error)

	// Append adds an operation to the end of the history and persists
	Append(ctx context.Context, op *operation.Operation) error

	// Update replaces the stored operation with the same ID and persists
	Update(ctx context.Context, op *operation.Operation) error

	// Count returns the number of stored operations
	Count(ctx context.Context) (int, error)

	// Clear wipes the whole history. Individual operations are never deleted.
	Clear(ctx context.Context) error
}
