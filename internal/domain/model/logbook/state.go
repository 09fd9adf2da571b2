// Package logbook holds the explicit application state shared by every
// lifecycle action: the open draft, the phase trackers and the reference
// to the current (last saved, not yet demobilized) operation.
package logbook

import (
	"errors"
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/phase"
)

var (
	// ErrOperationAlreadyStarted is returned when starting a draft while one is open
	ErrOperationAlreadyStarted = errors.New("operation already started")

	// ErrOperationNotStarted is returned when saving without an open draft
	ErrOperationNotStarted = errors.New("operation not started")

	// ErrDisplacementNotCompleted is returned when mobilization starts before
	// a displacement has been completed
	ErrDisplacementNotCompleted = errors.New("displacement not completed")

	// ErrNoSavedOperation is returned when a sub-event or demobilization is
	// attempted before any operation has been saved
	ErrNoSavedOperation = errors.New("no saved operation")
)

// State is the single mutable application state. It is owned by the
// logbook service and passed explicitly; there are no package globals.
type State struct {
	DraftStartedAt *time.Time

	Displacement   *phase.Displacement
	Mobilization   *phase.Mobilization
	Demobilization *phase.Demobilization
	Waiting        *phase.Waiting
	Lunch          *phase.Lunch
	Refueling      *phase.Refueling

	// CurrentOperationID addresses the saved operation that sub-events and
	// demobilization attach to, resolved by repository lookup.
	CurrentOperationID model.OperationID
	OperationSaved     bool
}

// NewState creates a fresh state with all trackers idle
func NewState() *State {
	return &State{
		Displacement:   phase.NewDisplacement(),
		Mobilization:   phase.NewMobilization(),
		Demobilization: phase.NewDemobilization(),
		Waiting:        phase.NewWaiting(),
		Lunch:          phase.NewLunch(),
		Refueling:      phase.NewRefueling(),
	}
}

// StartDraft opens a new operation draft
func (s *State) StartDraft(now time.Time) error {
	if s.DraftStartedAt != nil {
		return ErrOperationAlreadyStarted
	}
	t := now
	s.DraftStartedAt = &t
	return nil
}

// AbandonDraft discards the open draft and every open tracker without
// touching the history. The saved-operation reference is kept so an
// already-saved operation can still demobilize.
func (s *State) AbandonDraft() error {
	if s.DraftStartedAt == nil {
		return ErrOperationNotStarted
	}
	s.DraftStartedAt = nil
	s.Displacement = phase.NewDisplacement()
	s.Mobilization = phase.NewMobilization()
	s.Waiting = phase.NewWaiting()
	s.Lunch = phase.NewLunch()
	s.Refueling = phase.NewRefueling()
	return nil
}

// RequireCompletedDisplacement guards mobilization start
func (s *State) RequireCompletedDisplacement() error {
	if !s.Displacement.IsCompleted() {
		return ErrDisplacementNotCompleted
	}
	return nil
}

// RequireSavedOperation guards demobilization and sub-event phases
func (s *State) RequireSavedOperation() error {
	if !s.OperationSaved || s.CurrentOperationID.IsZero() {
		return ErrNoSavedOperation
	}
	return nil
}

// MarkSaved records that the draft has been persisted as the given operation
func (s *State) MarkSaved(id model.OperationID) {
	s.CurrentOperationID = id
	s.OperationSaved = true
}

// ResetCycle prepares the state for the next operation after
// demobilization closes the current one.
func (s *State) ResetCycle() {
	s.DraftStartedAt = nil
	s.Displacement = phase.NewDisplacement()
	s.Mobilization = phase.NewMobilization()
	s.Demobilization = phase.NewDemobilization()
	s.Waiting = phase.NewWaiting()
	s.Lunch = phase.NewLunch()
	s.Refueling = phase.NewRefueling()
	s.CurrentOperationID = model.OperationID{}
	s.OperationSaved = false
}
