// Package logbook implements the lifecycle use cases: every discrete
// operator action maps onto one method of Service. The service owns the
// application state explicitly; nothing here is a singleton.
package logbook

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	state "github.com/fieldlog/fieldlog/internal/domain/model/logbook"
	"github.com/fieldlog/fieldlog/internal/domain/model/operation"
	"github.com/fieldlog/fieldlog/internal/domain/model/phase"
	"github.com/fieldlog/fieldlog/internal/domain/repository"
)

// Service coordinates the phase trackers, the history store and the sync
// queue. Methods mutate in memory first, then persist; a failed persist
// is reported but the in-memory change is not rolled back.
type Service struct {
	state       *state.State
	stateRepo   repository.StateRepository
	historyRepo repository.HistoryRepository
	queueRepo   repository.SyncQueueRepository
	now         func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the wall clock, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService loads the stored application state and builds the service
func NewService(
	ctx context.Context,
	stateRepo repository.StateRepository,
	historyRepo repository.HistoryRepository,
	queueRepo repository.SyncQueueRepository,
	opts ...Option,
) (*Service, error) {
	st, err := stateRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	s := &Service{
		state:       st,
		stateRepo:   stateRepo,
		historyRepo: historyRepo,
		queueRepo:   queueRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State exposes the current application state read-only
func (s *Service) State() *state.State {
	return s.state
}

// StartDisplacement opens the travel leg
func (s *Service) StartDisplacement(ctx context.Context, origin, destination, startKm string) error {
	origin = normalizeText(origin)
	destination = normalizeText(destination)

	if err := s.state.Displacement.Start(origin, destination, startKm, s.now()); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// EndDisplacement closes the travel leg and keeps its snapshot for the
// operation that is saved later
func (s *Service) EndDisplacement(ctx context.Context, endKm string) (*phase.DisplacementSnapshot, error) {
	snap, err := s.state.Displacement.End(endKm, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.saveState(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

// StartMobilization opens the setup phase; a completed displacement is required
func (s *Service) StartMobilization(ctx context.Context) error {
	if err := s.state.RequireCompletedDisplacement(); err != nil {
		return err
	}
	if err := s.state.Mobilization.Start(s.now()); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// EndMobilization closes the setup phase
func (s *Service) EndMobilization(ctx context.Context) (model.Minutes, error) {
	if err := s.state.Mobilization.End(s.now()); err != nil {
		return 0, err
	}
	if err := s.saveState(ctx); err != nil {
		return *s.state.Mobilization.Interval().Duration(), err
	}
	return *s.state.Mobilization.Interval().Duration(), nil
}

// StartOperation opens a new draft
func (s *Service) StartOperation(ctx context.Context) error {
	if err := s.state.StartDraft(s.now()); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// AbandonOperation discards the open draft and open trackers without
// touching the history
func (s *Service) AbandonOperation(ctx context.Context) error {
	if err := s.state.AbandonDraft(); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// SaveResult is the outcome of a successful save
type SaveResult struct {
	Operation *operation.Operation
	Warnings  []string
}

// SaveOperation validates and freezes the draft, appends it to the
// history and queues it for the remote mirror. The draft's editable
// fields are consumed here; displacement and mobilization data stay
// visible for demobilization.
func (s *Service) SaveOperation(ctx context.Context, fields operation.Fields) (*SaveResult, error) {
	if s.state.DraftStartedAt == nil {
		return nil, state.ErrOperationNotStarted
	}

	fields = normalizeFields(fields)
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var mob = s.state.Mobilization.Interval()
	if mob.StartedAt() == nil {
		mob = nil
	}

	op, err := operation.New(
		model.NewOperationIDAt(now),
		*s.state.DraftStartedAt,
		now,
		fields,
		s.state.Displacement.Snapshot(),
		mob,
	)
	if err != nil {
		return nil, err
	}

	if err := s.historyRepo.Append(ctx, op); err != nil {
		return nil, fmt.Errorf("persist history: %w", err)
	}

	s.state.MarkSaved(op.ID())

	result := &SaveResult{Operation: op}
	if err := s.enqueue(ctx, op); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("queue for sync: %v", err))
	}
	if err := s.saveState(ctx); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("persist state: %v", err))
	}
	return result, nil
}

// StartWaiting opens an idle period on the current saved operation
func (s *Service) StartWaiting(ctx context.Context, reason string) error {
	if err := s.state.RequireSavedOperation(); err != nil {
		return err
	}
	if err := s.state.Waiting.Start(normalizeText(reason), s.now()); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// AddWaitingReason notes another reason on the open waiting period
func (s *Service) AddWaitingReason(ctx context.Context, text string) error {
	if err := s.state.Waiting.AddReason(normalizeText(text), s.now()); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// EndWaiting closes the idle period and appends it to the current operation
func (s *Service) EndWaiting(ctx context.Context) (*phase.WaitingPeriod, error) {
	period, err := s.state.Waiting.End(s.now())
	if err != nil {
		return nil, err
	}

	if err := s.appendToCurrent(ctx, func(op *operation.Operation) {
		op.AppendWaitingPeriod(*period)
	}); err != nil {
		return period, err
	}

	// A repeat period is a new tracker, never a reopened one
	s.state.Waiting = phase.NewWaiting()
	return period, s.saveState(ctx)
}

// StartLunch opens a lunch break on the current saved operation
func (s *Service) StartLunch(ctx context.Context) error {
	if err := s.state.RequireSavedOperation(); err != nil {
		return err
	}
	if err := s.state.Lunch.Start(s.now()); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// EndLunch closes the lunch break and appends it to the current operation
func (s *Service) EndLunch(ctx context.Context) (*phase.LunchBreak, error) {
	lunch, err := s.state.Lunch.End(s.now())
	if err != nil {
		return nil, err
	}

	if err := s.appendToCurrent(ctx, func(op *operation.Operation) {
		op.AppendLunchBreak(*lunch)
	}); err != nil {
		return lunch, err
	}

	s.state.Lunch = phase.NewLunch()
	return lunch, s.saveState(ctx)
}

// StartRefueling opens a refueling stop on the current saved operation
func (s *Service) StartRefueling(ctx context.Context, fuelType model.FuelType) error {
	if err := s.state.RequireSavedOperation(); err != nil {
		return err
	}
	if err := s.state.Refueling.Start(fuelType, s.now()); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// EndRefueling closes the refueling stop and appends it to the current operation
func (s *Service) EndRefueling(ctx context.Context) (*phase.RefuelingEvent, error) {
	event, err := s.state.Refueling.End(s.now())
	if err != nil {
		return nil, err
	}

	if err := s.appendToCurrent(ctx, func(op *operation.Operation) {
		op.AppendRefueling(*event)
	}); err != nil {
		return event, err
	}

	s.state.Refueling = phase.NewRefueling()
	return event, s.saveState(ctx)
}

// StartDemobilization opens the teardown phase; the current operation
// must have been saved first
func (s *Service) StartDemobilization(ctx context.Context) error {
	if err := s.state.RequireSavedOperation(); err != nil {
		return err
	}
	if err := s.state.Demobilization.Start(s.now()); err != nil {
		return err
	}
	return s.saveState(ctx)
}

// DemobilizationResult is the outcome of closing an operation cycle
type DemobilizationResult struct {
	Operation *operation.Operation
	Duration  model.Minutes
	// Total is mobilization + demobilization, nil when mobilization
	// was never recorded
	Total    *model.Minutes
	Warnings []string
}

// EndDemobilization closes the teardown phase, writes it onto the current
// operation, queues the final document for the mirror and resets the
// state for the next cycle.
func (s *Service) EndDemobilization(ctx context.Context) (*DemobilizationResult, error) {
	if err := s.state.RequireSavedOperation(); err != nil {
		return nil, err
	}
	if err := s.state.Demobilization.End(s.now()); err != nil {
		return nil, err
	}

	op, err := s.historyRepo.FindByID(ctx, s.state.CurrentOperationID)
	if err != nil {
		return nil, fmt.Errorf("resolve current operation: %w", err)
	}
	if err := op.AttachDemobilization(s.state.Demobilization.Interval()); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Update(ctx, op); err != nil {
		return nil, fmt.Errorf("persist history: %w", err)
	}

	result := &DemobilizationResult{
		Operation: op,
		Duration:  *s.state.Demobilization.Interval().Duration(),
		Total:     op.TotalOperationMinutes(),
	}
	if err := s.enqueue(ctx, op); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("queue for sync: %v", err))
	}

	s.state.ResetCycle()
	if err := s.saveState(ctx); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("persist state: %v", err))
	}
	return result, nil
}

// ClearHistory wipes the history, the sync queue and the application state
func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.historyRepo.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if err := s.queueRepo.Clear(ctx); err != nil {
		return fmt.Errorf("clear sync queue: %w", err)
	}
	s.state = state.NewState()
	if err := s.stateRepo.Reset(ctx); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	return nil
}

// appendToCurrent resolves the current operation by ID, applies the
// mutation and rewrites the history document.
func (s *Service) appendToCurrent(ctx context.Context, mutate func(*operation.Operation)) error {
	if err := s.state.RequireSavedOperation(); err != nil {
		return err
	}
	op, err := s.historyRepo.FindByID(ctx, s.state.CurrentOperationID)
	if err != nil {
		return fmt.Errorf("resolve current operation: %w", err)
	}
	mutate(op)
	if err := s.historyRepo.Update(ctx, op); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

func (s *Service) enqueue(ctx context.Context, op *operation.Operation) error {
	payload, err := json.Marshal(operation.ToDocument(op))
	if err != nil {
		return fmt.Errorf("marshal operation: %w", err)
	}
	return s.queueRepo.Enqueue(ctx, &repository.QueueItem{
		ID:          uuid.New().String(),
		OperationID: op.ID().String(),
		Payload:     payload,
		EnqueuedAt:  s.now(),
	})
}

func (s *Service) saveState(ctx context.Context) error {
	if err := s.stateRepo.Save(ctx, s.state); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// normalizeText trims and NFC-normalizes user-entered text so stored
// values compare consistently across input methods
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func normalizeFields(f operation.Fields) operation.Fields {
	f.Type = normalizeText(f.Type)
	f.City = normalizeText(f.City)
	f.WellService = normalizeText(f.WellService)
	f.OperatorName = normalizeText(f.OperatorName)
	f.Volume = normalizeText(f.Volume)
	f.Temperature = normalizeText(f.Temperature)
	f.Pressure = normalizeText(f.Pressure)
	f.Activities = normalizeText(f.Activities)
	return f
}
