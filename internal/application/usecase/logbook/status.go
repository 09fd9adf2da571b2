package logbook

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
)

// PhaseStatus describes one tracker for display
type PhaseStatus struct {
	Active    bool
	Completed bool
	StartedAt *time.Time
	Elapsed   model.Minutes
	Detail    string
}

// Status is a read-only snapshot of the whole application state,
// recomputed on demand. Producing it never mutates anything.
type Status struct {
	DraftStartedAt     *time.Time
	OperationSaved     bool
	CurrentOperationID string
	HistoryCount       int
	PendingSyncCount   int

	Displacement   PhaseStatus
	Mobilization   PhaseStatus
	Demobilization PhaseStatus
	Waiting        PhaseStatus
	Lunch          PhaseStatus
	Refueling      PhaseStatus
}

// Status reports the current state of every phase and the store counters
func (s *Service) Status(ctx context.Context) (*Status, error) {
	now := s.now()
	st := s.state

	count, err := s.historyRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count history: %w", err)
	}
	pending, err := s.queueRepo.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}

	status := &Status{
		DraftStartedAt:     st.DraftStartedAt,
		OperationSaved:     st.OperationSaved,
		CurrentOperationID: st.CurrentOperationID.String(),
		HistoryCount:       count,
		PendingSyncCount:   len(pending),
	}

	status.Displacement = PhaseStatus{
		Active:    st.Displacement.IsActive(),
		Completed: st.Displacement.IsCompleted(),
		StartedAt: st.Displacement.StartedAt(),
		Elapsed:   st.Displacement.Elapsed(now),
	}
	if st.Displacement.Origin() != "" {
		status.Displacement.Detail = st.Displacement.Origin() + " -> " + st.Displacement.Destination()
	}

	status.Mobilization = PhaseStatus{
		Active:    st.Mobilization.IsActive(),
		Completed: st.Mobilization.IsCompleted(),
		StartedAt: st.Mobilization.Interval().StartedAt(),
		Elapsed:   st.Mobilization.Interval().Elapsed(now),
	}
	status.Demobilization = PhaseStatus{
		Active:    st.Demobilization.IsActive(),
		Completed: st.Demobilization.IsCompleted(),
		StartedAt: st.Demobilization.Interval().StartedAt(),
		Elapsed:   st.Demobilization.Interval().Elapsed(now),
	}

	status.Waiting = PhaseStatus{
		Active:    st.Waiting.IsActive(),
		StartedAt: st.Waiting.StartedAt(),
		Elapsed:   st.Waiting.Elapsed(now),
	}
	if reasons := st.Waiting.Reasons(); len(reasons) > 0 {
		status.Waiting.Detail = reasons[len(reasons)-1].Text
	}

	status.Lunch = PhaseStatus{
		Active:    st.Lunch.IsActive(),
		StartedAt: st.Lunch.StartedAt(),
		Elapsed:   st.Lunch.Elapsed(now),
	}

	status.Refueling = PhaseStatus{
		Active:    st.Refueling.IsActive(),
		StartedAt: st.Refueling.StartedAt(),
		Elapsed:   st.Refueling.Elapsed(now),
	}
	if st.Refueling.IsActive() {
		status.Refueling.Detail = st.Refueling.FuelType().String()
	}

	return status, nil
}
