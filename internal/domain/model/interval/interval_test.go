package interval

import (
	"errors"
	"testing"
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
)

func TestIntervalLifecycle(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(25 * time.Minute)

	iv := New()
	if iv.State() != model.PhaseIdle {
		t.Fatalf("new interval state = %v, want IDLE", iv.State())
	}

	if err := iv.Start(start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !iv.IsActive() {
		t.Error("interval should be active after Start()")
	}

	if err := iv.End(end); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if !iv.IsClosed() {
		t.Error("interval should be closed after End()")
	}
	if got := *iv.Duration(); got != 25 {
		t.Errorf("Duration() = %v, want 25", got)
	}
}

func TestIntervalDurationCachedAtClose(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)

	iv := New()
	if err := iv.Start(start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := iv.End(end); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	before := *iv.Duration()
	// Elapsed after close must keep reporting the cached value
	if got := iv.Elapsed(end.Add(2 * time.Hour)); got != before {
		t.Errorf("Elapsed() after close = %v, want cached %v", got, before)
	}
}

func TestIntervalStartTwice(t *testing.T) {
	now := time.Now()
	iv := New()
	if err := iv.Start(now); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := iv.Start(now.Add(time.Minute)); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestIntervalEndWithoutStart(t *testing.T) {
	iv := New()
	if err := iv.End(time.Now()); !errors.Is(err, ErrNotStarted) {
		t.Errorf("End() error = %v, want ErrNotStarted", err)
	}
}

func TestIntervalEndBeforeStart(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	iv := New()
	if err := iv.Start(start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	err := iv.End(start.Add(-time.Minute))
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("End() error = %v, want ErrEndBeforeStart", err)
	}

	// Rejection must leave the interval open
	if !iv.IsActive() {
		t.Error("interval should remain active after rejected End()")
	}
	if iv.Duration() != nil {
		t.Error("duration should not be set after rejected End()")
	}

	// A sane end time must still close it
	if err := iv.End(start.Add(time.Minute)); err != nil {
		t.Errorf("End() after rejection error = %v", err)
	}
}

func TestIntervalNoReopen(t *testing.T) {
	now := time.Now()
	iv := New()
	if err := iv.Start(now); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := iv.End(now.Add(time.Minute)); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	if err := iv.Start(now.Add(2 * time.Minute)); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Start() on closed interval error = %v, want ErrAlreadyClosed", err)
	}
	if err := iv.End(now.Add(2 * time.Minute)); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("End() on closed interval error = %v, want ErrAlreadyClosed", err)
	}
}

func TestIntervalAbandon(t *testing.T) {
	now := time.Now()
	iv := New()

	if err := iv.Abandon(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Abandon() on idle interval error = %v, want ErrNotStarted", err)
	}

	if err := iv.Start(now); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := iv.Abandon(); err != nil {
		t.Fatalf("Abandon() error = %v", err)
	}
	if iv.State() != model.PhaseIdle {
		t.Errorf("state after Abandon() = %v, want IDLE", iv.State())
	}
	if iv.StartedAt() != nil {
		t.Error("start timestamp should be cleared after Abandon()")
	}

	// Abandoned interval can start again
	if err := iv.Start(now.Add(time.Minute)); err != nil {
		t.Errorf("Start() after Abandon() error = %v", err)
	}
}

func TestReconstruct(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)
	dur := model.Minutes(10)

	tests := []struct {
		name      string
		start     *time.Time
		end       *time.Time
		duration  *model.Minutes
		wantState model.PhaseState
	}{
		{name: "Closed", start: &start, end: &end, duration: &dur, wantState: model.PhaseClosed},
		{name: "Active", start: &start, wantState: model.PhaseActive},
		{name: "Idle", wantState: model.PhaseIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := Reconstruct(tt.start, tt.end, tt.duration)
			if iv.State() != tt.wantState {
				t.Errorf("Reconstruct() state = %v, want %v", iv.State(), tt.wantState)
			}
		})
	}
}

func TestElapsedWhileActive(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	iv := New()
	if err := iv.Start(start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := iv.Elapsed(start.Add(30 * time.Minute)); got != 30 {
		t.Errorf("Elapsed() = %v, want 30", got)
	}
}
