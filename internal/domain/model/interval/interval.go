package interval

import (
	"errors"
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
)

var (
	// ErrAlreadyStarted is returned when starting an interval that is already in progress
	ErrAlreadyStarted = errors.New("already in progress")

	// ErrNotStarted is returned when ending or abandoning an interval that was never started
	ErrNotStarted = errors.New("not started")

	// ErrEndBeforeStart is returned when the end timestamp precedes the start timestamp.
	// The interval stays open so the caller can retry with a sane clock.
	ErrEndBeforeStart = errors.New("end before start")

	// ErrAlreadyClosed is returned for any transition attempted on a closed interval
	ErrAlreadyClosed = errors.New("already closed")
)

// Interval is a start/end timestamp pair with a cached duration.
// The duration is computed exactly once, at close time, and never re-derived.
type Interval struct {
	state    model.PhaseState
	start    *time.Time
	end      *time.Time
	duration *model.Minutes
}

// New creates an idle interval
func New() *Interval {
	return &Interval{state: model.PhaseIdle}
}

// Reconstruct rebuilds an interval from stored data.
// The state is derived from which timestamps are present.
func Reconstruct(start, end *time.Time, duration *model.Minutes) *Interval {
	iv := &Interval{start: start, end: end, duration: duration}
	switch {
	case end != nil:
		iv.state = model.PhaseClosed
	case start != nil:
		iv.state = model.PhaseActive
	default:
		iv.state = model.PhaseIdle
	}
	return iv
}

// Start opens the interval at the given time
func (iv *Interval) Start(now time.Time) error {
	if iv.state == model.PhaseClosed {
		return ErrAlreadyClosed
	}
	if !iv.state.CanTransitionTo(model.PhaseActive) {
		return ErrAlreadyStarted
	}
	t := now
	iv.start = &t
	iv.state = model.PhaseActive
	return nil
}

// End closes the interval at the given time and caches the duration.
// An end timestamp earlier than the start is rejected and the interval
// remains active.
func (iv *Interval) End(now time.Time) error {
	if iv.state == model.PhaseClosed {
		return ErrAlreadyClosed
	}
	if iv.state != model.PhaseActive || iv.start == nil {
		return ErrNotStarted
	}
	if now.Before(*iv.start) {
		return ErrEndBeforeStart
	}
	t := now
	iv.end = &t
	d := model.MinutesBetween(*iv.start, now)
	iv.duration = &d
	iv.state = model.PhaseClosed
	return nil
}

// Abandon resets an active interval back to idle without closing it.
// Nothing is persisted; the interval can be started again.
func (iv *Interval) Abandon() error {
	if iv.state == model.PhaseClosed {
		return ErrAlreadyClosed
	}
	if iv.state != model.PhaseActive {
		return ErrNotStarted
	}
	iv.start = nil
	iv.end = nil
	iv.duration = nil
	iv.state = model.PhaseIdle
	return nil
}

// State returns the current lifecycle state
func (iv *Interval) State() model.PhaseState {
	return iv.state
}

// IsActive reports whether the interval is open
func (iv *Interval) IsActive() bool {
	return iv.state == model.PhaseActive
}

// IsClosed reports whether the interval has been closed
func (iv *Interval) IsClosed() bool {
	return iv.state == model.PhaseClosed
}

// StartedAt returns the start timestamp, or nil when idle
func (iv *Interval) StartedAt() *time.Time {
	return iv.start
}

// EndedAt returns the end timestamp, or nil until closed
func (iv *Interval) EndedAt() *time.Time {
	return iv.end
}

// Duration returns the cached duration, or nil until closed
func (iv *Interval) Duration() *model.Minutes {
	return iv.duration
}

// Elapsed computes the minutes elapsed so far for display purposes.
// It never mutates the interval; closed intervals report the cached duration.
func (iv *Interval) Elapsed(now time.Time) model.Minutes {
	switch {
	case iv.duration != nil:
		return *iv.duration
	case iv.start != nil:
		return model.MinutesBetween(*iv.start, now)
	default:
		return 0
	}
}
