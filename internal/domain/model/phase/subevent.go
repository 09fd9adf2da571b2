package phase

import (
	"errors"
	"strings"
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/interval"
)

var (
	// ErrMissingReason is returned when a waiting period starts without a reason
	ErrMissingReason = errors.New("missing waiting reason")

	// ErrInvalidFuelType is returned when a refueling starts with an unknown fuel type
	ErrInvalidFuelType = errors.New("invalid fuel type")
)

// Reason is one timestamped note attached to a waiting period
type Reason struct {
	At   time.Time
	Text string
}

// WaitingPeriod is a closed idle-time record. Immutable once produced.
type WaitingPeriod struct {
	StartedAt time.Time
	EndedAt   time.Time
	Duration  model.Minutes
	Reasons   []Reason
}

// LunchBreak is a closed lunch record. Immutable once produced.
type LunchBreak struct {
	StartedAt time.Time
	EndedAt   time.Time
	Duration  model.Minutes
}

// RefuelingEvent is a closed refueling record. Immutable once produced.
type RefuelingEvent struct {
	StartedAt time.Time
	EndedAt   time.Time
	Duration  model.Minutes
	FuelType  model.FuelType
}

// Waiting tracks one idle period. A reason is required at start; more
// reasons may be noted while the period is open. A repeat period is a
// new Waiting tracker, never a reopened one.
type Waiting struct {
	iv      *interval.Interval
	reasons []Reason
}

// NewWaiting creates an idle waiting tracker
func NewWaiting() *Waiting {
	return &Waiting{iv: interval.New()}
}

// ReconstructWaiting rebuilds an in-progress waiting tracker from stored state
func ReconstructWaiting(startedAt *time.Time, reasons []Reason) *Waiting {
	return &Waiting{iv: interval.Reconstruct(startedAt, nil, nil), reasons: reasons}
}

// Start opens the waiting period with its initial reason
func (w *Waiting) Start(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrMissingReason
	}
	if err := w.iv.Start(now); err != nil {
		return err
	}
	w.reasons = append(w.reasons, Reason{At: now, Text: reason})
	return nil
}

// AddReason appends a note to the open waiting period
func (w *Waiting) AddReason(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrMissingReason
	}
	if !w.iv.IsActive() {
		return interval.ErrNotStarted
	}
	w.reasons = append(w.reasons, Reason{At: now, Text: text})
	return nil
}

// End closes the waiting period and produces its record
func (w *Waiting) End(now time.Time) (*WaitingPeriod, error) {
	if err := w.iv.End(now); err != nil {
		return nil, err
	}
	return &WaitingPeriod{
		StartedAt: *w.iv.StartedAt(),
		EndedAt:   *w.iv.EndedAt(),
		Duration:  *w.iv.Duration(),
		Reasons:   w.reasons,
	}, nil
}

// Abandon resets an active waiting period, dropping its reasons
func (w *Waiting) Abandon() error {
	if err := w.iv.Abandon(); err != nil {
		return err
	}
	w.reasons = nil
	return nil
}

// Reasons returns the reasons recorded so far
func (w *Waiting) Reasons() []Reason {
	return w.reasons
}

// IsActive reports whether a waiting period is open
func (w *Waiting) IsActive() bool {
	return w.iv.IsActive()
}

// StartedAt returns when the waiting period started, or nil when idle
func (w *Waiting) StartedAt() *time.Time {
	return w.iv.StartedAt()
}

// Elapsed reports the waiting minutes so far for display
func (w *Waiting) Elapsed(now time.Time) model.Minutes {
	return w.iv.Elapsed(now)
}

// Lunch tracks one lunch break
type Lunch struct {
	iv *interval.Interval
}

// NewLunch creates an idle lunch tracker
func NewLunch() *Lunch {
	return &Lunch{iv: interval.New()}
}

// ReconstructLunch rebuilds an in-progress lunch tracker from stored state
func ReconstructLunch(startedAt *time.Time) *Lunch {
	return &Lunch{iv: interval.Reconstruct(startedAt, nil, nil)}
}

// Start opens the lunch break
func (l *Lunch) Start(now time.Time) error {
	return l.iv.Start(now)
}

// End closes the lunch break and produces its record
func (l *Lunch) End(now time.Time) (*LunchBreak, error) {
	if err := l.iv.End(now); err != nil {
		return nil, err
	}
	return &LunchBreak{
		StartedAt: *l.iv.StartedAt(),
		EndedAt:   *l.iv.EndedAt(),
		Duration:  *l.iv.Duration(),
	}, nil
}

// Abandon resets an active lunch break
func (l *Lunch) Abandon() error {
	return l.iv.Abandon()
}

// IsActive reports whether a lunch break is open
func (l *Lunch) IsActive() bool {
	return l.iv.IsActive()
}

// StartedAt returns when the lunch break started, or nil when idle
func (l *Lunch) StartedAt() *time.Time {
	return l.iv.StartedAt()
}

// Elapsed reports the lunch minutes so far for display
func (l *Lunch) Elapsed(now time.Time) model.Minutes {
	return l.iv.Elapsed(now)
}

// Refueling tracks one refueling stop of a fixed fuel type
type Refueling struct {
	iv       *interval.Interval
	fuelType model.FuelType
}

// NewRefueling creates an idle refueling tracker
func NewRefueling() *Refueling {
	return &Refueling{iv: interval.New()}
}

// ReconstructRefueling rebuilds an in-progress refueling tracker from stored state
func ReconstructRefueling(startedAt *time.Time, fuelType model.FuelType) *Refueling {
	return &Refueling{iv: interval.Reconstruct(startedAt, nil, nil), fuelType: fuelType}
}

// Start opens the refueling stop for the given fuel type
func (r *Refueling) Start(fuelType model.FuelType, now time.Time) error {
	if !fuelType.IsValid() {
		return ErrInvalidFuelType
	}
	if err := r.iv.Start(now); err != nil {
		return err
	}
	r.fuelType = fuelType
	return nil
}

// End closes the refueling stop and produces its record
func (r *Refueling) End(now time.Time) (*RefuelingEvent, error) {
	if err := r.iv.End(now); err != nil {
		return nil, err
	}
	return &RefuelingEvent{
		StartedAt: *r.iv.StartedAt(),
		EndedAt:   *r.iv.EndedAt(),
		Duration:  *r.iv.Duration(),
		FuelType:  r.fuelType,
	}, nil
}

// Abandon resets an active refueling stop
func (r *Refueling) Abandon() error {
	return r.iv.Abandon()
}

// FuelType returns the selected fuel type
func (r *Refueling) FuelType() model.FuelType {
	return r.fuelType
}

// IsActive reports whether a refueling stop is open
func (r *Refueling) IsActive() bool {
	return r.iv.IsActive()
}

// StartedAt returns when the refueling stop started, or nil when idle
func (r *Refueling) StartedAt() *time.Time {
	return r.iv.StartedAt()
}

// Elapsed reports the refueling minutes so far for display
func (r *Refueling) Elapsed(now time.Time) model.Minutes {
	return r.iv.Elapsed(now)
}
