package phase

import (
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/interval"
)

// Mobilization tracks the setup phase bracketing an operation.
// Preconditions (displacement completed) are checked by the caller,
// which owns the application state.
type Mobilization struct {
	iv *interval.Interval
}

// NewMobilization creates an idle mobilization tracker
func NewMobilization() *Mobilization {
	return &Mobilization{iv: interval.New()}
}

// ReconstructMobilization rebuilds a mobilization from stored data
func ReconstructMobilization(start, end *time.Time, duration *model.Minutes) *Mobilization {
	return &Mobilization{iv: interval.Reconstruct(start, end, duration)}
}

// Start opens the mobilization interval
func (m *Mobilization) Start(now time.Time) error {
	return m.iv.Start(now)
}

// End closes the mobilization interval
func (m *Mobilization) End(now time.Time) error {
	return m.iv.End(now)
}

// Abandon resets an active mobilization
func (m *Mobilization) Abandon() error {
	return m.iv.Abandon()
}

// Interval exposes the underlying interval read-only
func (m *Mobilization) Interval() *interval.Interval {
	return m.iv
}

// IsActive reports whether mobilization is in progress
func (m *Mobilization) IsActive() bool {
	return m.iv.IsActive()
}

// IsCompleted reports whether mobilization has closed
func (m *Mobilization) IsCompleted() bool {
	return m.iv.IsClosed()
}

// Demobilization tracks the teardown phase. It may only start once the
// current operation has been persisted; the caller enforces that.
type Demobilization struct {
	iv *interval.Interval
}

// NewDemobilization creates an idle demobilization tracker
func NewDemobilization() *Demobilization {
	return &Demobilization{iv: interval.New()}
}

// ReconstructDemobilization rebuilds a demobilization from stored data
func ReconstructDemobilization(start, end *time.Time, duration *model.Minutes) *Demobilization {
	return &Demobilization{iv: interval.Reconstruct(start, end, duration)}
}

// Start opens the demobilization interval
func (d *Demobilization) Start(now time.Time) error {
	return d.iv.Start(now)
}

// End closes the demobilization interval
func (d *Demobilization) End(now time.Time) error {
	return d.iv.End(now)
}

// Abandon resets an active demobilization
func (d *Demobilization) Abandon() error {
	return d.iv.Abandon()
}

// Interval exposes the underlying interval read-only
func (d *Demobilization) Interval() *interval.Interval {
	return d.iv
}

// IsActive reports whether demobilization is in progress
func (d *Demobilization) IsActive() bool {
	return d.iv.IsActive()
}

// IsCompleted reports whether demobilization has closed
func (d *Demobilization) IsCompleted() bool {
	return d.iv.IsClosed()
}
