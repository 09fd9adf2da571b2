package phase

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/interval"
)

var (
	// ErrMissingField is returned when a required displacement field is empty
	ErrMissingField = errors.New("missing required field")

	// ErrMissingEndKm is returned when the end odometer reading is absent
	ErrMissingEndKm = errors.New("missing end km")

	// ErrInvalidKm is returned when an odometer reading is not numeric
	ErrInvalidKm = errors.New("invalid km value")

	// ErrKmRegression is returned when the end reading is lower than the start
	// reading. The displacement stays open so the reading can be corrected.
	ErrKmRegression = errors.New("end km less than start km")
)

// DisplacementSnapshot is the closed displacement record copied into
// whichever operation is later saved. Immutable once produced.
type DisplacementSnapshot struct {
	Origin      string
	Destination string
	StartKm     float64
	EndKm       float64
	DistanceKm  float64
	StartedAt   time.Time
	EndedAt     time.Time
	Duration    model.Minutes
}

// Displacement tracks one travel leg: origin/destination, odometer
// readings and the travel interval.
type Displacement struct {
	origin      string
	destination string
	startKm     float64
	iv          *interval.Interval
	snapshot    *DisplacementSnapshot
}

// NewDisplacement creates an idle displacement tracker
func NewDisplacement() *Displacement {
	return &Displacement{iv: interval.New()}
}

// ReconstructDisplacement rebuilds a tracker from stored state. A stored
// snapshot means the displacement already completed; otherwise a start
// timestamp means it is still in progress.
func ReconstructDisplacement(origin, destination string, startKm float64, startedAt *time.Time, snapshot *DisplacementSnapshot) *Displacement {
	d := &Displacement{
		origin:      origin,
		destination: destination,
		startKm:     startKm,
		snapshot:    snapshot,
	}
	if snapshot != nil {
		d.iv = interval.Reconstruct(&snapshot.StartedAt, &snapshot.EndedAt, &snapshot.Duration)
	} else {
		d.iv = interval.Reconstruct(startedAt, nil, nil)
	}
	return d
}

// Start opens the displacement. Origin, destination and the start
// odometer reading are all required.
func (d *Displacement) Start(origin, destination, startKm string, now time.Time) error {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	startKm = strings.TrimSpace(startKm)
	if origin == "" || destination == "" || startKm == "" {
		return ErrMissingField
	}

	km, err := strconv.ParseFloat(startKm, 64)
	if err != nil {
		return ErrInvalidKm
	}

	if err := d.iv.Start(now); err != nil {
		return err
	}
	d.origin = origin
	d.destination = destination
	d.startKm = km
	return nil
}

// End closes the displacement and produces the snapshot. A negative
// distance is rejected and the displacement remains open.
func (d *Displacement) End(endKm string, now time.Time) (*DisplacementSnapshot, error) {
	endKm = strings.TrimSpace(endKm)
	if endKm == "" {
		return nil, ErrMissingEndKm
	}

	km, err := strconv.ParseFloat(endKm, 64)
	if err != nil {
		return nil, ErrInvalidKm
	}

	if !d.iv.IsActive() {
		return nil, interval.ErrNotStarted
	}

	distance := km - d.startKm
	if distance < 0 {
		return nil, ErrKmRegression
	}

	if err := d.iv.End(now); err != nil {
		return nil, err
	}

	d.snapshot = &DisplacementSnapshot{
		Origin:      d.origin,
		Destination: d.destination,
		StartKm:     d.startKm,
		EndKm:       km,
		DistanceKm:  distance,
		StartedAt:   *d.iv.StartedAt(),
		EndedAt:     *d.iv.EndedAt(),
		Duration:    *d.iv.Duration(),
	}
	return d.snapshot, nil
}

// Abandon resets an active displacement without producing a snapshot
func (d *Displacement) Abandon() error {
	return d.iv.Abandon()
}

// Snapshot returns the closed snapshot, or nil until the displacement ends
func (d *Displacement) Snapshot() *DisplacementSnapshot {
	return d.snapshot
}

// IsActive reports whether a displacement is in progress
func (d *Displacement) IsActive() bool {
	return d.iv.IsActive()
}

// IsCompleted reports whether the displacement has closed
func (d *Displacement) IsCompleted() bool {
	return d.iv.IsClosed()
}

// Origin returns the configured origin
func (d *Displacement) Origin() string {
	return d.origin
}

// Destination returns the configured destination
func (d *Displacement) Destination() string {
	return d.destination
}

// StartKm returns the start odometer reading
func (d *Displacement) StartKm() float64 {
	return d.startKm
}

// StartedAt returns when the displacement started, or nil when idle
func (d *Displacement) StartedAt() *time.Time {
	return d.iv.StartedAt()
}

// Elapsed reports the travel minutes so far for display
func (d *Displacement) Elapsed(now time.Time) model.Minutes {
	return d.iv.Elapsed(now)
}
