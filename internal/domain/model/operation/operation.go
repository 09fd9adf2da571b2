package operation

import (
	"errors"
	"strings"
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/interval"
	"github.com/fieldlog/fieldlog/internal/domain/model/phase"
)

var (
	// ErrMissingRequiredField is returned when type, city, well/service or
	// operator name is empty at save time
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrDemobilizationRecorded is returned when a demobilization is attached twice
	ErrDemobilizationRecorded = errors.New("demobilization already recorded")

	// ErrIntervalOpen is returned when attaching an interval that has not closed
	ErrIntervalOpen = errors.New("interval not closed")
)

// Fields carries the form fields of an operation. Type, City, WellService
// and OperatorName are required; the rest are optional free-form values.
type Fields struct {
	Type         string
	City         string
	WellService  string
	OperatorName string
	Volume       string
	Temperature  string
	Pressure     string
	Activities   string
}

// Validate checks that all required fields are present
func (f Fields) Validate() error {
	for _, v := range []string{f.Type, f.City, f.WellService, f.OperatorName} {
		if strings.TrimSpace(v) == "" {
			return ErrMissingRequiredField
		}
	}
	return nil
}

// Operation is one full field job cycle: the saved form fields, the
// displacement snapshot, mobilization/demobilization intervals and the
// growable sub-event collections with their running totals.
type Operation struct {
	id        model.OperationID
	startedAt time.Time
	endedAt   time.Time
	fields    Fields

	displacement   *phase.DisplacementSnapshot
	mobilization   *interval.Interval
	demobilization *interval.Interval

	waitingPeriods []phase.WaitingPeriod
	lunchBreaks    []phase.LunchBreak
	refuelings     []phase.RefuelingEvent

	// Running totals, incremented additively at append time.
	// nil until the first sub-event of that kind closes.
	totalWaiting   *model.Minutes
	totalLunch     *model.Minutes
	totalRefueling *model.Minutes
}

// New creates a freshly saved operation. Required fields are validated;
// displacement and mobilization may be absent.
func New(
	id model.OperationID,
	startedAt time.Time,
	endedAt time.Time,
	fields Fields,
	displacement *phase.DisplacementSnapshot,
	mobilization *interval.Interval,
) (*Operation, error) {
	if id.IsZero() {
		return nil, errors.New("operation ID cannot be empty")
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	return &Operation{
		id:           id,
		startedAt:    startedAt,
		endedAt:      endedAt,
		fields:       fields,
		displacement: displacement,
		mobilization: mobilization,
	}, nil
}

// Reconstruct rebuilds an operation from stored data without validation.
// Stored records predate the current rules and must still load.
func Reconstruct(
	id model.OperationID,
	startedAt time.Time,
	endedAt time.Time,
	fields Fields,
	displacement *phase.DisplacementSnapshot,
	mobilization *interval.Interval,
	demobilization *interval.Interval,
	waitingPeriods []phase.WaitingPeriod,
	lunchBreaks []phase.LunchBreak,
	refuelings []phase.RefuelingEvent,
	totalWaiting *model.Minutes,
	totalLunch *model.Minutes,
	totalRefueling *model.Minutes,
) *Operation {
	return &Operation{
		id:             id,
		startedAt:      startedAt,
		endedAt:        endedAt,
		fields:         fields,
		displacement:   displacement,
		mobilization:   mobilization,
		demobilization: demobilization,
		waitingPeriods: waitingPeriods,
		lunchBreaks:    lunchBreaks,
		refuelings:     refuelings,
		totalWaiting:   totalWaiting,
		totalLunch:     totalLunch,
		totalRefueling: totalRefueling,
	}
}

// ID returns the operation ID
func (o *Operation) ID() model.OperationID {
	return o.id
}

// StartedAt returns when the operation was started
func (o *Operation) StartedAt() time.Time {
	return o.startedAt
}

// EndedAt returns when the operation was saved
func (o *Operation) EndedAt() time.Time {
	return o.endedAt
}

// Fields returns the saved form fields
func (o *Operation) Fields() Fields {
	return o.fields
}

// Displacement returns the displacement snapshot, or nil when absent
func (o *Operation) Displacement() *phase.DisplacementSnapshot {
	return o.displacement
}

// Mobilization returns the mobilization interval, or nil when absent
func (o *Operation) Mobilization() *interval.Interval {
	return o.mobilization
}

// Demobilization returns the demobilization interval, or nil when absent
func (o *Operation) Demobilization() *interval.Interval {
	return o.demobilization
}

// AttachDemobilization records the closed demobilization interval.
// An operation demobilizes exactly once.
func (o *Operation) AttachDemobilization(iv *interval.Interval) error {
	if o.demobilization != nil {
		return ErrDemobilizationRecorded
	}
	if iv == nil || !iv.IsClosed() {
		return ErrIntervalOpen
	}
	o.demobilization = iv
	return nil
}

// AppendWaitingPeriod adds a closed waiting period and bumps the running total
func (o *Operation) AppendWaitingPeriod(p phase.WaitingPeriod) {
	o.waitingPeriods = append(o.waitingPeriods, p)
	o.totalWaiting = addMinutes(o.totalWaiting, p.Duration)
}

// AppendLunchBreak adds a closed lunch break and bumps the running total
func (o *Operation) AppendLunchBreak(l phase.LunchBreak) {
	o.lunchBreaks = append(o.lunchBreaks, l)
	o.totalLunch = addMinutes(o.totalLunch, l.Duration)
}

// AppendRefueling adds a closed refueling event and bumps the running total
func (o *Operation) AppendRefueling(r phase.RefuelingEvent) {
	o.refuelings = append(o.refuelings, r)
	o.totalRefueling = addMinutes(o.totalRefueling, r.Duration)
}

// WaitingPeriods returns the recorded waiting periods
func (o *Operation) WaitingPeriods() []phase.WaitingPeriod {
	return o.waitingPeriods
}

// LunchBreaks returns the recorded lunch breaks
func (o *Operation) LunchBreaks() []phase.LunchBreak {
	return o.lunchBreaks
}

// Refuelings returns the recorded refueling events
func (o *Operation) Refuelings() []phase.RefuelingEvent {
	return o.refuelings
}

// TotalWaiting returns the running waiting total, nil before the first period
func (o *Operation) TotalWaiting() *model.Minutes {
	return o.totalWaiting
}

// TotalLunch returns the running lunch total, nil before the first break
func (o *Operation) TotalLunch() *model.Minutes {
	return o.totalLunch
}

// TotalRefueling returns the running refueling total, nil before the first event
func (o *Operation) TotalRefueling() *model.Minutes {
	return o.totalRefueling
}

// TotalOperationMinutes is mobilization + demobilization duration.
// Defined only when both intervals are present and closed; nil otherwise,
// never zero.
func (o *Operation) TotalOperationMinutes() *model.Minutes {
	if o.mobilization == nil || !o.mobilization.IsClosed() {
		return nil
	}
	if o.demobilization == nil || !o.demobilization.IsClosed() {
		return nil
	}
	total := *o.mobilization.Duration() + *o.demobilization.Duration()
	return &total
}

func addMinutes(total *model.Minutes, d model.Minutes) *model.Minutes {
	if total == nil {
		return &d
	}
	sum := *total + d
	return &sum
}
