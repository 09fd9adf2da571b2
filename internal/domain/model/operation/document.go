package operation

import (
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/interval"
	"github.com/fieldlog/fieldlog/internal/domain/model/phase"
)

// Document is the canonical wire shape of one operation: the item stored
// in the history document and the payload pushed to the remote mirror.
// Every optional duration is a pointer so that an absent value
// round-trips as null, never as zero or a missing key.
type Document struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	Type        string `json:"type"`
	City        string `json:"city"`
	WellService string `json:"wellService"`
	Operator    string `json:"operator"`
	Volume      string `json:"volume,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	Pressure    string `json:"pressure,omitempty"`
	Activities  string `json:"activities,omitempty"`

	Origin                string     `json:"origin,omitempty"`
	Destination           string     `json:"destination,omitempty"`
	StartKm               *float64   `json:"startKm"`
	EndKm                 *float64   `json:"endKm"`
	DistanceKm            *float64   `json:"distanceKm"`
	DisplacementStartTime *time.Time `json:"displacementStartTime"`
	DisplacementEndTime   *time.Time `json:"displacementEndTime"`
	DisplacementDuration  *float64   `json:"displacementDuration"`

	MobilizationStartTime   *time.Time `json:"mobilizationStartTime"`
	MobilizationEndTime     *time.Time `json:"mobilizationEndTime"`
	MobilizationDuration    *float64   `json:"mobilizationDuration"`
	DemobilizationStartTime *time.Time `json:"demobilizationStartTime"`
	DemobilizationEndTime   *time.Time `json:"demobilizationEndTime"`
	DemobilizationDuration  *float64   `json:"demobilizationDuration"`

	WaitingPeriods []WaitingPeriodDoc `json:"waitingPeriods,omitempty"`
	LunchBreaks    []LunchBreakDoc    `json:"lunchBreaks,omitempty"`
	Refuelings     []RefuelingDoc     `json:"refuelings,omitempty"`

	TotalWaitingTime   *float64 `json:"totalWaitingTime"`
	TotalLunchTime     *float64 `json:"totalLunchTime"`
	TotalRefuelingTime *float64 `json:"totalRefuelingTime"`
}

// WaitingPeriodDoc is the wire shape of one waiting period
type WaitingPeriodDoc struct {
	StartTime time.Time   `json:"startTime"`
	EndTime   time.Time   `json:"endTime"`
	Duration  float64     `json:"duration"`
	Reasons   []ReasonDoc `json:"reasons,omitempty"`
}

// ReasonDoc is the wire shape of one waiting reason
type ReasonDoc struct {
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
}

// LunchBreakDoc is the wire shape of one lunch break
type LunchBreakDoc struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Duration  float64   `json:"duration"`
}

// RefuelingDoc is the wire shape of one refueling event
type RefuelingDoc struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Duration  float64   `json:"duration"`
	FuelType  string    `json:"fuelType"`
}

// ToDocument converts an operation to its wire shape
func ToDocument(op *Operation) Document {
	doc := Document{
		ID:          op.ID().String(),
		StartTime:   op.StartedAt(),
		EndTime:     op.EndedAt(),
		Type:        op.Fields().Type,
		City:        op.Fields().City,
		WellService: op.Fields().WellService,
		Operator:    op.Fields().OperatorName,
		Volume:      op.Fields().Volume,
		Temperature: op.Fields().Temperature,
		Pressure:    op.Fields().Pressure,
		Activities:  op.Fields().Activities,
	}

	if snap := op.Displacement(); snap != nil {
		doc.Origin = snap.Origin
		doc.Destination = snap.Destination
		doc.StartKm = floatPtr(snap.StartKm)
		doc.EndKm = floatPtr(snap.EndKm)
		doc.DistanceKm = floatPtr(snap.DistanceKm)
		doc.DisplacementStartTime = timePtr(snap.StartedAt)
		doc.DisplacementEndTime = timePtr(snap.EndedAt)
		doc.DisplacementDuration = minutesPtr(&snap.Duration)
	}

	if iv := op.Mobilization(); iv != nil {
		doc.MobilizationStartTime = iv.StartedAt()
		doc.MobilizationEndTime = iv.EndedAt()
		doc.MobilizationDuration = minutesPtr(iv.Duration())
	}
	if iv := op.Demobilization(); iv != nil {
		doc.DemobilizationStartTime = iv.StartedAt()
		doc.DemobilizationEndTime = iv.EndedAt()
		doc.DemobilizationDuration = minutesPtr(iv.Duration())
	}

	for _, p := range op.WaitingPeriods() {
		wp := WaitingPeriodDoc{
			StartTime: p.StartedAt,
			EndTime:   p.EndedAt,
			Duration:  p.Duration.Float(),
		}
		for _, r := range p.Reasons {
			wp.Reasons = append(wp.Reasons, ReasonDoc{Timestamp: r.At, Reason: r.Text})
		}
		doc.WaitingPeriods = append(doc.WaitingPeriods, wp)
	}
	for _, l := range op.LunchBreaks() {
		doc.LunchBreaks = append(doc.LunchBreaks, LunchBreakDoc{
			StartTime: l.StartedAt,
			EndTime:   l.EndedAt,
			Duration:  l.Duration.Float(),
		})
	}
	for _, r := range op.Refuelings() {
		doc.Refuelings = append(doc.Refuelings, RefuelingDoc{
			StartTime: r.StartedAt,
			EndTime:   r.EndedAt,
			Duration:  r.Duration.Float(),
			FuelType:  r.FuelType.String(),
		})
	}

	doc.TotalWaitingTime = minutesPtr(op.TotalWaiting())
	doc.TotalLunchTime = minutesPtr(op.TotalLunch())
	doc.TotalRefuelingTime = minutesPtr(op.TotalRefueling())
	return doc
}

// FromDocument rebuilds an operation from its wire shape. The document is
// expected to be normalized already (non-empty ID, durations number|null).
func FromDocument(doc Document) (*Operation, error) {
	id, err := model.NewOperationIDFromString(doc.ID)
	if err != nil {
		return nil, err
	}

	fields := Fields{
		Type:         doc.Type,
		City:         doc.City,
		WellService:  doc.WellService,
		OperatorName: doc.Operator,
		Volume:       doc.Volume,
		Temperature:  doc.Temperature,
		Pressure:     doc.Pressure,
		Activities:   doc.Activities,
	}

	var snap *phase.DisplacementSnapshot
	if doc.DistanceKm != nil && doc.DisplacementStartTime != nil && doc.DisplacementEndTime != nil {
		snap = &phase.DisplacementSnapshot{
			Origin:      doc.Origin,
			Destination: doc.Destination,
			StartKm:     floatOrZero(doc.StartKm),
			EndKm:       floatOrZero(doc.EndKm),
			DistanceKm:  *doc.DistanceKm,
			StartedAt:   *doc.DisplacementStartTime,
			EndedAt:     *doc.DisplacementEndTime,
			Duration:    model.Minutes(floatOrZero(doc.DisplacementDuration)),
		}
	}

	var mob *interval.Interval
	if doc.MobilizationStartTime != nil {
		mob = interval.Reconstruct(doc.MobilizationStartTime, doc.MobilizationEndTime, toMinutes(doc.MobilizationDuration))
	}
	var demob *interval.Interval
	if doc.DemobilizationStartTime != nil {
		demob = interval.Reconstruct(doc.DemobilizationStartTime, doc.DemobilizationEndTime, toMinutes(doc.DemobilizationDuration))
	}

	var waiting []phase.WaitingPeriod
	for _, wp := range doc.WaitingPeriods {
		p := phase.WaitingPeriod{
			StartedAt: wp.StartTime,
			EndedAt:   wp.EndTime,
			Duration:  model.Minutes(wp.Duration),
		}
		for _, r := range wp.Reasons {
			p.Reasons = append(p.Reasons, phase.Reason{At: r.Timestamp, Text: r.Reason})
		}
		waiting = append(waiting, p)
	}
	var lunches []phase.LunchBreak
	for _, l := range doc.LunchBreaks {
		lunches = append(lunches, phase.LunchBreak{
			StartedAt: l.StartTime,
			EndedAt:   l.EndTime,
			Duration:  model.Minutes(l.Duration),
		})
	}
	var refuelings []phase.RefuelingEvent
	for _, r := range doc.Refuelings {
		refuelings = append(refuelings, phase.RefuelingEvent{
			StartedAt: r.StartTime,
			EndedAt:   r.EndTime,
			Duration:  model.Minutes(r.Duration),
			FuelType:  model.FuelType(r.FuelType),
		})
	}

	return Reconstruct(
		id, doc.StartTime, doc.EndTime, fields,
		snap, mob, demob,
		waiting, lunches, refuelings,
		toMinutes(doc.TotalWaitingTime),
		toMinutes(doc.TotalLunchTime),
		toMinutes(doc.TotalRefuelingTime),
	), nil
}

func floatPtr(f float64) *float64 {
	return &f
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func minutesPtr(m *model.Minutes) *float64 {
	if m == nil {
		return nil
	}
	f := m.Float()
	return &f
}

func toMinutes(f *float64) *model.Minutes {
	if f == nil {
		return nil
	}
	m := model.Minutes(*f)
	return &m
}
