package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/interval"
	state "github.com/fieldlog/fieldlog/internal/domain/model/logbook"
	"github.com/fieldlog/fieldlog/internal/domain/model/phase"
	"github.com/fieldlog/fieldlog/internal/infra/persistence/file"
)

// stateDoc is the persisted shape of the application state. Absent
// trackers serialize as null so idle and in-progress are unambiguous.
type stateDoc struct {
	DraftStartedAt *time.Time `json:"draftStartedAt"`

	Displacement   *displacementDoc `json:"displacement"`
	Mobilization   *intervalDoc     `json:"mobilization"`
	Demobilization *intervalDoc     `json:"demobilization"`
	Waiting        *waitingDoc      `json:"waiting"`
	Lunch          *lunchDoc        `json:"lunch"`
	Refueling      *refuelingDoc    `json:"refueling"`

	CurrentOperationID string `json:"currentOperationId"`
	OperationSaved     bool   `json:"operationSaved"`
}

type displacementDoc struct {
	Origin      string           `json:"origin"`
	Destination string           `json:"destination"`
	StartKm     float64          `json:"startKm"`
	StartedAt   *time.Time       `json:"startedAt"`
	Snapshot    *displacementEnd `json:"snapshot"`
}

type displacementEnd struct {
	EndKm      float64   `json:"endKm"`
	DistanceKm float64   `json:"distanceKm"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt"`
	Duration   float64   `json:"duration"`
}

type intervalDoc struct {
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Duration  *float64   `json:"duration"`
}

type waitingDoc struct {
	StartedAt *time.Time  `json:"startedAt"`
	Reasons   []reasonDoc `json:"reasons,omitempty"`
}

type reasonDoc struct {
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
}

type lunchDoc struct {
	StartedAt *time.Time `json:"startedAt"`
}

type refuelingDoc struct {
	StartedAt *time.Time `json:"startedAt"`
	FuelType  string     `json:"fuelType"`
}

// StateRepositoryImpl persists the tracker state between invocations
// as one JSON file, rewritten in full on every save.
type StateRepositoryImpl struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewStateRepositoryImpl creates a file-based state repository
func NewStateRepositoryImpl(fs afero.Fs, path string) *StateRepositoryImpl {
	return &StateRepositoryImpl{fs: fs, path: path}
}

// Load reads the stored state. A missing file yields a fresh state.
func (r *StateRepositoryImpl) Load(ctx context.Context) (*state.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state.NewState(), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return fromStateDoc(doc)
}

// Save rewrites the state file atomically
func (r *StateRepositoryImpl) Save(ctx context.Context, st *state.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(toStateDoc(st))
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := file.WriteFileAtomic(r.fs, r.path, data); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Reset removes the state file
func (r *StateRepositoryImpl) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.fs.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

func toStateDoc(st *state.State) stateDoc {
	doc := stateDoc{
		DraftStartedAt:     st.DraftStartedAt,
		CurrentOperationID: st.CurrentOperationID.String(),
		OperationSaved:     st.OperationSaved,
	}

	if st.Displacement.IsActive() || st.Displacement.IsCompleted() {
		d := &displacementDoc{
			Origin:      st.Displacement.Origin(),
			Destination: st.Displacement.Destination(),
			StartKm:     st.Displacement.StartKm(),
			StartedAt:   st.Displacement.StartedAt(),
		}
		if snap := st.Displacement.Snapshot(); snap != nil {
			d.Snapshot = &displacementEnd{
				EndKm:      snap.EndKm,
				DistanceKm: snap.DistanceKm,
				StartedAt:  snap.StartedAt,
				EndedAt:    snap.EndedAt,
				Duration:   snap.Duration.Float(),
			}
		}
		doc.Displacement = d
	}

	doc.Mobilization = intervalToDoc(st.Mobilization.Interval())
	doc.Demobilization = intervalToDoc(st.Demobilization.Interval())

	if st.Waiting.IsActive() {
		w := &waitingDoc{StartedAt: st.Waiting.StartedAt()}
		for _, reason := range st.Waiting.Reasons() {
			w.Reasons = append(w.Reasons, reasonDoc{Timestamp: reason.At, Reason: reason.Text})
		}
		doc.Waiting = w
	}
	if st.Lunch.IsActive() {
		doc.Lunch = &lunchDoc{StartedAt: st.Lunch.StartedAt()}
	}
	if st.Refueling.IsActive() {
		doc.Refueling = &refuelingDoc{
			StartedAt: st.Refueling.StartedAt(),
			FuelType:  st.Refueling.FuelType().String(),
		}
	}
	return doc
}

func intervalToDoc(iv *interval.Interval) *intervalDoc {
	if iv.StartedAt() == nil {
		return nil
	}
	var duration *float64
	if d := iv.Duration(); d != nil {
		f := d.Float()
		duration = &f
	}
	return &intervalDoc{
		StartTime: iv.StartedAt(),
		EndTime:   iv.EndedAt(),
		Duration:  duration,
	}
}

func fromStateDoc(doc stateDoc) (*state.State, error) {
	st := state.NewState()
	st.DraftStartedAt = doc.DraftStartedAt
	st.OperationSaved = doc.OperationSaved
	if doc.CurrentOperationID != "" {
		id, err := model.NewOperationIDFromString(doc.CurrentOperationID)
		if err != nil {
			return nil, fmt.Errorf("parse current operation id: %w", err)
		}
		st.CurrentOperationID = id
	}

	if d := doc.Displacement; d != nil {
		var snap *phase.DisplacementSnapshot
		if s := d.Snapshot; s != nil {
			snap = &phase.DisplacementSnapshot{
				Origin:      d.Origin,
				Destination: d.Destination,
				StartKm:     d.StartKm,
				EndKm:       s.EndKm,
				DistanceKm:  s.DistanceKm,
				StartedAt:   s.StartedAt,
				EndedAt:     s.EndedAt,
				Duration:    model.Minutes(s.Duration),
			}
		}
		st.Displacement = phase.ReconstructDisplacement(d.Origin, d.Destination, d.StartKm, d.StartedAt, snap)
	}

	if m := doc.Mobilization; m != nil {
		st.Mobilization = phase.ReconstructMobilization(m.StartTime, m.EndTime, toMinutesPtr(m.Duration))
	}
	if d := doc.Demobilization; d != nil {
		st.Demobilization = phase.ReconstructDemobilization(d.StartTime, d.EndTime, toMinutesPtr(d.Duration))
	}

	if w := doc.Waiting; w != nil {
		var reasons []phase.Reason
		for _, reason := range w.Reasons {
			reasons = append(reasons, phase.Reason{At: reason.Timestamp, Text: reason.Reason})
		}
		st.Waiting = phase.ReconstructWaiting(w.StartedAt, reasons)
	}
	if l := doc.Lunch; l != nil {
		st.Lunch = phase.ReconstructLunch(l.StartedAt)
	}
	if rf := doc.Refueling; rf != nil {
		st.Refueling = phase.ReconstructRefueling(rf.StartedAt, model.FuelType(rf.FuelType))
	}
	return st, nil
}

func toMinutesPtr(f *float64) *model.Minutes {
	if f == nil {
		return nil
	}
	m := model.Minutes(*f)
	return &m
}
