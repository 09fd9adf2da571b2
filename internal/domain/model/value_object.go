package model

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// OperationID represents a unique identifier for an operation record.
// ULIDs are timestamp-derived, so IDs sort in creation order.
type OperationID struct {
	value string
}

// NewOperationID creates a new OperationID from the current time
func NewOperationID() OperationID {
	return NewOperationIDAt(time.Now())
}

// NewOperationIDAt creates an OperationID derived from the given time
func NewOperationIDAt(t time.Time) OperationID {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return OperationID{value: ulid.MustNew(ulid.Timestamp(t), entropy).String()}
}

// NewOperationIDFromString creates an OperationID from an existing string
func NewOperationIDFromString(id string) (OperationID, error) {
	if id == "" {
		return OperationID{}, errors.New("operation ID cannot be empty")
	}
	return OperationID{value: id}, nil
}

// String returns the string representation
func (o OperationID) String() string {
	return o.value
}

// IsZero reports whether the ID is unset
func (o OperationID) IsZero() bool {
	return o.value == ""
}

// Equals checks if two OperationIDs are equal
func (o OperationID) Equals(other OperationID) bool {
	return o.value == other.value
}

// Minutes is a duration expressed in fractional minutes.
// Optional durations are carried as *Minutes so that an absent value
// round-trips as null, never as zero.
type Minutes float64

// MinutesBetween computes the minutes elapsed from start to end
func MinutesBetween(start, end time.Time) Minutes {
	return Minutes(end.Sub(start).Minutes())
}

// Float returns the value as a plain float64
func (m Minutes) Float() float64 {
	return float64(m)
}

// String formats the value the way reports display it (whole minutes)
func (m Minutes) String() string {
	return fmt.Sprintf("%.0f min", float64(m))
}

// Ptr returns a pointer to a copy of the value
func (m Minutes) Ptr() *Minutes {
	return &m
}

// FuelType represents what a refueling event loaded
type FuelType string

const (
	FuelTypeWater FuelType = "WATER"
	FuelTypeFuel  FuelType = "FUEL"
)

// String returns the string representation
func (f FuelType) String() string {
	return string(f)
}

// IsValid validates the fuel type
func (f FuelType) IsValid() bool {
	switch f {
	case FuelTypeWater, FuelTypeFuel:
		return true
	default:
		return false
	}
}

// ParseFuelType parses a user-supplied fuel type value
func ParseFuelType(s string) (FuelType, error) {
	switch s {
	case "water", "WATER", "Water":
		return FuelTypeWater, nil
	case "fuel", "FUEL", "Fuel":
		return FuelTypeFuel, nil
	default:
		return "", fmt.Errorf("invalid fuel type: %q (expected water or fuel)", s)
	}
}

// PhaseState represents the lifecycle state of a tracked phase
type PhaseState string

const (
	PhaseIdle   PhaseState = "IDLE"
	PhaseActive PhaseState = "ACTIVE"
	PhaseClosed PhaseState = "CLOSED"
)

// String returns the string representation
func (s PhaseState) String() string {
	return string(s)
}

// IsValid validates the phase state
func (s PhaseState) IsValid() bool {
	switch s {
	case PhaseIdle, PhaseActive, PhaseClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a phase state transition is valid.
// A closed phase never reopens; a repeat phase is a new tracker.
func (s PhaseState) CanTransitionTo(next PhaseState) bool {
	validTransitions := map[PhaseState][]PhaseState{
		PhaseIdle:   {PhaseActive},
		PhaseActive: {PhaseClosed, PhaseIdle},
		PhaseClosed: {},
	}

	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}

	for _, allowedState := range allowed {
		if allowedState == next {
			return true
		}
	}
	return false
}
