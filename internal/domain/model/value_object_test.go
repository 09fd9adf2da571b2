package model

import (
	"testing"
	"time"
)

func TestNewOperationID(t *testing.T) {
	id1 := NewOperationID()
	id2 := NewOperationID()

	if id1.String() == "" {
		t.Error("NewOperationID() returned empty ID")
	}
	if id1.Equals(id2) {
		t.Error("NewOperationID() returned duplicate IDs")
	}
	if id1.IsZero() {
		t.Error("NewOperationID() returned zero ID")
	}
}

func TestNewOperationIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{
			name:    "Valid ID",
			id:      "01J8ZV3Q4D0000000000000000",
			wantErr: false,
		},
		{
			name:    "Legacy timestamp-derived ID",
			id:      "1714400000000",
			wantErr: false,
		},
		{
			name:    "Empty ID",
			id:      "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewOperationIDFromString(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewOperationIDFromString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && id.String() != tt.id {
				t.Errorf("NewOperationIDFromString() = %v, want %v", id.String(), tt.id)
			}
		})
	}
}

func TestMinutesBetween(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want Minutes
	}{
		{
			name: "Ten minutes",
			end:  start.Add(10 * time.Minute),
			want: 10,
		},
		{
			name: "Fractional minutes",
			end:  start.Add(90 * time.Second),
			want: 1.5,
		},
		{
			name: "Zero elapsed",
			end:  start,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinutesBetween(start, tt.end); got != tt.want {
				t.Errorf("MinutesBetween() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFuelType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FuelType
		wantErr bool
	}{
		{name: "Lowercase water", input: "water", want: FuelTypeWater},
		{name: "Uppercase fuel", input: "FUEL", want: FuelTypeFuel},
		{name: "Capitalized", input: "Water", want: FuelTypeWater},
		{name: "Unknown", input: "diesel", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFuelType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFuelType() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFuelType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFuelTypeIsValid(t *testing.T) {
	if !FuelTypeWater.IsValid() || !FuelTypeFuel.IsValid() {
		t.Error("expected built-in fuel types to be valid")
	}
	if FuelType("DIESEL").IsValid() {
		t.Error("expected unknown fuel type to be invalid")
	}
}

func TestPhaseStateCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from PhaseState
		to   PhaseState
		want bool
	}{
		{name: "Idle to Active", from: PhaseIdle, to: PhaseActive, want: true},
		{name: "Active to Closed", from: PhaseActive, to: PhaseClosed, want: true},
		{name: "Active to Idle (abandon)", from: PhaseActive, to: PhaseIdle, want: true},
		{name: "Closed to Active (no reopen)", from: PhaseClosed, to: PhaseActive, want: false},
		{name: "Idle to Closed", from: PhaseIdle, to: PhaseClosed, want: false},
		{name: "Unknown state", from: PhaseState("BROKEN"), to: PhaseActive, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}
