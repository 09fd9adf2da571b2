package profile

import (
	"errors"
	"strings"
)

// DefaultPosition is the fixed position recorded for every operator
const DefaultPosition = "Operator"

// Profile is the operator descriptor shown in report headers. It is not
// otherwise used by the lifecycle core.
type Profile struct {
	Name          string
	Registration  string
	Position      string
	AuxiliaryName string
	VehiclePlate  string
}

// New creates a profile. Name and registration are required.
func New(name, registration, auxiliaryName, vehiclePlate string) (*Profile, error) {
	name = strings.TrimSpace(name)
	registration = strings.TrimSpace(registration)
	if name == "" || registration == "" {
		return nil, errors.New("name and registration are required")
	}
	return &Profile{
		Name:          name,
		Registration:  registration,
		Position:      DefaultPosition,
		AuxiliaryName: strings.TrimSpace(auxiliaryName),
		VehiclePlate:  strings.TrimSpace(vehiclePlate),
	}, nil
}
