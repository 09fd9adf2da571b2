package repository

import (
	"context"
	"errors"

	"github.com/fieldlog/fieldlog/internal/domain/model/profile"
)

// ErrProfileNotFound is returned when no operator profile has been saved yet
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists the operator profile descriptor
type ProfileRepository interface {
	// Load retrieves the stored profile
	Load(ctx context.Context) (*profile.Profile, error)

	// Save persists the profile
	Save(ctx context.Context, p *profile.Profile) error
}
