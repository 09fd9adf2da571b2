package repository

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/fieldlog/fieldlog/internal/domain/model/profile"
	"github.com/fieldlog/fieldlog/internal/domain/repository"
	"github.com/fieldlog/fieldlog/internal/infra/persistence/file"
)

// profileDoc is the persisted YAML shape of the operator profile
type profileDoc struct {
	Name          string `yaml:"name"`
	Registration  string `yaml:"registration"`
	Position      string `yaml:"position"`
	AuxiliaryName string `yaml:"auxiliary_name,omitempty"`
	VehiclePlate  string `yaml:"vehicle_plate,omitempty"`
}

// ProfileRepositoryImpl persists the operator profile as one YAML file
type ProfileRepositoryImpl struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewProfileRepositoryImpl creates a file-based profile repository
func NewProfileRepositoryImpl(fs afero.Fs, path string) *ProfileRepositoryImpl {
	return &ProfileRepositoryImpl{fs: fs, path: path}
}

// Load reads the stored profile
func (r *ProfileRepositoryImpl) Load(ctx context.Context) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, repository.ErrProfileNotFound
		}
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	var doc profileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profile file: %w", err)
	}

	p, err := profile.New(doc.Name, doc.Registration, doc.AuxiliaryName, doc.VehiclePlate)
	if err != nil {
		return nil, fmt.Errorf("stored profile invalid: %w", err)
	}
	if doc.Position != "" {
		p.Position = doc.Position
	}
	return p, nil
}

// Save rewrites the profile file atomically
func (r *ProfileRepositoryImpl) Save(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(profileDoc{
		Name:          p.Name,
		Registration:  p.Registration,
		Position:      p.Position,
		AuxiliaryName: p.AuxiliaryName,
		VehiclePlate:  p.VehiclePlate,
	})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := file.WriteFileAtomic(r.fs, r.path, data); err != nil {
		return fmt.Errorf("write profile file: %w", err)
	}
	return nil
}
