package repository

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlog/fieldlog/internal/domain/model"
)

const statePath = ".fieldlog/state.json"

func TestStateLoadMissingFileYieldsFreshState(t *testing.T) {
	repo := NewStateRepositoryImpl(afero.NewMemMapFs(), statePath)

	st, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st.DraftStartedAt)
	assert.False(t, st.OperationSaved)
	assert.False(t, st.Displacement.IsActive())
	assert.False(t, st.Waiting.IsActive())
}

func TestStateRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx := context.Background()
	repo := NewStateRepositoryImpl(fs, statePath)

	now := time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	st, err := repo.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, st.Displacement.Start("Base", "Site A", "100", now))
	_, err = st.Displacement.End("150", now.Add(40*time.Minute))
	require.NoError(t, err)
	require.NoError(t, st.Mobilization.Start(now.Add(41*time.Minute)))
	require.NoError(t, st.StartDraft(now.Add(42*time.Minute)))
	require.NoError(t, st.Waiting.Start("crane unavailable", now.Add(50*time.Minute)))
	require.NoError(t, st.Refueling.Start(model.FuelTypeWater, now.Add(51*time.Minute)))
	st.MarkSaved(model.NewOperationID())

	require.NoError(t, repo.Save(ctx, st))

	// A fresh repository sees the same trackers mid-flight
	got, err := NewStateRepositoryImpl(fs, statePath).Load(ctx)
	require.NoError(t, err)

	assert.True(t, got.Displacement.IsCompleted())
	require.NotNil(t, got.Displacement.Snapshot())
	assert.Equal(t, 50.0, got.Displacement.Snapshot().DistanceKm)
	assert.True(t, got.Mobilization.IsActive())
	require.NotNil(t, got.DraftStartedAt)
	assert.True(t, got.DraftStartedAt.Equal(now.Add(42*time.Minute)))
	assert.True(t, got.Waiting.IsActive())
	require.Len(t, got.Waiting.Reasons(), 1)
	assert.Equal(t, "crane unavailable", got.Waiting.Reasons()[0].Text)
	assert.True(t, got.Refueling.IsActive())
	assert.Equal(t, model.FuelTypeWater, got.Refueling.FuelType())
	assert.False(t, got.Lunch.IsActive())
	assert.True(t, got.OperationSaved)
	assert.True(t, got.CurrentOperationID.Equals(st.CurrentOperationID))
}

func TestStateReopenedTrackersStillEnd(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx := context.Background()
	repo := NewStateRepositoryImpl(fs, statePath)

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	st, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Lunch.Start(now))
	require.NoError(t, repo.Save(ctx, st))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	record, err := got.Lunch.End(now.Add(45 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.Minutes(45), record.Duration)
}

func TestStateReset(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx := context.Background()
	repo := NewStateRepositoryImpl(fs, statePath)

	st, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, st.StartDraft(time.Now()))
	require.NoError(t, repo.Save(ctx, st))

	require.NoError(t, repo.Reset(ctx))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.DraftStartedAt)

	// Resetting twice is fine
	require.NoError(t, repo.Reset(ctx))
}

func TestStateRejectsMalformedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, statePath, []byte("{broken"), 0o644))

	_, err := NewStateRepositoryImpl(fs, statePath).Load(context.Background())
	assert.Error(t, err)
}
