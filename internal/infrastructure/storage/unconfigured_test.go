package storage

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo-server/services/media-api/internal/config"
	domain "zoo-server/services/media-api/internal/domain/media"
)

func TestUnconfigured(t *testing.T) {
	u := NewUnconfigured(&domain.ConfigurationError{Backend: BackendS3, Detail: "missing MEDIA_S3_BUCKET"})

	assert.False(t, u.IsConfigured())
	assert.Equal(t, BackendS3, u.Backend())

	_, err := u.Upload(context.Background(), &domain.BlobObject{Kind: domain.EntityAnimal})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.ErrorIs(t, u.Health(context.Background()), domain.ErrNotConfigured)

	result := u.Delete(context.Background(), "https://cdn.test/zoo/animals/a.webp")
	assert.Equal(t, domain.CleanupFailed, result.Status)
	assert.False(t, result.Succeeded())
	assert.Contains(t, result.Reason, "missing MEDIA_S3_BUCKET")
}

// ledgerRepo keeps one entity image and records ledger transitions.
type ledgerRepo struct {
	url    string
	states []domain.ReplaceState
}

func (r *ledgerRepo) GetImageURL(context.Context, domain.EntityKind, int64) (string, error) {
	return r.url, nil
}

func (r *ledgerRepo) SetImageURL(_ context.Context, _ domain.EntityKind, _ int64, url string) error {
	r.url = url
	return nil
}

func (r *ledgerRepo) CreateReplacement(_ context.Context, record *domain.ReplacementRecord) error {
	r.states = append(r.states, record.State)
	return nil
}

func (r *ledgerRepo) UpdateReplacement(_ context.Context, _ string, state domain.ReplaceState, _, _ string) error {
	r.states = append(r.states, state)
	return nil
}

func (r *ledgerRepo) GetReplacement(context.Context, string) (*domain.ReplacementRecord, error) {
	return nil, nil
}

func (r *ledgerRepo) ListReplacements(context.Context, domain.ReplaceState, int) ([]*domain.ReplacementRecord, error) {
	return nil, nil
}

func TestUnconfigured_RemovalLeavesOrphan(t *testing.T) {
	log := zerolog.Nop()
	u := NewUnconfigured(&domain.ConfigurationError{Backend: BackendS3, Detail: "missing MEDIA_S3_BUCKET"})
	repo := &ledgerRepo{url: "https://cdn.test/zoo/animals/animals-1-2.webp"}
	service := domain.NewService(domain.NewPipeline(nil, u, domain.PipelineOptions{}, log), repo, log)

	outcome, err := service.RemoveEntityImage(context.Background(), domain.EntityAnimal, 1)

	require.NoError(t, err)
	assert.Empty(t, repo.url)
	assert.Equal(t, domain.CleanupFailed, outcome.Cleanup.Status)
	assert.Equal(t, domain.ReplaceOldOrphaned, outcome.Replacement.State)
	assert.Equal(t, domain.ReplaceOldOrphaned, repo.states[len(repo.states)-1])
	assert.NotContains(t, repo.states, domain.ReplaceOldCleanedUp)
}

func TestNew_SelectsBackend(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		store, err := New(context.Background(), &config.Config{
			StorageBackend:   "local",
			LocalStoragePath: t.TempDir(),
		}, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, BackendLocal, store.Backend())
		assert.True(t, store.IsConfigured())
	})

	t.Run("s3 without credentials", func(t *testing.T) {
		store, err := New(context.Background(), &config.Config{StorageBackend: "s3"}, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, BackendS3, store.Backend())
		assert.False(t, store.IsConfigured())

		_, err = store.Upload(context.Background(), &domain.BlobObject{Kind: domain.EntityAnimal})
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})

	t.Run("unknown backend", func(t *testing.T) {
		store, err := New(context.Background(), &config.Config{StorageBackend: "GCS"}, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, "gcs", store.Backend())
		assert.False(t, store.IsConfigured())
		assert.ErrorContains(t, store.Health(context.Background()), "MEDIA_STORAGE_BACKEND")
	})
}
