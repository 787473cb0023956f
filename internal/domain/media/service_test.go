package media

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo-server/services/media-api/internal/utils/platformerrors"
	"zoo-server/services/media-api/utils/mediaid"
)

func newTestService(storage *fakeStorage, repo *fakeRepository) *Service {
	p := newTestPipeline(&fakeTransformer{}, storage, PipelineOptions{})
	return NewService(p, repo, zerolog.Nop())
}

func TestReplaceEntityImage_CleansUpOldImage(t *testing.T) {
	storage := &fakeStorage{}
	repo := newFakeRepository()
	repo.images[imageKey{EntityAnimal, 7}] = "https://cdn.test/zoo/animals/animals-old.webp"
	svc := newTestService(storage, repo)

	outcome, err := svc.ReplaceEntityImage(context.Background(), EntityAnimal, 7, pngCandidate(t, 20, 20))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/zoo/animals/animals-1-2.webp", repo.images[imageKey{EntityAnimal, 7}])
	assert.Equal(t, []string{"https://cdn.test/zoo/animals/animals-old.webp"}, storage.deleted)
	assert.Equal(t, []ReplaceState{ReplaceUploading, ReplacePersisted, ReplaceOldCleanedUp}, repo.states)

	require.NotNil(t, outcome.Cleanup)
	assert.Equal(t, CleanupDeleted, outcome.Cleanup.Status)
	assert.Equal(t, ReplaceOldCleanedUp, outcome.Replacement.State)
	assert.True(t, mediaid.IsValid(outcome.Replacement.ID))
	assert.Equal(t, "https://cdn.test/zoo/animals/animals-old.webp", outcome.Replacement.OldURL)
	assert.Equal(t, outcome.Upload.Reference.URL, outcome.Replacement.NewURL)
}

func TestReplaceEntityImage_OrphansOnCleanupFailure(t *testing.T) {
	storage := &fakeStorage{
		deleteFunc: func(ctx context.Context, urlOrKey string) CleanupResult {
			return Failed(urlOrKey, errors.New("permission denied"))
		},
	}
	repo := newFakeRepository()
	repo.images[imageKey{EntityExhibit, 3}] = "exhibits/exhibits-111-222.webp"
	svc := newTestService(storage, repo)

	outcome, err := svc.ReplaceEntityImage(context.Background(), EntityExhibit, 3, pngCandidate(t, 20, 20))
	require.NoError(t, err)

	assert.Equal(t, ReplaceOldOrphaned, outcome.Replacement.State)
	assert.Equal(t, "permission denied", outcome.Replacement.Detail)
	assert.Equal(t, CleanupFailed, outcome.Cleanup.Status)
	assert.NotEmpty(t, repo.images[imageKey{EntityExhibit, 3}])

	stored := repo.records[outcome.Replacement.ID]
	assert.Equal(t, ReplaceOldOrphaned, stored.State)
}

func TestReplaceEntityImage_NotFoundCountsAsCleanedUp(t *testing.T) {
	storage := &fakeStorage{
		deleteFunc: func(ctx context.Context, urlOrKey string) CleanupResult {
			return NotFound(urlOrKey)
		},
	}
	repo := newFakeRepository()
	repo.images[imageKey{EntityAnimal, 1}] = "animals/gone.webp"
	svc := newTestService(storage, repo)

	outcome, err := svc.ReplaceEntityImage(context.Background(), EntityAnimal, 1, pngCandidate(t, 20, 20))
	require.NoError(t, err)
	assert.Equal(t, ReplaceOldCleanedUp, outcome.Replacement.State)
	assert.Equal(t, string(CleanupNotFound), outcome.Replacement.Detail)
}

func TestReplaceEntityImage_NoPreviousImage(t *testing.T) {
	storage := &fakeStorage{}
	repo := newFakeRepository()
	svc := newTestService(storage, repo)

	outcome, err := svc.ReplaceEntityImage(context.Background(), EntityAnimal, 9, pngCandidate(t, 20, 20))
	require.NoError(t, err)

	assert.Empty(t, storage.deleted)
	assert.Nil(t, outcome.Cleanup)
	assert.Equal(t, ReplaceOldCleanedUp, outcome.Replacement.State)
}

func TestReplaceEntityImage_UploadRejected(t *testing.T) {
	storage := &fakeStorage{}
	repo := newFakeRepository()
	repo.images[imageKey{EntityAnimal, 2}] = "animals/current.webp"
	svc := newTestService(storage, repo)

	_, err := svc.ReplaceEntityImage(context.Background(), EntityAnimal, 2, UploadCandidate{})
	require.Error(t, err)

	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Equal(t, "animals/current.webp", repo.images[imageKey{EntityAnimal, 2}])
	assert.Empty(t, storage.deleted)
	assert.Equal(t, []ReplaceState{ReplaceUploading, ReplaceFailed}, repo.states)
}

func TestReplaceEntityImage_PersistFailureKeepsOldImage(t *testing.T) {
	storage := &fakeStorage{}
	repo := newFakeRepository()
	repo.setImageURLFunc = func(ctx context.Context, kind EntityKind, entityID int64, url string) error {
		return errors.New("connection refused")
	}
	repo.getImageURLFunc = func(ctx context.Context, kind EntityKind, entityID int64) (string, error) {
		return "animals/current.webp", nil
	}
	svc := newTestService(storage, repo)

	_, err := svc.ReplaceEntityImage(context.Background(), EntityAnimal, 2, pngCandidate(t, 20, 20))
	require.Error(t, err)

	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeDatabaseError))
	assert.Len(t, storage.uploaded, 1)
	assert.Empty(t, storage.deleted)
	assert.Equal(t, []ReplaceState{ReplaceUploading, ReplaceFailed}, repo.states)
}

func TestReplaceEntityImage_LookupFailure(t *testing.T) {
	storage := &fakeStorage{}
	repo := newFakeRepository()
	repo.getImageURLFunc = func(ctx context.Context, kind EntityKind, entityID int64) (string, error) {
		return "", platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "animal not found", nil, "")
	}
	svc := newTestService(storage, repo)

	_, err := svc.ReplaceEntityImage(context.Background(), EntityAnimal, 404, pngCandidate(t, 20, 20))
	require.Error(t, err)

	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Empty(t, storage.uploaded)
	assert.Empty(t, repo.states)
}

func TestReplaceEntityImage_LedgerFailureIsNotFatal(t *testing.T) {
	storage := &fakeStorage{}
	repo := newFakeRepository()
	repo.createFunc = func(ctx context.Context, record *ReplacementRecord) error {
		return errors.New("ledger table missing")
	}
	svc := newTestService(storage, repo)

	outcome, err := svc.ReplaceEntityImage(context.Background(), EntityAnimal, 5, pngCandidate(t, 20, 20))
	require.NoError(t, err)
	assert.Equal(t, ReplaceOldCleanedUp, outcome.Replacement.State)
}

func TestRemoveEntityImage(t *testing.T) {
	storage := &fakeStorage{}
	repo := newFakeRepository()
	repo.images[imageKey{EntityExhibit, 4}] = "https://cdn.test/zoo/exhibits/exhibits-1-2.webp"
	svc := newTestService(storage, repo)

	outcome, err := svc.RemoveEntityImage(context.Background(), EntityExhibit, 4)
	require.NoError(t, err)

	assert.Equal(t, "", repo.images[imageKey{EntityExhibit, 4}])
	assert.Equal(t, []string{"https://cdn.test/zoo/exhibits/exhibits-1-2.webp"}, storage.deleted)
	assert.Equal(t, CleanupDeleted, outcome.Cleanup.Status)
	assert.Equal(t, []ReplaceState{ReplaceUploading, ReplacePersisted, ReplaceOldCleanedUp}, repo.states)
}

func TestRemoveEntityImage_NoImage(t *testing.T) {
	storage := &fakeStorage{}
	repo := newFakeRepository()
	svc := newTestService(storage, repo)

	outcome, err := svc.RemoveEntityImage(context.Background(), EntityAnimal, 1)
	require.NoError(t, err)

	assert.Nil(t, outcome.Replacement)
	assert.Equal(t, CleanupNotFound, outcome.Cleanup.Status)
	assert.Empty(t, storage.deleted)
	assert.Empty(t, repo.states)
}

func TestGetReplacement(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(&fakeStorage{}, repo)

	_, err := svc.GetReplacement(context.Background(), "not-an-id")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	id := mediaid.New()
	repo.records[id] = ReplacementRecord{ID: id, State: ReplaceOldOrphaned}

	record, err := svc.GetReplacement(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, ReplaceOldOrphaned, record.State)
}

func TestListReplacements_Limit(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{requested: 0, want: 50},
		{requested: -3, want: 50},
		{requested: 10, want: 10},
		{requested: 200, want: 200},
		{requested: 201, want: 50},
	}

	for _, tt := range tests {
		var got int
		repo := newFakeRepository()
		repo.listFunc = func(ctx context.Context, state ReplaceState, limit int) ([]*ReplacementRecord, error) {
			got = limit
			return []*ReplacementRecord{}, nil
		}
		svc := newTestService(&fakeStorage{}, repo)

		_, err := svc.ListReplacements(context.Background(), ReplaceOldOrphaned, tt.requested)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
