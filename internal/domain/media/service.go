package media

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"zoo-server/services/media-api/internal/infrastructure/metrics"
	"zoo-server/services/media-api/internal/infrastructure/observability"
	"zoo-server/services/media-api/internal/utils/platformerrors"
	"zoo-server/services/media-api/utils/mediaid"
)

// ReplaceOutcome reports a finished replace or remove operation.
type ReplaceOutcome struct {
	Replacement *ReplacementRecord
	Upload      *UploadResult
	Cleanup     *CleanupResult
}

// Service sequences entity image changes: read old reference, upload new,
// persist the URL, delete the old blob. The steps are not atomic; every state
// reached is written to the replacement ledger so orphans can be found later.
type Service struct {
	pipeline *Pipeline
	repo     Repository
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(pipeline *Pipeline, repo Repository, log zerolog.Logger) *Service {
	return &Service{
		pipeline: pipeline,
		repo:     repo,
		log:      log.With().Str("component", "media-service").Logger(),
		now:      time.Now,
	}
}

// Pipeline exposes the underlying upload pipeline.
func (s *Service) Pipeline() *Pipeline {
	return s.pipeline
}

// UploadCeiling is the raw size limit for the active transform policy.
func (s *Service) UploadCeiling() int64 {
	return s.pipeline.Ceiling()
}

// Ready reports whether uploads can succeed: the backend is configured and reachable.
func (s *Service) Ready(ctx context.Context) error {
	if !s.pipeline.StorageConfigured() {
		return &ConfigurationError{Backend: s.pipeline.StorageBackend(), Detail: "storage credentials or location are missing"}
	}
	return s.pipeline.StorageHealth(ctx)
}

// Upload runs the pipeline without touching any entity row.
func (s *Service) Upload(ctx context.Context, candidate UploadCandidate, kind EntityKind) (*UploadResult, error) {
	return s.pipeline.Process(ctx, candidate, kind)
}

// DeleteImage removes a stored image by URL or key, best-effort.
func (s *Service) DeleteImage(ctx context.Context, urlOrKey string) CleanupResult {
	return s.pipeline.Delete(ctx, urlOrKey)
}

// GetEntityImage returns the entity's current image URL ("" when none).
func (s *Service) GetEntityImage(ctx context.Context, kind EntityKind, entityID int64) (string, error) {
	url, err := s.repo.GetImageURL(ctx, kind, entityID)
	if err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load entity image")
	}
	return url, nil
}

// ReplaceEntityImage uploads candidate as the entity's new image and removes
// the previous one. A failed cleanup leaves the saga in old_orphaned and
// still returns the successful upload.
func (s *Service) ReplaceEntityImage(ctx context.Context, kind EntityKind, entityID int64, candidate UploadCandidate) (*ReplaceOutcome, error) {
	ctx, span := observability.StartStageSpan(ctx, "replace", string(kind))
	defer span.End()

	oldURL, err := s.repo.GetImageURL(ctx, kind, entityID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load entity image")
	}

	record := s.begin(ctx, kind, entityID, oldURL)

	result, err := s.pipeline.Process(ctx, candidate, kind)
	if err != nil {
		s.advance(ctx, span, record, ReplaceFailed, "", err.Error())
		return nil, err
	}
	newURL := result.Reference.URL

	if err := s.repo.SetImageURL(ctx, kind, entityID, newURL); err != nil {
		// The new blob is now unreferenced; it stays in storage and in the ledger.
		s.advance(ctx, span, record, ReplaceFailed, newURL, err.Error())
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeDatabaseError,
			"Failed to save image reference", &ProcessingError{Stage: StagePersist, Err: err}, errUUIDPersistFailed)
	}
	s.advance(ctx, span, record, ReplacePersisted, newURL, "")

	outcome := &ReplaceOutcome{Replacement: record, Upload: result}
	if oldURL == "" || oldURL == newURL {
		s.advance(ctx, span, record, ReplaceOldCleanedUp, newURL, "no previous image")
		return outcome, nil
	}

	cleanup := s.pipeline.Delete(ctx, oldURL)
	outcome.Cleanup = &cleanup
	if cleanup.Succeeded() {
		s.advance(ctx, span, record, ReplaceOldCleanedUp, newURL, string(cleanup.Status))
	} else {
		s.advance(ctx, span, record, ReplaceOldOrphaned, newURL, cleanup.Reason)
	}
	return outcome, nil
}

// RemoveEntityImage clears the entity's image reference and deletes the blob
// best-effort.
func (s *Service) RemoveEntityImage(ctx context.Context, kind EntityKind, entityID int64) (*ReplaceOutcome, error) {
	ctx, span := observability.StartStageSpan(ctx, "remove", string(kind))
	defer span.End()

	oldURL, err := s.repo.GetImageURL(ctx, kind, entityID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load entity image")
	}
	if oldURL == "" {
		cleanup := NotFound("")
		return &ReplaceOutcome{Cleanup: &cleanup}, nil
	}

	record := s.begin(ctx, kind, entityID, oldURL)
	if err := s.repo.SetImageURL(ctx, kind, entityID, ""); err != nil {
		s.advance(ctx, span, record, ReplaceFailed, "", err.Error())
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeDatabaseError,
			"Failed to clear image reference", &ProcessingError{Stage: StagePersist, Err: err}, errUUIDPersistFailed)
	}
	s.advance(ctx, span, record, ReplacePersisted, "", "")

	cleanup := s.pipeline.Delete(ctx, oldURL)
	if cleanup.Succeeded() {
		s.advance(ctx, span, record, ReplaceOldCleanedUp, "", string(cleanup.Status))
	} else {
		s.advance(ctx, span, record, ReplaceOldOrphaned, "", cleanup.Reason)
	}
	return &ReplaceOutcome{Replacement: record, Cleanup: &cleanup}, nil
}

// GetReplacement loads one ledger row.
func (s *Service) GetReplacement(ctx context.Context, id string) (*ReplacementRecord, error) {
	if !mediaid.IsValid(id) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid replacement id", nil, errUUIDReplacementFetch)
	}
	record, err := s.repo.GetReplacement(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load replacement")
	}
	return record, nil
}

// ListReplacements returns ledger rows, optionally filtered by state.
func (s *Service) ListReplacements(ctx context.Context, state ReplaceState, limit int) ([]*ReplacementRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	records, err := s.repo.ListReplacements(ctx, state, limit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list replacements")
	}
	return records, nil
}

func (s *Service) begin(ctx context.Context, kind EntityKind, entityID int64, oldURL string) *ReplacementRecord {
	now := s.now().UTC()
	record := &ReplacementRecord{
		ID:        mediaid.New(),
		Kind:      kind,
		EntityID:  entityID,
		OldURL:    oldURL,
		State:     ReplaceUploading,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateReplacement(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("replacement_id", record.ID).Msg("failed to record replacement start")
	}
	return record
}

func (s *Service) advance(ctx context.Context, span trace.Span, record *ReplacementRecord, state ReplaceState, newURL, detail string) {
	observability.AddStateTransition(span, string(record.State), string(state))
	record.State = state
	if newURL != "" {
		record.NewURL = newURL
	}
	record.Detail = detail
	record.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateReplacement(ctx, record.ID, state, record.NewURL, detail); err != nil {
		s.log.Warn().Err(err).Str("replacement_id", record.ID).Str("state", string(state)).Msg("failed to record replacement state")
	}
	if state.Terminal() {
		metrics.RecordReplacement(string(record.Kind), string(state))
	}
	if state == ReplaceOldOrphaned {
		s.log.Warn().
			Str("replacement_id", record.ID).
			Str("kind", string(record.Kind)).
			Int64("entity_id", record.EntityID).
			Str("old_url", record.OldURL).
			Str("reason", detail).
			Msg("previous image left orphaned")
	}
}
