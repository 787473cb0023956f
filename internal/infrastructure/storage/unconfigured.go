package storage

import (
	"context"

	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/infrastructure/metrics"
)

// Unconfigured stands in for a backend whose settings are incomplete so the
// service still boots and answers uploads with a not-configured error.
type Unconfigured struct {
	cause *domain.ConfigurationError
}

func NewUnconfigured(cause *domain.ConfigurationError) *Unconfigured {
	if cause == nil {
		cause = &domain.ConfigurationError{Backend: BackendS3, Detail: "no storage backend configured"}
	}
	return &Unconfigured{cause: cause}
}

func (u *Unconfigured) Backend() string {
	return u.cause.Backend
}

func (u *Unconfigured) IsConfigured() bool {
	return false
}

func (u *Unconfigured) Upload(ctx context.Context, obj *domain.BlobObject) (*domain.StoredBlobReference, error) {
	return nil, u.cause
}

// Delete cannot reach any storage, so the target is reported as failed and
// stays visible as an orphan.
func (u *Unconfigured) Delete(ctx context.Context, urlOrKey string) domain.CleanupResult {
	metrics.RecordCleanup(u.cause.Backend, string(domain.CleanupFailed))
	return domain.Failed(ParseObjectKey(urlOrKey, ""), u.cause)
}

func (u *Unconfigured) Health(ctx context.Context) error {
	return u.cause
}
