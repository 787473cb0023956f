package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"zoo-server/services/media-api/internal/config"
	domain "zoo-server/services/media-api/internal/domain/media"
)

// New selects the backend named by MEDIA_STORAGE_BACKEND. Incomplete settings
// yield an Unconfigured adapter instead of an error.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (domain.Storage, error) {
	var (
		store domain.Storage
		err   error
	)
	switch {
	case cfg.IsLocalStorage():
		store, err = NewLocalStorage(cfg, log)
	case cfg.IsS3Storage():
		store, err = NewS3Storage(ctx, cfg, log)
	default:
		err = &domain.ConfigurationError{
			Backend: strings.ToLower(strings.TrimSpace(cfg.StorageBackend)),
			Detail:  `MEDIA_STORAGE_BACKEND must be "s3" or "local"`,
		}
	}

	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		log.Warn().Str("backend", cfgErr.Backend).Str("detail", cfgErr.Detail).
			Msg("image storage is not configured; uploads will be rejected")
		return NewUnconfigured(cfgErr), nil
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
