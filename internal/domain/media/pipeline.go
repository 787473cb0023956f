package media

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"zoo-server/services/media-api/internal/config"
	"zoo-server/services/media-api/internal/infrastructure/metrics"
	"zoo-server/services/media-api/internal/infrastructure/observability"
	"zoo-server/services/media-api/internal/utils/platformerrors"
)

// PipelineOptions selects the pipeline behaviour independent of the backend.
type PipelineOptions struct {
	Policy             TransformPolicy
	Ceiling            int64
	MaxDimension       int
	GenerateThumbnails bool
}

// OptionsFromConfig derives pipeline options from service configuration.
func OptionsFromConfig(cfg *config.Config) PipelineOptions {
	policy := PolicyOptimize
	if cfg.EffectiveTransformPolicy() == config.TransformPolicyPassthrough {
		policy = PolicyPassthrough
	}
	return PipelineOptions{
		Policy:             policy,
		Ceiling:            cfg.UploadCeiling(),
		MaxDimension:       cfg.MaxImageDimension,
		GenerateThumbnails: cfg.GenerateThumbnails && policy == PolicyOptimize,
	}
}

// Pipeline runs intake, transform and store for one upload within the
// caller's request.
type Pipeline struct {
	transformer Transformer
	storage     Storage
	opts        PipelineOptions
	log         zerolog.Logger
}

func NewPipeline(transformer Transformer, storage Storage, opts PipelineOptions, log zerolog.Logger) *Pipeline {
	if opts.Policy == "" {
		opts.Policy = PolicyOptimize
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = MaxImageDimension
	}
	return &Pipeline{
		transformer: transformer,
		storage:     storage,
		opts:        opts,
		log:         log.With().Str("component", "upload-pipeline").Logger(),
	}
}

// Policy returns the active transform policy.
func (p *Pipeline) Policy() TransformPolicy {
	return p.opts.Policy
}

// Ceiling returns the raw upload size limit.
func (p *Pipeline) Ceiling() int64 {
	return p.opts.Ceiling
}

// StorageBackend returns the wired backend's name.
func (p *Pipeline) StorageBackend() string {
	return p.storage.Backend()
}

// StorageConfigured reports whether the backend can accept uploads.
func (p *Pipeline) StorageConfigured() bool {
	return p.storage.IsConfigured()
}

// StorageHealth probes the backend.
func (p *Pipeline) StorageHealth(ctx context.Context) error {
	return p.storage.Health(ctx)
}

// Process validates, transforms (per policy) and stores candidate.
// Validation and configuration failures return before anything is stored.
func (p *Pipeline) Process(ctx context.Context, candidate UploadCandidate, kind EntityKind) (*UploadResult, error) {
	if !kind.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unknown entity kind", nil, errUUIDInvalidKind)
	}

	if err := p.intake(ctx, candidate, kind); err != nil {
		metrics.RecordUpload(string(kind), uploadStatus(err), 0)
		return nil, err
	}

	if !p.storage.IsConfigured() {
		cfgErr := &ConfigurationError{Backend: p.storage.Backend(), Detail: "storage credentials or location are missing"}
		metrics.RecordUpload(string(kind), "not_configured", 0)
		return nil, notConfigured(ctx, cfgErr)
	}

	obj, result, err := p.transform(ctx, candidate, kind)
	if err != nil {
		metrics.RecordUpload(string(kind), "transform_failed", 0)
		return nil, err
	}

	ref, err := p.store(ctx, obj, kind)
	if err != nil {
		metrics.RecordUpload(string(kind), uploadStatus(err), 0)
		return nil, err
	}
	metrics.RecordUpload(string(kind), "success", ref.Size)

	result.Reference = ref
	result.Filename = ref.Filename
	p.log.Info().
		Str("kind", string(kind)).
		Str("key", ref.Key).
		Str("policy", string(p.opts.Policy)).
		Int64("bytes", ref.Size).
		Msg("image stored")
	return result, nil
}

// Delete removes a stored image best-effort. Failures are logged and reported
// in the result, never returned as errors.
func (p *Pipeline) Delete(ctx context.Context, urlOrKey string) CleanupResult {
	ctx, span := observability.StartStageSpan(ctx, "cleanup", "", attribute.String("media.target", urlOrKey))
	defer span.End()

	if strings.TrimSpace(urlOrKey) == "" {
		return NotFound("")
	}
	result := p.storage.Delete(ctx, urlOrKey)
	span.SetAttributes(attribute.String("media.cleanup_status", string(result.Status)))
	switch result.Status {
	case CleanupFailed:
		p.log.Warn().Str("target", urlOrKey).Str("key", result.Key).Str("reason", result.Reason).Msg("image cleanup failed")
	case CleanupNotFound:
		p.log.Debug().Str("target", urlOrKey).Msg("image already absent")
	default:
		p.log.Info().Str("key", result.Key).Msg("image deleted")
	}
	return result
}

func (p *Pipeline) intake(ctx context.Context, candidate UploadCandidate, kind EntityKind) error {
	ctx, span := observability.StartStageSpan(ctx, "intake", string(kind),
		attribute.Int("media.bytes", len(candidate.Data)),
		attribute.String("media.filename", candidate.Filename),
	)
	defer span.End()

	err := AcceptUpload(candidate, p.opts.Ceiling)
	if err == nil {
		err = CheckImage(candidate.Data, p.opts.MaxDimension)
	}
	if err == nil {
		return nil
	}
	observability.RecordError(span, err)

	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			rejection.Title, rejection, errUUIDRejected, map[string]any{"reason": string(rejection.Reason)})
	}
	return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "intake failed")
}

func (p *Pipeline) transform(ctx context.Context, candidate UploadCandidate, kind EntityKind) (*BlobObject, *UploadResult, error) {
	ctx, span := observability.StartStageSpan(ctx, "transform", string(kind),
		attribute.String("media.policy", string(p.opts.Policy)),
	)
	defer span.End()

	obj := &BlobObject{
		Kind:             kind,
		OriginalFilename: path.Base(filepath.ToSlash(candidate.Filename)),
	}
	result := &UploadResult{}

	if p.opts.Policy == PolicyPassthrough {
		if meta, err := InspectImage(candidate.Data); err == nil {
			result.Width, result.Height = meta.Width, meta.Height
		}
		obj.Data = candidate.Data
		obj.ContentType = NormalizeContentType(candidate.DeclaredMIMEType)
		obj.Extension = strings.ToLower(filepath.Ext(candidate.Filename))
		return obj, result, nil
	}

	variant, err := p.transformer.Optimize(ctx, candidate.Data, ProfileFor(kind))
	if err != nil {
		observability.RecordError(span, err)
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"Image optimization failed", &ProcessingError{Stage: StageTransform, Err: err}, errUUIDTransformFailed)
	}

	if p.opts.GenerateThumbnails {
		thumb, err := p.transformer.GenerateThumbnail(ctx, candidate.Data, ThumbnailSize)
		if err != nil {
			observability.RecordError(span, err)
			return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
				"Image optimization failed", &ProcessingError{Stage: StageTransform, Err: err}, errUUIDTransformFailed)
		}
		obj.Thumbnail = thumb
	}

	obj.Data = variant.Data
	obj.ContentType = variant.Format.ContentType()
	obj.Extension = variant.Format.Extension()
	result.Width, result.Height = variant.Width, variant.Height
	result.Optimization = &OptimizationStats{
		OriginalSize:     variant.OriginalSize,
		OptimizedSize:    variant.OptimizedSize,
		CompressionRatio: variant.CompressionRatio,
	}
	span.SetAttributes(attribute.Float64("media.compression_ratio", variant.CompressionRatio))
	return obj, result, nil
}

func (p *Pipeline) store(ctx context.Context, obj *BlobObject, kind EntityKind) (*StoredBlobReference, error) {
	ctx, span := observability.StartStageSpan(ctx, "store", string(kind),
		attribute.String("media.backend", p.storage.Backend()),
	)
	defer span.End()

	ref, err := p.storage.Upload(ctx, obj)
	if err == nil {
		return ref, nil
	}
	observability.RecordError(span, err)

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return nil, notConfigured(ctx, cfgErr)
	}
	if errors.Is(err, ErrNotConfigured) {
		return nil, notConfigured(ctx, &ConfigurationError{Backend: p.storage.Backend(), Detail: err.Error()})
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
		"Failed to upload image", &ProcessingError{Stage: StageUpload, Err: err}, errUUIDUploadFailed)
}

// uploadStatus labels a failed upload for metrics.
func uploadStatus(err error) string {
	var rejection *RejectionError
	switch {
	case errors.As(err, &rejection):
		return string(rejection.Reason)
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	default:
		return "error"
	}
}

func notConfigured(ctx context.Context, cfgErr *ConfigurationError) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotConfigured,
		"Image upload service not configured", cfgErr, errUUIDNotConfigured,
		map[string]any{"backend": cfgErr.Backend})
}
