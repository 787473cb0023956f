package media

import "context"

// Transformer is the transform engine.
type Transformer interface {
	Optimize(ctx context.Context, data []byte, profile TransformProfile) (*ImageVariant, error)
	GenerateThumbnail(ctx context.Context, data []byte, size int) ([]byte, error)
	CreateImageVariants(ctx context.Context, data []byte, kind EntityKind) (*VariantSet, error)
}

// Storage is a durable store adapter. A deployment wires exactly one.
type Storage interface {
	Backend() string
	// IsConfigured reports whether uploads can succeed at all.
	IsConfigured() bool
	// Upload fails with an error wrapping ErrNotConfigured when IsConfigured is false.
	Upload(ctx context.Context, obj *BlobObject) (*StoredBlobReference, error)
	// Delete accepts a full URL or a bare key and never fails the caller.
	Delete(ctx context.Context, urlOrKey string) CleanupResult
	Health(ctx context.Context) error
}

// Repository persists entity image references and the replacement ledger.
type Repository interface {
	GetImageURL(ctx context.Context, kind EntityKind, entityID int64) (string, error)
	SetImageURL(ctx context.Context, kind EntityKind, entityID int64, url string) error
	CreateReplacement(ctx context.Context, record *ReplacementRecord) error
	UpdateReplacement(ctx context.Context, id string, state ReplaceState, newURL, detail string) error
	GetReplacement(ctx context.Context, id string) (*ReplacementRecord, error)
	ListReplacements(ctx context.Context, state ReplaceState, limit int) ([]*ReplacementRecord, error)
}
