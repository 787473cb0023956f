package media

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// EntityKind names the zoo entity an image belongs to.
type EntityKind string

const (
	EntityAnimal  EntityKind = "animal"
	EntityExhibit EntityKind = "exhibit"
)

// ParseEntityKind accepts singular or plural forms, case-insensitive.
func ParseEntityKind(raw string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "animal", "animals":
		return EntityAnimal, nil
	case "exhibit", "exhibits":
		return EntityExhibit, nil
	default:
		return "", fmt.Errorf("unknown entity kind %q", raw)
	}
}

// KindFromPath routes a request path the way the disk uploader always has:
// anything under exhibits goes to exhibits, everything else to animals.
func KindFromPath(path string) EntityKind {
	if strings.Contains(strings.ToLower(path), "exhibits") {
		return EntityExhibit
	}
	return EntityAnimal
}

// Folder is the directory / key prefix for the kind.
func (k EntityKind) Folder() string {
	return string(k) + "s"
}

// FilePrefix is the filename prefix used by the disk backend.
func (k EntityKind) FilePrefix() string {
	return string(k)
}

func (k EntityKind) Valid() bool {
	return k == EntityAnimal || k == EntityExhibit
}

// Format is an output encoding for the transform engine.
type Format string

const (
	FormatWebP Format = "webp"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// ParseFormat falls back to WebP for anything unknown or empty.
func ParseFormat(raw string) Format {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "jpeg", "jpg":
		return FormatJPEG
	case "png":
		return FormatPNG
	default:
		return FormatWebP
	}
}

func (f Format) ContentType() string {
	return "image/" + string(ParseFormat(string(f)))
}

func (f Format) Extension() string {
	switch ParseFormat(string(f)) {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	default:
		return ".webp"
	}
}

// TransformPolicy decides whether uploads are re-encoded before storage.
type TransformPolicy string

const (
	PolicyOptimize    TransformPolicy = "optimize"
	PolicyPassthrough TransformPolicy = "passthrough"
)

// UploadCandidate is a raw upload as received from the client.
type UploadCandidate struct {
	Data             []byte
	Filename         string
	DeclaredMIMEType string
}

// ImageMetadata holds decoded facts about a candidate. Never persisted.
type ImageMetadata struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// TransformProfile describes how to encode a variant.
type TransformProfile struct {
	MaxWidth int    `json:"max_width"`
	Format   Format `json:"format"`
	Quality  int    `json:"quality"`
	Effort   int    `json:"effort"`
}

const (
	DefaultQuality   = 85
	DefaultEffort    = 4
	ThumbnailSize    = 300
	ThumbnailQuality = 80
)

var maxWidthByKind = map[EntityKind]int{
	EntityAnimal:  800,
	EntityExhibit: 1200,
}

const defaultMaxWidth = 1200

// ProfileFor returns the main-variant profile for the kind.
func ProfileFor(kind EntityKind) TransformProfile {
	maxWidth, ok := maxWidthByKind[kind]
	if !ok {
		maxWidth = defaultMaxWidth
	}
	return TransformProfile{
		MaxWidth: maxWidth,
		Format:   FormatWebP,
		Quality:  DefaultQuality,
		Effort:   DefaultEffort,
	}
}

// ImageVariant is one re-encoded rendition of an upload.
type ImageVariant struct {
	Data             []byte  `json:"-"`
	OriginalSize     int64   `json:"original_size"`
	OptimizedSize    int64   `json:"optimized_size"`
	CompressionRatio float64 `json:"compression_ratio"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Format           Format  `json:"format"`
}

// VariantMetadata aggregates sizes across a variant set.
type VariantMetadata struct {
	OriginalSize     int64   `json:"original_size"`
	MainSize         int64   `json:"main_size"`
	ThumbnailSize    int64   `json:"thumbnail_size"`
	CompressionRatio float64 `json:"compression_ratio"`
}

// VariantSet is the main + thumbnail output of CreateImageVariants.
type VariantSet struct {
	Main      *ImageVariant
	Thumbnail []byte
	Metadata  VariantMetadata
}

// CompressionRatio returns (1 - optimized/original) * 100 rounded to two
// decimals. Negative values are kept when the output grew.
func CompressionRatio(original, optimized int64) float64 {
	if original <= 0 {
		return 0
	}
	ratio := (1 - float64(optimized)/float64(original)) * 100
	return math.Round(ratio*100) / 100
}

// BlobObject is a ready-to-store payload.
type BlobObject struct {
	Kind             EntityKind
	Data             []byte
	ContentType      string
	Extension        string
	OriginalFilename string
	Thumbnail        []byte
}

// StoredBlobReference is the durable identity of a stored image.
type StoredBlobReference struct {
	Kind         EntityKind `json:"kind"`
	Backend      string     `json:"backend"`
	Key          string     `json:"key"`
	Filename     string     `json:"filename"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Size         int64      `json:"size"`
}

// OptimizationStats is attached to uploads that went through the transform engine.
type OptimizationStats struct {
	OriginalSize     int64   `json:"originalSize"`
	OptimizedSize    int64   `json:"optimizedSize"`
	CompressionRatio float64 `json:"compressionRatio"`
}

// UploadResult is the outcome of a successful pipeline run.
type UploadResult struct {
	Reference    *StoredBlobReference
	Filename     string
	Width        int
	Height       int
	Optimization *OptimizationStats
}

// CleanupStatus is the outcome class of a best-effort delete.
type CleanupStatus string

const (
	CleanupDeleted  CleanupStatus = "deleted"
	CleanupNotFound CleanupStatus = "not_found"
	CleanupFailed   CleanupStatus = "failed"
)

// CleanupResult reports what a delete did. It is logged and returned, never raised.
type CleanupResult struct {
	Status CleanupStatus `json:"status"`
	Key    string        `json:"key,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

func Deleted(key string) CleanupResult {
	return CleanupResult{Status: CleanupDeleted, Key: key}
}

func NotFound(key string) CleanupResult {
	return CleanupResult{Status: CleanupNotFound, Key: key}
}

func Failed(key string, err error) CleanupResult {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return CleanupResult{Status: CleanupFailed, Key: key, Reason: reason}
}

// Succeeded reports whether nothing is left behind under the key.
func (r CleanupResult) Succeeded() bool {
	return r.Status == CleanupDeleted || r.Status == CleanupNotFound
}

// ReplaceState tracks the replace-image saga.
type ReplaceState string

const (
	ReplaceUploading    ReplaceState = "uploading"
	ReplacePersisted    ReplaceState = "persisted"
	ReplaceOldCleanedUp ReplaceState = "old_cleaned_up"
	ReplaceOldOrphaned  ReplaceState = "old_orphaned"
	ReplaceFailed       ReplaceState = "failed"
)

// Terminal reports whether the saga will not advance further.
func (s ReplaceState) Terminal() bool {
	switch s {
	case ReplaceOldCleanedUp, ReplaceOldOrphaned, ReplaceFailed:
		return true
	default:
		return false
	}
}

// ReplacementRecord is the ledger row for one replace/remove operation.
type ReplacementRecord struct {
	ID        string       `json:"id"`
	Kind      EntityKind   `json:"kind"`
	EntityID  int64        `json:"entity_id"`
	OldURL    string       `json:"old_url,omitempty"`
	NewURL    string       `json:"new_url,omitempty"`
	State     ReplaceState `json:"state"`
	Detail    string       `json:"detail,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
