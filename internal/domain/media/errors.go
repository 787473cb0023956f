package media

import (
	"errors"
	"fmt"
)

// RejectionReason is the machine-readable cause of an intake rejection.
type RejectionReason string

const (
	ReasonMissingFile        RejectionReason = "missing_file"
	ReasonInvalidFileType    RejectionReason = "invalid_file_type"
	ReasonFileTooLarge       RejectionReason = "file_too_large"
	ReasonInvalidImage       RejectionReason = "invalid_image"
	ReasonDimensionsTooLarge RejectionReason = "dimensions_too_large"
)

// RejectionError is returned by intake checks. Nothing has been transformed
// or stored when one is returned.
type RejectionError struct {
	Reason  RejectionReason
	Title   string
	Details string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Details)
}

// ErrNotConfigured marks storage backends that lack credentials or a location.
var ErrNotConfigured = errors.New("image storage service is not configured")

// ConfigurationError carries operator-facing detail about a missing setup.
type ConfigurationError struct {
	Backend string
	Detail  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s storage not configured: %s", e.Backend, e.Detail)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNotConfigured
}

// Stage names where a processing error happened after intake passed.
type Stage string

const (
	StageTransform Stage = "transform"
	StageUpload    Stage = "upload"
	StagePersist   Stage = "persist"
)

// ProcessingError wraps a failure that happened after validation.
type ProcessingError struct {
	Stage Stage
	Err   error
}

func (e *ProcessingError) Error() string {
	switch e.Stage {
	case StageTransform:
		return fmt.Sprintf("image optimization failed: %v", e.Err)
	case StageUpload:
		return fmt.Sprintf("image upload failed: %v", e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Error UUIDs surfaced in HTTP error payloads.
const (
	errUUIDRejected         = "5f0b6a52-2f0e-4d4b-9c1e-5b7a0c3d1e21"
	errUUIDNotConfigured    = "8c1d2e3f-4a5b-4c6d-8e7f-9a0b1c2d3e4f"
	errUUIDTransformFailed  = "3a4b5c6d-7e8f-4091-a2b3-c4d5e6f7a8b9"
	errUUIDUploadFailed     = "6e7f8091-a2b3-4c4d-9e5f-60718293a4b5"
	errUUIDPersistFailed    = "9b0c1d2e-3f40-4516-a7b8-c9d0e1f2a3b4"
	errUUIDInvalidKind      = "4d5e6f70-8192-43a4-b5c6-d7e8f9011223"
	errUUIDReplacementFetch = "7f8091a2-b3c4-4d5e-8f60-718293a4b5c6"
)
