package responses

import (
	"time"

	domain "zoo-server/services/media-api/internal/domain/media"
)

// UploadResponse is returned for a stored image.
type UploadResponse struct {
	Success      bool                      `json:"success"`
	ImageURL     string                    `json:"imageUrl"`
	Filename     string                    `json:"filename"`
	ThumbnailURL string                    `json:"thumbnailUrl,omitempty"`
	Width        int                       `json:"width,omitempty"`
	Height       int                       `json:"height,omitempty"`
	Optimization *domain.OptimizationStats `json:"optimization,omitempty"`
}

func BuildUploadResponse(result *domain.UploadResult) *UploadResponse {
	return &UploadResponse{
		Success:      true,
		ImageURL:     result.Reference.URL,
		Filename:     result.Filename,
		ThumbnailURL: result.Reference.ThumbnailURL,
		Width:        result.Width,
		Height:       result.Height,
		Optimization: result.Optimization,
	}
}

// CleanupResponse reports a best-effort delete.
type CleanupResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Key     string `json:"key,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// BuildCleanupResponse always reports success; the status says what happened.
func BuildCleanupResponse(result domain.CleanupResult) *CleanupResponse {
	return &CleanupResponse{
		Success: true,
		Status:  string(result.Status),
		Key:     result.Key,
		Reason:  result.Reason,
	}
}

// ReplacementResponse is one ledger row.
type ReplacementResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	EntityID  int64     `json:"entityId"`
	OldURL    string    `json:"oldUrl,omitempty"`
	NewURL    string    `json:"newUrl,omitempty"`
	State     string    `json:"state"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func BuildReplacementResponse(record *domain.ReplacementRecord) *ReplacementResponse {
	if record == nil {
		return nil
	}
	return &ReplacementResponse{
		ID:        record.ID,
		Kind:      string(record.Kind),
		EntityID:  record.EntityID,
		OldURL:    record.OldURL,
		NewURL:    record.NewURL,
		State:     string(record.State),
		Detail:    record.Detail,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// ReplacementListResponse wraps a page of ledger rows.
type ReplacementListResponse struct {
	Data  []*ReplacementResponse `json:"data"`
	Total int                    `json:"total"`
}

func BuildReplacementListResponse(records []*domain.ReplacementRecord) *ReplacementListResponse {
	data := make([]*ReplacementResponse, 0, len(records))
	for _, record := range records {
		data = append(data, BuildReplacementResponse(record))
	}
	return &ReplacementListResponse{Data: data, Total: len(data)}
}

// EntityImageResponse reports an entity's current image.
type EntityImageResponse struct {
	Kind     string `json:"kind"`
	EntityID int64  `json:"entityId"`
	ImageURL string `json:"imageUrl,omitempty"`
	HasImage bool   `json:"hasImage"`
}

func BuildEntityImageResponse(kind domain.EntityKind, entityID int64, url string) *EntityImageResponse {
	return &EntityImageResponse{
		Kind:     string(kind),
		EntityID: entityID,
		ImageURL: url,
		HasImage: url != "",
	}
}

// ReplaceResponse is returned by the replace and remove endpoints.
type ReplaceResponse struct {
	UploadResponse
	Replacement *ReplacementResponse `json:"replacement,omitempty"`
	Cleanup     *CleanupResponse     `json:"cleanup,omitempty"`
}

func BuildReplaceResponse(outcome *domain.ReplaceOutcome) *ReplaceResponse {
	resp := &ReplaceResponse{
		UploadResponse: UploadResponse{Success: true},
		Replacement:    BuildReplacementResponse(outcome.Replacement),
	}
	if outcome.Upload != nil {
		resp.UploadResponse = *BuildUploadResponse(outcome.Upload)
	}
	if outcome.Cleanup != nil {
		resp.Cleanup = BuildCleanupResponse(*outcome.Cleanup)
	}
	return resp
}
