package media

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/infrastructure/database/entities"
	"zoo-server/services/media-api/internal/utils/platformerrors"
)

// Repository persists entity image URLs and the replacement ledger.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func entityModel(kind domain.EntityKind) (any, bool) {
	switch kind {
	case domain.EntityAnimal:
		return &entities.Animal{}, true
	case domain.EntityExhibit:
		return &entities.Exhibit{}, true
	default:
		return nil, false
	}
}

// GetImageURL returns "" when the entity has no image.
func (r *Repository) GetImageURL(ctx context.Context, kind domain.EntityKind, entityID int64) (string, error) {
	model, ok := entityModel(kind)
	if !ok {
		return "", unknownKind(ctx, kind)
	}

	var row struct {
		ImageURL *string
	}
	err := r.db.WithContext(ctx).Model(model).Select("image_url").Where("id = ?", entityID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				string(kind)+" not found", err, "0e1f2a3b-4c5d-4e6f-8a7b-9c0d1e2f3a4b",
				map[string]any{"entity_id": entityID})
		}
		return "", platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to load image url", err, "1f2a3b4c-5d6e-4f70-9b8c-0d1e2f3a4b5c")
	}
	if row.ImageURL == nil {
		return "", nil
	}
	return *row.ImageURL, nil
}

// SetImageURL stores url on the entity row; "" clears it.
func (r *Repository) SetImageURL(ctx context.Context, kind domain.EntityKind, entityID int64, url string) error {
	model, ok := entityModel(kind)
	if !ok {
		return unknownKind(ctx, kind)
	}

	var value *string
	if url != "" {
		value = &url
	}
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", entityID).Updates(map[string]any{
		"image_url":  value,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update image url", result.Error, "2a3b4c5d-6e7f-4081-8c9d-1e2f3a4b5c6d")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			string(kind)+" not found", nil, "0e1f2a3b-4c5d-4e6f-8a7b-9c0d1e2f3a4b",
			map[string]any{"entity_id": entityID})
	}
	return nil
}

func (r *Repository) CreateReplacement(ctx context.Context, record *domain.ReplacementRecord) error {
	entity := toEntity(record)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create replacement record", err, "3b4c5d6e-7f80-4192-9d0e-2f3a4b5c6d7e")
	}
	return nil
}

func (r *Repository) UpdateReplacement(ctx context.Context, id string, state domain.ReplaceState, newURL, detail string) error {
	err := r.db.WithContext(ctx).Model(&entities.ImageReplacement{}).Where("id = ?", id).Updates(map[string]any{
		"state":      string(state),
		"new_url":    newURL,
		"detail":     detail,
		"updated_at": time.Now().UTC(),
	}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update replacement record", err, "4c5d6e7f-8091-42a3-8e0f-3a4b5c6d7e8f")
	}
	return nil
}

func (r *Repository) GetReplacement(ctx context.Context, id string) (*domain.ReplacementRecord, error) {
	var entity entities.ImageReplacement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"replacement not found", err, "5d6e7f80-91a2-43b4-9f01-4b5c6d7e8f90")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get replacement", err, "6e7f8091-a2b3-44c5-8012-5c6d7e8f9012")
	}
	return toRecord(entity), nil
}

// ListReplacements returns the newest records first, optionally filtered by state.
func (r *Repository) ListReplacements(ctx context.Context, state domain.ReplaceState, limit int) ([]*domain.ReplacementRecord, error) {
	query := r.db.WithContext(ctx).Model(&entities.ImageReplacement{})
	if state != "" {
		query = query.Where("state = ?", string(state))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []entities.ImageReplacement
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list replacements", err, "7f8091a2-b3c4-45d6-9123-6d7e8f901234")
	}

	records := make([]*domain.ReplacementRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}
	return records, nil
}

func unknownKind(ctx context.Context, kind domain.EntityKind) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeValidation,
		"unknown entity kind "+string(kind), nil, "8091a2b3-c4d5-46e7-8234-7e8f90123456")
}

func toEntity(record *domain.ReplacementRecord) entities.ImageReplacement {
	return entities.ImageReplacement{
		ID:         record.ID,
		EntityKind: string(record.Kind),
		EntityID:   record.EntityID,
		OldURL:     record.OldURL,
		NewURL:     record.NewURL,
		State:      string(record.State),
		Detail:     record.Detail,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func toRecord(entity entities.ImageReplacement) *domain.ReplacementRecord {
	return &domain.ReplacementRecord{
		ID:        entity.ID,
		Kind:      domain.EntityKind(entity.EntityKind),
		EntityID:  entity.EntityID,
		OldURL:    entity.OldURL,
		NewURL:    entity.NewURL,
		State:     domain.ReplaceState(entity.State),
		Detail:    entity.Detail,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}
