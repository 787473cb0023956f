package entities

import "time"

// ImageReplacement is one row of the replace/remove ledger.
type ImageReplacement struct {
	ID         string `gorm:"type:varchar(40);primaryKey"`
	EntityKind string `gorm:"column:entity_kind;type:varchar(16);not null"`
	EntityID   int64  `gorm:"column:entity_id;not null"`
	OldURL     string `gorm:"column:old_url"`
	NewURL     string `gorm:"column:new_url"`
	State      string `gorm:"type:varchar(32);not null"`
	Detail     string
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (ImageReplacement) TableName() string {
	return "image_replacements"
}
