package entities

import "time"

// Exhibit is the slice of the exhibits table this service reads and writes.
type Exhibit struct {
	ID        int64   `gorm:"primaryKey"`
	Name      string  `gorm:"type:varchar(255);not null"`
	Location  string  `gorm:"type:varchar(255)"`
	ImageURL  *string `gorm:"column:image_url"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Exhibit) TableName() string {
	return "exhibits"
}
