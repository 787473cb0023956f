package entities

import "time"

// Animal is the slice of the animals table this service reads and writes.
type Animal struct {
	ID        int64   `gorm:"primaryKey"`
	Name      string  `gorm:"type:varchar(255);not null"`
	Species   string  `gorm:"type:varchar(255)"`
	ImageURL  *string `gorm:"column:image_url"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Animal) TableName() string {
	return "animals"
}
