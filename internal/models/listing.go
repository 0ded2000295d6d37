package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Listing struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Description  string    `gorm:"column:description;not null" json:"description"`
	Photos       []string  `gorm:"column:photos;serializer:json" json:"photos"`
	Price        float64   `gorm:"column:price;not null" json:"price"`
	Available    bool      `gorm:"column:available;not null" json:"available"`
	MinDuration  int       `gorm:"column:min_duration;not null" json:"min_duration"`
	MaxDuration  int       `gorm:"column:max_duration;not null" json:"max_duration"`
	Extras       []string  `gorm:"column:extras;serializer:json" json:"extras"`
	Year         int       `gorm:"column:year;not null" json:"year"`
	Size         string    `gorm:"column:size;not null" json:"size"`
	Transmission string    `gorm:"column:transmission;not null" json:"transmission"`
	FuelType     string    `gorm:"column:fuel_type;not null" json:"fuelType"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Listing) TableName() string {
	return "listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
