package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
)

// Reservation references its listing and user by id only; the preloaded
// records are serialized alongside when a handler asks for them.
type Reservation struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID         `gorm:"column:listing_id;type:uuid;not null;index" json:"listing"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index" json:"user"`
	StartDate time.Time         `gorm:"column:start_date;not null" json:"start"`
	EndDate   time.Time         `gorm:"column:end_date;not null" json:"end"`
	Status    ReservationStatus `gorm:"column:status;not null" json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`

	Listing *Listing `gorm:"foreignKey:ListingID" json:"listingDetails,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"userDetails,omitempty"`
}

// TableName specifies the table name
func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReservationStatusPending
	}
	return nil
}
