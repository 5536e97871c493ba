package model

import (
	"time"

	"github.com/google/uuid"
)

// TransferRecord is the append-only audit entry for a location-to-location
// movement. Rows are written exactly once inside the transfer transaction and
// are never updated or deleted — no repository method exists for either.
// Correcting a mistaken transfer means issuing a new, reverse transfer.
type TransferRecord struct {
	TransferID     uint64    `gorm:"primaryKey;autoIncrement" json:"transfer_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	FromLocationID uuid.UUID `gorm:"type:uuid;not null" json:"from_location_id"`
	ToLocationID   uuid.UUID `gorm:"type:uuid;not null" json:"to_location_id"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	PerformedBy    string    `gorm:"not null" json:"performed_by"`
	CreatedAt      time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (TransferRecord) TableName() string { return "transfers" }
