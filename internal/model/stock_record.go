package model

import (
	"time"

	"github.com/google/uuid"
)

// StockRecord is the on-hand quantity of a product at a single location.
// Created lazily on the first movement into a (product, location) pair and
// kept forever — a row at zero means "known empty", which is different from
// "never stocked here".
type StockRecord struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	LocationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"location_id"`
	Quantity   int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Product  *Product  `gorm:"foreignKey:ProductID" json:"-"`
	Location *Location `gorm:"foreignKey:LocationID" json:"-"`
}

func (StockRecord) TableName() string { return "location_stock" }
