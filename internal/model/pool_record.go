package model

import (
	"time"

	"github.com/google/uuid"
)

// PoolRecord holds the undistributed stock for one product. One row per
// product, created on first intake, never deleted.
//
// AvailableQuantity is derived (total − reserved) and intentionally not a
// column: persisting it separately is how the old system let availability
// drift out of sync with its own components mid-operation.
type PoolRecord struct {
	ProductID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	TotalQuantity    int       `gorm:"not null;default:0" json:"total_quantity"`
	ReservedQuantity int       `gorm:"not null;default:0" json:"reserved_quantity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (PoolRecord) TableName() string { return "pool_ledger" }

// AvailableQuantity is the ceiling for a new distribution.
func (p *PoolRecord) AvailableQuantity() int {
	return p.TotalQuantity - p.ReservedQuantity
}
