package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationKind is the closed set of location types. It is validated once at
// the directory boundary; the ledger itself never branches on kind.
type LocationKind string

const (
	KindWarehouse LocationKind = "warehouse"
	KindStore     LocationKind = "store"
)

// Valid reports whether k is one of the known kinds.
func (k LocationKind) Valid() bool {
	return k == KindWarehouse || k == KindStore
}

// Location is directory data consumed read-only by the stock ledger.
// Directory management (opening/closing locations) is handled elsewhere.
type Location struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Kind      LocationKind `gorm:"type:varchar(16);not null" json:"kind"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Location) TableName() string { return "locations" }
