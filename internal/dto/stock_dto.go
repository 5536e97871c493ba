package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// IntakeRequest adds received units to a product's undistributed pool.
type IntakeRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Amount    int    `json:"amount"     validate:"required"`
}

// DistributionTargetRequest is one destination of a distribution.
// Amount zero is allowed per target — the form posts both fields and leaves
// the unused one at zero — but the targets as a whole must move something.
type DistributionTargetRequest struct {
	LocationID string `json:"location_id" validate:"required,uuid"`
	Amount     int    `json:"amount"      validate:"min=0"`
}

// DistributeRequest moves units from the pool into one or two locations.
type DistributeRequest struct {
	ProductID string                      `json:"product_id" validate:"required,uuid"`
	Targets   []DistributionTargetRequest `json:"targets"    validate:"required,min=1,max=2,dive"`
}

// TransferRequest moves already-distributed units between two locations.
type TransferRequest struct {
	ProductID      string `json:"product_id"       validate:"required,uuid"`
	FromLocationID string `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string `json:"to_location_id"   validate:"required,uuid"`
	Amount         int    `json:"amount"           validate:"required"`
}

// ConsumeRequest removes sold units from a store's stock. Called by the sale
// subsystem once per finalized line item; the sale rolls back on failure.
type ConsumeRequest struct {
	ProductID  string `json:"product_id"  validate:"required,uuid"`
	LocationID string `json:"location_id" validate:"required,uuid"`
	Amount     int    `json:"amount"      validate:"required"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

// TransferListFilter is bound from the query string of GET /v1/stock/transfers.
type TransferListFilter struct {
	ProductID  string `form:"product_id"  validate:"omitempty,uuid"`
	LocationID string `form:"location_id" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// SummaryListFilter is bound from the query string of GET /v1/stock/summary.
type SummaryListFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// PoolResponse reports the pool state after a mutation.
// AvailableQuantity is always total − reserved, computed at read time.
type PoolResponse struct {
	ProductID         string `json:"product_id"`
	TotalQuantity     int    `json:"total_quantity"`
	ReservedQuantity  int    `json:"reserved_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	UpdatedAt         string `json:"updated_at"`
}

// StockEntryResponse is one (product, location) on-hand row.
type StockEntryResponse struct {
	LocationID string `json:"location_id"`
	Quantity   int    `json:"quantity"`
}

// DistributeResponse reports the outcome of a committed distribution.
type DistributeResponse struct {
	Pool    PoolResponse         `json:"pool"`
	Targets []StockEntryResponse `json:"targets"`
}

// TransferResponse is the audit record created by a committed transfer.
type TransferResponse struct {
	TransferID     uint64 `json:"transfer_id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name,omitempty"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int    `json:"quantity"`
	PerformedBy    string `json:"performed_by"`
	CreatedAt      string `json:"created_at"`
}

type TransferListResponse struct {
	Data  []TransferResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsumeResponse reports the remaining quantity after a sale decrement.
type ConsumeResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   int    `json:"quantity"`
}

// StockSummaryResponse is the distribution view for one product: pool state
// joined with every location row. Nothing here is stored separately.
type StockSummaryResponse struct {
	ProductID           string               `json:"product_id"`
	TotalQuantity       int                  `json:"total_quantity"`
	ReservedQuantity    int                  `json:"reserved_quantity"`
	AvailableQuantity   int                  `json:"available_quantity"`
	DistributedQuantity int                  `json:"distributed_quantity"`
	Locations           []StockEntryResponse `json:"locations"`
}

type StockSummaryListResponse struct {
	Data  []StockSummaryResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}
