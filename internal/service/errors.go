package service

// Error taxonomy of the stock ledger. Every rejection carries enough
// structured detail (requested vs. available, conflicting ids) for the
// presentation layer to render an actionable message. Handlers translate
// these into HTTP status codes; nothing here fails silently.

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrConcurrencyConflict is returned when a guarded write lost a race with a
// concurrent operation on the same row. No partial state exists — callers may
// safely retry the whole operation from a fresh read. The ledger itself never
// retries.
var ErrConcurrencyConflict = errors.New("concurrent update conflict, retry the operation")

// NotFoundError identifies a missing PoolRecord, StockRecord, Product or
// Location.
type NotFoundError struct {
	Resource string // "product" | "location" | "pool" | "stock"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidAmountError rejects a non-positive quantity.
type InvalidAmountError struct {
	Amount int
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("amount must be a positive integer, got %d", e.Amount)
}

// InvalidTargetError rejects a malformed distribution target set
// (duplicate locations, negative amount, zero total).
type InvalidTargetError struct {
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return "invalid distribution targets: " + e.Reason
}

// InvalidTransferError rejects a transfer whose endpoints are not two
// distinct locations.
type InvalidTransferError struct {
	Reason string
}

func (e *InvalidTransferError) Error() string {
	return "invalid transfer: " + e.Reason
}

// InsufficientAvailableError rejects a distribution that exceeds the pool's
// available quantity at call time.
type InsufficientAvailableError struct {
	ProductID uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientAvailableError) Error() string {
	return fmt.Sprintf("insufficient available quantity for product %s: %d available, %d requested",
		e.ProductID, e.Available, e.Requested)
}

// InsufficientStockError rejects a transfer or consumption that exceeds the
// source location's on-hand quantity.
type InsufficientStockError struct {
	ProductID  uuid.UUID
	LocationID uuid.UUID
	Available  int
	Requested  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s at location %s: %d available, %d requested",
		e.ProductID, e.LocationID, e.Available, e.Requested)
}

// StorageError wraps a transaction that could not commit (timeout,
// connectivity, constraint). Always surfaced to the caller.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage failure: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }
