package service

import (
	"context"
	"errors"
	"time"

	"github.com/osama347/general-store-management-system-sub000/internal/dto"
	"github.com/osama347/general-store-management-system-sub000/internal/model"
	"github.com/osama347/general-store-management-system-sub000/internal/repository"
	"github.com/osama347/general-store-management-system-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DistributionTarget is one validated destination of a distribution.
type DistributionTarget struct {
	LocationID uuid.UUID
	Amount     int
}

// SlipEnqueuer queues the transfer-slip job once a transfer has committed.
// Satisfied by *worker.Dispatcher; stubbed in tests.
type SlipEnqueuer interface {
	EnqueueTransferSlip(ctx context.Context, payload worker.SlipJobPayload) error
}

// LedgerService is the stock ledger: one undistributed pool per product,
// per-location stock rows, and the three movements between them plus sale
// consumption. Every mutating operation runs as a single database
// transaction — Committed or Rejected, nothing in between.
type LedgerService interface {
	Intake(ctx context.Context, productID uuid.UUID, amount int) (*dto.PoolResponse, error)
	Distribute(ctx context.Context, productID uuid.UUID, targets []DistributionTarget) (*dto.DistributeResponse, error)
	Transfer(ctx context.Context, productID, fromLocationID, toLocationID uuid.UUID, amount int, actor string) (*dto.TransferResponse, error)
	Consume(ctx context.Context, productID, locationID uuid.UUID, amount int) (*dto.ConsumeResponse, error)

	ProductSummary(ctx context.Context, productID uuid.UUID) (*dto.StockSummaryResponse, error)
	ListSummaries(ctx context.Context, page, limit int) (*dto.StockSummaryListResponse, error)
	ListTransfers(ctx context.Context, filter repository.TransferFilter) (*dto.TransferListResponse, error)
}

type ledgerService struct {
	pool       repository.PoolRepository
	stock      repository.StockRepository
	transfers  repository.TransferRepository
	catalog    repository.CatalogRepository
	directory  repository.LocationRepository
	tx         repository.TxRunner
	dispatcher SlipEnqueuer
}

func NewLedgerService(
	pool repository.PoolRepository,
	stock repository.StockRepository,
	transfers repository.TransferRepository,
	catalog repository.CatalogRepository,
	directory repository.LocationRepository,
	tx repository.TxRunner,
	dispatcher SlipEnqueuer,
) LedgerService {
	return &ledgerService{
		pool:       pool,
		stock:      stock,
		transfers:  transfers,
		catalog:    catalog,
		directory:  directory,
		tx:         tx,
		dispatcher: dispatcher,
	}
}

// classifyTxErr translates storage-level failures into the ledger taxonomy.
// Domain errors produced inside the transaction pass through untouched.
// Postgres serialization failures and deadlocks become ErrConcurrencyConflict
// (retryable by the caller); everything else is a StorageError.
func classifyTxErr(err error) error {
	var nf *NotFoundError
	var ia *InsufficientAvailableError
	var is *InsufficientStockError
	if errors.As(err, &nf) || errors.As(err, &ia) || errors.As(err, &is) ||
		errors.Is(err, ErrConcurrencyConflict) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return ErrConcurrencyConflict
		case "23514": // check_violation — a guarded write raced a manual change
			return ErrConcurrencyConflict
		}
	}
	return &StorageError{Err: err}
}

// ── Intake ────────────────────────────────────────────────────────────────────

func (s *ledgerService) Intake(ctx context.Context, productID uuid.UUID, amount int) (*dto.PoolResponse, error) {
	if amount <= 0 {
		return nil, &InvalidAmountError{Amount: amount}
	}
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "product", ID: productID.String()}
		}
		return nil, &StorageError{Err: err}
	}

	txErr := s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		return s.pool.UpsertIntakeTx(tx, productID, amount)
	})
	if txErr != nil {
		return nil, classifyTxErr(txErr)
	}

	rec, err := s.pool.FindByProduct(ctx, productID)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return poolToResponse(rec), nil
}

// ── Distribute ────────────────────────────────────────────────────────────────
// Moves units from the pool into one or two locations in a single atomic
// transaction. The old flow reserved pool-side, wrote location stock, then
// finalized the pool in a third write — leaving a window where availability
// was stale whenever a later step failed. Here the pool row is locked for the
// duration of the transaction and the decrement is one guarded write.

func (s *ledgerService) Distribute(ctx context.Context, productID uuid.UUID, targets []DistributionTarget) (*dto.DistributeResponse, error) {
	total, err := s.validateTargets(ctx, targets)
	if err != nil {
		return nil, err
	}

	var pool *model.PoolRecord
	var entries []dto.StockEntryResponse
	txErr := s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		rec, err := s.pool.FindForUpdateTx(tx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "pool", ID: productID.String()}
			}
			return err
		}
		if rec.AvailableQuantity() < total {
			return &InsufficientAvailableError{
				ProductID: productID,
				Available: rec.AvailableQuantity(),
				Requested: total,
			}
		}

		// The reported quantities are captured here, inside the transaction,
		// so the response always matches the committed state even when a
		// racing transfer lands right after the commit.
		for _, t := range targets {
			if t.Amount == 0 {
				continue
			}
			qty, err := s.stock.AddTx(tx, productID, t.LocationID, t.Amount)
			if err != nil {
				return err
			}
			entries = append(entries, dto.StockEntryResponse{
				LocationID: t.LocationID.String(),
				Quantity:   qty,
			})
		}

		// The guard is authoritative even though the row is locked: a false
		// return means something changed underneath us.
		ok, err := s.pool.DeductTx(tx, productID, total)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrencyConflict
		}

		rec.TotalQuantity -= total
		pool = rec
		return nil
	})
	if txErr != nil {
		return nil, classifyTxErr(txErr)
	}

	return &dto.DistributeResponse{Pool: *poolToResponse(pool), Targets: entries}, nil
}

// validateTargets checks the target set shape and resolves each location
// against the directory. Returns the total amount to move.
func (s *ledgerService) validateTargets(ctx context.Context, targets []DistributionTarget) (int, error) {
	if len(targets) < 1 || len(targets) > 2 {
		return 0, &InvalidTargetError{Reason: "between one and two targets required"}
	}
	if len(targets) == 2 && targets[0].LocationID == targets[1].LocationID {
		return 0, &InvalidTargetError{Reason: "targets must name distinct locations"}
	}

	total := 0
	for _, t := range targets {
		if t.Amount < 0 {
			return 0, &InvalidTargetError{Reason: "target amount cannot be negative"}
		}
		total += t.Amount
	}
	if total == 0 {
		return 0, &InvalidTargetError{Reason: "at least one target amount must be positive"}
	}

	for _, t := range targets {
		if _, err := s.directory.GetLocation(ctx, t.LocationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, &NotFoundError{Resource: "location", ID: t.LocationID.String()}
			}
			return 0, &StorageError{Err: err}
		}
	}
	return total, nil
}

// ── Transfer ──────────────────────────────────────────────────────────────────

func (s *ledgerService) Transfer(ctx context.Context, productID, fromLocationID, toLocationID uuid.UUID, amount int, actor string) (*dto.TransferResponse, error) {
	if fromLocationID == toLocationID {
		return nil, &InvalidTransferError{Reason: "source and destination must differ"}
	}
	if amount <= 0 {
		return nil, &InvalidAmountError{Amount: amount}
	}
	for _, locID := range []uuid.UUID{fromLocationID, toLocationID} {
		if _, err := s.directory.GetLocation(ctx, locID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "location", ID: locID.String()}
			}
			return nil, &StorageError{Err: err}
		}
	}

	record := &model.TransferRecord{
		ProductID:      productID,
		FromLocationID: fromLocationID,
		ToLocationID:   toLocationID,
		Quantity:       amount,
		PerformedBy:    actor,
	}

	txErr := s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		src, err := s.stock.FindForUpdateTx(tx, productID, fromLocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "stock", ID: productID.String() + "@" + fromLocationID.String()}
			}
			return err
		}
		if src.Quantity < amount {
			return &InsufficientStockError{
				ProductID:  productID,
				LocationID: fromLocationID,
				Available:  src.Quantity,
				Requested:  amount,
			}
		}

		ok, err := s.stock.DeductTx(tx, productID, fromLocationID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrencyConflict
		}

		if _, err := s.stock.AddTx(tx, productID, toLocationID, amount); err != nil {
			return err
		}
		return s.transfers.CreateTx(tx, record)
	})
	if txErr != nil {
		return nil, classifyTxErr(txErr)
	}

	// Slip generation is best-effort and must never affect the committed
	// transfer — fire & forget, but a failed enqueue means the slip will
	// never exist, so leave a trace for ops.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueTransferSlip(ctx, worker.SlipJobPayload{TransferID: record.TransferID}); err != nil {
			log.Warn().Err(err).Uint64("transfer_id", record.TransferID).Msg("transfer slip enqueue failed")
		}
	}

	return transferToResponse(record), nil
}

// ── Consume ───────────────────────────────────────────────────────────────────
// A degenerate one-sided transfer: out of a store's stock, into nowhere.
// No audit row is written here — the owning sale transaction journals the
// line items on its side.

func (s *ledgerService) Consume(ctx context.Context, productID, locationID uuid.UUID, amount int) (*dto.ConsumeResponse, error) {
	if amount <= 0 {
		return nil, &InvalidAmountError{Amount: amount}
	}

	var remaining int
	txErr := s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		src, err := s.stock.FindForUpdateTx(tx, productID, locationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "stock", ID: productID.String() + "@" + locationID.String()}
			}
			return err
		}
		if src.Quantity < amount {
			return &InsufficientStockError{
				ProductID:  productID,
				LocationID: locationID,
				Available:  src.Quantity,
				Requested:  amount,
			}
		}

		ok, err := s.stock.DeductTx(tx, productID, locationID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrencyConflict
		}
		remaining = src.Quantity - amount
		return nil
	})
	if txErr != nil {
		return nil, classifyTxErr(txErr)
	}

	return &dto.ConsumeResponse{
		ProductID:  productID.String(),
		LocationID: locationID.String(),
		Quantity:   remaining,
	}, nil
}

// ── Read model ────────────────────────────────────────────────────────────────

// ProductSummary joins the pool row with every location row for one product.
func (s *ledgerService) ProductSummary(ctx context.Context, productID uuid.UUID) (*dto.StockSummaryResponse, error) {
	rec, err := s.pool.FindByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "pool", ID: productID.String()}
		}
		return nil, &StorageError{Err: err}
	}
	return s.buildSummary(ctx, rec)
}

func (s *ledgerService) ListSummaries(ctx context.Context, page, limit int) (*dto.StockSummaryListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	records, total, err := s.pool.List(ctx, page, limit)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	resp := &dto.StockSummaryListResponse{
		Data:  make([]dto.StockSummaryResponse, 0, len(records)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range records {
		summary, err := s.buildSummary(ctx, &records[i])
		if err != nil {
			return nil, err
		}
		resp.Data = append(resp.Data, *summary)
	}
	return resp, nil
}

func (s *ledgerService) buildSummary(ctx context.Context, rec *model.PoolRecord) (*dto.StockSummaryResponse, error) {
	stocks, err := s.stock.ListByProduct(ctx, rec.ProductID)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	summary := &dto.StockSummaryResponse{
		ProductID:         rec.ProductID.String(),
		TotalQuantity:     rec.TotalQuantity,
		ReservedQuantity:  rec.ReservedQuantity,
		AvailableQuantity: rec.AvailableQuantity(),
		Locations:         make([]dto.StockEntryResponse, 0, len(stocks)),
	}
	for _, st := range stocks {
		summary.DistributedQuantity += st.Quantity
		summary.Locations = append(summary.Locations, dto.StockEntryResponse{
			LocationID: st.LocationID.String(),
			Quantity:   st.Quantity,
		})
	}
	return summary, nil
}

func (s *ledgerService) ListTransfers(ctx context.Context, filter repository.TransferFilter) (*dto.TransferListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	transfers, total, err := s.transfers.List(ctx, filter)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	resp := &dto.TransferListResponse{
		Data:  make([]dto.TransferResponse, 0, len(transfers)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range transfers {
		resp.Data = append(resp.Data, *transferToResponse(&transfers[i]))
	}
	return resp, nil
}

// ── Converters ────────────────────────────────────────────────────────────────

func poolToResponse(rec *model.PoolRecord) *dto.PoolResponse {
	return &dto.PoolResponse{
		ProductID:         rec.ProductID.String(),
		TotalQuantity:     rec.TotalQuantity,
		ReservedQuantity:  rec.ReservedQuantity,
		AvailableQuantity: rec.AvailableQuantity(),
		UpdatedAt:         rec.UpdatedAt.Format(time.RFC3339),
	}
}

func transferToResponse(t *model.TransferRecord) *dto.TransferResponse {
	name := ""
	if t.Product != nil {
		name = t.Product.Name
	}
	return &dto.TransferResponse{
		TransferID:     t.TransferID,
		ProductID:      t.ProductID.String(),
		ProductName:    name,
		FromLocationID: t.FromLocationID.String(),
		ToLocationID:   t.ToLocationID.String(),
		Quantity:       t.Quantity,
		PerformedBy:    t.PerformedBy,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
}
