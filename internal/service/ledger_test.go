package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/osama347/general-store-management-system-sub000/internal/model"
	"github.com/osama347/general-store-management-system-sub000/internal/repository"
	"github.com/osama347/general-store-management-system-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// The ledger is exercised against in-memory repositories sharing one state
// struct. The test TxRunner snapshots the state before each transaction and
// restores it when the transaction function fails, which lets the tests
// assert the all-or-nothing behavior without a database.

type stockKey struct {
	product  uuid.UUID
	location uuid.UUID
}

type memState struct {
	mu             sync.Mutex
	pools          map[uuid.UUID]model.PoolRecord
	stocks         map[stockKey]model.StockRecord
	transfers      []model.TransferRecord
	nextTransferID uint64

	products  map[uuid.UUID]model.Product
	locations map[uuid.UUID]model.Location

	failTransferInsert bool
	stockDeductErr     error
}

func newMemState() *memState {
	return &memState{
		pools:          make(map[uuid.UUID]model.PoolRecord),
		stocks:         make(map[stockKey]model.StockRecord),
		nextTransferID: 1,
		products:       make(map[uuid.UUID]model.Product),
		locations:      make(map[uuid.UUID]model.Location),
	}
}

func (s *memState) snapshot() (map[uuid.UUID]model.PoolRecord, map[stockKey]model.StockRecord, []model.TransferRecord, uint64) {
	pools := make(map[uuid.UUID]model.PoolRecord, len(s.pools))
	for k, v := range s.pools {
		pools[k] = v
	}
	stocks := make(map[stockKey]model.StockRecord, len(s.stocks))
	for k, v := range s.stocks {
		stocks[k] = v
	}
	transfers := make([]model.TransferRecord, len(s.transfers))
	copy(transfers, s.transfers)
	return pools, stocks, transfers, s.nextTransferID
}

// memTxRunner serializes transactions with the state mutex and rolls the
// state back when fn fails.
type memTxRunner struct{ st *memState }

func (r *memTxRunner) RunInTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	pools, stocks, transfers, nextID := r.st.snapshot()
	if err := fn(nil); err != nil {
		r.st.pools = pools
		r.st.stocks = stocks
		r.st.transfers = transfers
		r.st.nextTransferID = nextID
		return err
	}
	return nil
}

// ── Stub repositories ─────────────────────────────────────────────────────────

type memPoolRepo struct{ st *memState }

func (r *memPoolRepo) FindByProduct(_ context.Context, productID uuid.UUID) (*model.PoolRecord, error) {
	rec, ok := r.st.pools[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *memPoolRepo) List(_ context.Context, page, limit int) ([]model.PoolRecord, int64, error) {
	records := make([]model.PoolRecord, 0, len(r.st.pools))
	for _, rec := range r.st.pools {
		records = append(records, rec)
	}
	return records, int64(len(records)), nil
}

func (r *memPoolRepo) FindForUpdateTx(_ *gorm.DB, productID uuid.UUID) (*model.PoolRecord, error) {
	rec, ok := r.st.pools[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *memPoolRepo) UpsertIntakeTx(_ *gorm.DB, productID uuid.UUID, amount int) error {
	rec := r.st.pools[productID]
	rec.ProductID = productID
	rec.TotalQuantity += amount
	r.st.pools[productID] = rec
	return nil
}

func (r *memPoolRepo) DeductTx(_ *gorm.DB, productID uuid.UUID, amount int) (bool, error) {
	rec, ok := r.st.pools[productID]
	if !ok || rec.TotalQuantity-rec.ReservedQuantity < amount {
		return false, nil
	}
	rec.TotalQuantity -= amount
	r.st.pools[productID] = rec
	return true, nil
}

type memStockRepo struct{ st *memState }

func (r *memStockRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.StockRecord, error) {
	var records []model.StockRecord
	for k, rec := range r.st.stocks {
		if k.product == productID {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (r *memStockRepo) FindForUpdateTx(_ *gorm.DB, productID, locationID uuid.UUID) (*model.StockRecord, error) {
	rec, ok := r.st.stocks[stockKey{productID, locationID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *memStockRepo) AddTx(_ *gorm.DB, productID, locationID uuid.UUID, amount int) (int, error) {
	key := stockKey{productID, locationID}
	rec := r.st.stocks[key]
	rec.ProductID = productID
	rec.LocationID = locationID
	rec.Quantity += amount
	r.st.stocks[key] = rec
	return rec.Quantity, nil
}

func (r *memStockRepo) DeductTx(_ *gorm.DB, productID, locationID uuid.UUID, amount int) (bool, error) {
	if r.st.stockDeductErr != nil {
		return false, r.st.stockDeductErr
	}
	key := stockKey{productID, locationID}
	rec, ok := r.st.stocks[key]
	if !ok || rec.Quantity < amount {
		return false, nil
	}
	rec.Quantity -= amount
	r.st.stocks[key] = rec
	return true, nil
}

type memTransferRepo struct{ st *memState }

func (r *memTransferRepo) CreateTx(_ *gorm.DB, t *model.TransferRecord) error {
	if r.st.failTransferInsert {
		return errors.New("simulated insert failure")
	}
	t.TransferID = r.st.nextTransferID
	r.st.nextTransferID++
	r.st.transfers = append(r.st.transfers, *t)
	return nil
}

func (r *memTransferRepo) FindByID(_ context.Context, id uint64) (*model.TransferRecord, error) {
	for i := range r.st.transfers {
		if r.st.transfers[i].TransferID == id {
			return &r.st.transfers[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTransferRepo) List(_ context.Context, filter repository.TransferFilter) ([]model.TransferRecord, int64, error) {
	var out []model.TransferRecord
	for _, t := range r.st.transfers {
		if filter.ProductID != nil && t.ProductID != *filter.ProductID {
			continue
		}
		if filter.LocationID != nil && t.FromLocationID != *filter.LocationID && t.ToLocationID != *filter.LocationID {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

type memCatalogRepo struct{ st *memState }

func (r *memCatalogRepo) GetProduct(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *memCatalogRepo) List(_ context.Context, page, limit int) ([]model.Product, int64, error) {
	products := make([]model.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		products = append(products, p)
	}
	return products, int64(len(products)), nil
}

type memLocationRepo struct{ st *memState }

func (r *memLocationRepo) GetLocation(_ context.Context, id uuid.UUID) (*model.Location, error) {
	loc, ok := r.st.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &loc, nil
}

func (r *memLocationRepo) List(_ context.Context) ([]model.Location, error) {
	locations := make([]model.Location, 0, len(r.st.locations))
	for _, loc := range r.st.locations {
		locations = append(locations, loc)
	}
	return locations, nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type ledgerFixture struct {
	st     *memState
	ledger LedgerService

	product   uuid.UUID
	warehouse uuid.UUID
	storeA    uuid.UUID
	storeB    uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	st := newMemState()

	f := &ledgerFixture{
		st:        st,
		product:   uuid.New(),
		warehouse: uuid.New(),
		storeA:    uuid.New(),
		storeB:    uuid.New(),
	}
	st.products[f.product] = model.Product{ID: f.product, Name: "LED Desk Lamp", SKU: "LAMP-001", Active: true}
	st.locations[f.warehouse] = model.Location{ID: f.warehouse, Name: "Central Warehouse", Kind: model.KindWarehouse, Active: true}
	st.locations[f.storeA] = model.Location{ID: f.storeA, Name: "Main Street Store", Kind: model.KindStore, Active: true}
	st.locations[f.storeB] = model.Location{ID: f.storeB, Name: "Riverside Store", Kind: model.KindStore, Active: true}

	f.ledger = NewLedgerService(
		&memPoolRepo{st}, &memStockRepo{st}, &memTransferRepo{st},
		&memCatalogRepo{st}, &memLocationRepo{st}, &memTxRunner{st}, nil,
	)
	return f
}

func (f *ledgerFixture) setPool(total, reserved int) {
	f.st.pools[f.product] = model.PoolRecord{ProductID: f.product, TotalQuantity: total, ReservedQuantity: reserved}
}

func (f *ledgerFixture) setStock(location uuid.UUID, qty int) {
	f.st.stocks[stockKey{f.product, location}] = model.StockRecord{ProductID: f.product, LocationID: location, Quantity: qty}
}

func (f *ledgerFixture) stockQty(location uuid.UUID) int {
	return f.st.stocks[stockKey{f.product, location}].Quantity
}

// totalUnits sums pool plus all location rows; movements must preserve it.
func (f *ledgerFixture) totalUnits() int {
	total := f.st.pools[f.product].TotalQuantity
	for k, rec := range f.st.stocks {
		if k.product == f.product {
			total += rec.Quantity
		}
	}
	return total
}

// ── Intake ────────────────────────────────────────────────────────────────────

func TestIntakeCreatesPoolOnFirstReceipt(t *testing.T) {
	f := newLedgerFixture(t)

	resp, err := f.ledger.Intake(context.Background(), f.product, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, resp.TotalQuantity)
	assert.Equal(t, 40, resp.AvailableQuantity)
	assert.Equal(t, 0, resp.ReservedQuantity)
}

func TestIntakeAccumulates(t *testing.T) {
	f := newLedgerFixture(t)
	f.setPool(40, 0)

	resp, err := f.ledger.Intake(context.Background(), f.product, 25)
	require.NoError(t, err)
	assert.Equal(t, 65, resp.TotalQuantity)
}

func TestIntakeRejectsNonPositiveAmount(t *testing.T) {
	f := newLedgerFixture(t)

	for _, amount := range []int{0, -5} {
		_, err := f.ledger.Intake(context.Background(), f.product, amount)
		var invalid *InvalidAmountError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, amount, invalid.Amount)
	}
}

func TestIntakeRejectsUnknownProduct(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.Intake(context.Background(), uuid.New(), 10)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Resource)
}

// ── Distribute ────────────────────────────────────────────────────────────────

func TestDistributeSplitsAcrossTwoStores(t *testing.T) {
	f := newLedgerFixture(t)
	f.setPool(100, 0)

	resp, err := f.ledger.Distribute(context.Background(), f.product, []DistributionTarget{
		{LocationID: f.storeA, Amount: 30},
		{LocationID: f.storeB, Amount: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, 50, resp.Pool.TotalQuantity)
	assert.Equal(t, 50, resp.Pool.AvailableQuantity)
	assert.Equal(t, 30, f.stockQty(f.storeA))
	assert.Equal(t, 20, f.stockQty(f.storeB))
	assert.Equal(t, 100, f.totalUnits())

	// Reported target quantities are the committed post-upsert values.
	require.Len(t, resp.Targets, 2)
	assert.Equal(t, 30, resp.Targets[0].Quantity)
	assert.Equal(t, 20, resp.Targets[1].Quantity)
}

func TestDistributeSingleTargetAccumulatesStock(t *testing.T) {
	f := newLedgerFixture(t)
	f.setPool(80, 0)
	f.setStock(f.storeA, 15)

	resp, err := f.ledger.Distribute(context.Background(), f.product, []DistributionTarget{
		{LocationID: f.storeA, Amount: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, f.stockQty(f.storeA))
	assert.Equal(t, 70, f.st.pools[f.product].TotalQuantity)

	require.Len(t, resp.Targets, 1)
	assert.Equal(t, 25, resp.Targets[0].Quantity)
}

func TestDistributeZeroAmountTargetIsSkipped(t *testing.T) {
	f := newLedgerFixture(t)
	f.setPool(50, 0)

	resp, err := f.ledger.Distribute(context.Background(), f.product, []DistributionTarget{
		{LocationID: f.storeA, Amount: 20},
		{LocationID: f.storeB, Amount: 0},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Targets, 1)
	_, exists := f.st.stocks[stockKey{f.product, f.storeB}]
	assert.False(t, exists, "zero target must not create a stock row")
}

func TestDistributeRejectsExceedingAvailable(t *testing.T) {
	f := newLedgerFixture(t)
	f.setPool(100, 70) // available = 30

	_, err := f.ledger.Distribute(context.Background(), f.product, []DistributionTarget{
		{LocationID: f.storeA, Amount: 31},
	})
	var insufficient *InsufficientAvailableError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 30, insufficient.Available)
	assert.Equal(t, 31, insufficient.Requested)

	// Nothing moved
	assert.Equal(t, 100, f.st.pools[f.product].TotalQuantity)
	assert.Equal(t, 0, f.stockQty(f.storeA))
}

func TestDistributeValidatesTargetSet(t *testing.T) {
	f := newLedgerFixture(t)
	f.setPool(100, 0)

	cases := []struct {
		name    string
		targets []DistributionTarget
	}{
		{"no targets", nil},
		{"three targets", []DistributionTarget{
			{LocationID: f.storeA, Amount: 1},
			{LocationID: f.storeB, Amount: 1},
			{LocationID: f.warehouse, Amount: 1},
		}},
		{"duplicate locations", []DistributionTarget{
			{LocationID: f.storeA, Amount: 1},
			{LocationID: f.storeA, Amount: 2},
		}},
		{"negative amount", []DistributionTarget{
			{LocationID: f.storeA, Amount: -1},
		}},
		{"all zero", []DistributionTarget{
			{LocationID: f.storeA, Amount: 0},
			{LocationID: f.storeB, Amount: 0},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.Distribute(context.Background(), f.product, tc.targets)
			var invalid *InvalidTargetError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestDistributeRejectsUnknownLocation(t *testing.T) {
	f := newLedgerFixture(t)
	f.setPool(100, 0)

	_, err := f.ledger.Distribute(context.Background(), f.product, []DistributionTarget{
		{LocationID: uuid.New(), Amount: 10},
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "location", nf.Resource)
}

func TestDistributeRejectsMissingPool(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.Distribute(context.Background(), f.product, []DistributionTarget{
		{LocationID: f.storeA, Amount: 10},
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "pool", nf.Resource)
}

// ── Transfer ──────────────────────────────────────────────────────────────────

func TestTransferMovesStockAndAppendsAudit(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 30)

	resp, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 12, "mgonzalez")
	require.NoError(t, err)

	assert.Equal(t, 18, f.stockQty(f.storeA))
	assert.Equal(t, 12, f.stockQty(f.storeB))
	assert.Equal(t, uint64(1), resp.TransferID)
	assert.Equal(t, "mgonzalez", resp.PerformedBy)

	require.Len(t, f.st.transfers, 1)
	audit := f.st.transfers[0]
	assert.Equal(t, f.storeA, audit.FromLocationID)
	assert.Equal(t, f.storeB, audit.ToLocationID)
	assert.Equal(t, 12, audit.Quantity)
}

func TestTransferIDsAreMonotonic(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 30)

	first, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 5, "a")
	require.NoError(t, err)
	second, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 5, "a")
	require.NoError(t, err)
	assert.Greater(t, second.TransferID, first.TransferID)
}

func TestTransferRejectsSameEndpoints(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 30)

	_, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeA, 5, "a")
	var invalid *InvalidTransferError
	require.ErrorAs(t, err, &invalid)
}

func TestTransferRejectsInsufficientStock(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 4)

	_, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 5, "a")
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)

	// Source untouched, no audit row
	assert.Equal(t, 4, f.stockQty(f.storeA))
	assert.Empty(t, f.st.transfers)
}

func TestTransferRejectsMissingSourceRow(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 5, "a")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "stock", nf.Resource)
}

func TestTransferRollsBackWhenAuditInsertFails(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 30)
	f.st.failTransferInsert = true

	_, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 12, "a")
	var storage *StorageError
	require.ErrorAs(t, err, &storage)

	// The whole movement rolled back with the audit write.
	assert.Equal(t, 30, f.stockQty(f.storeA))
	assert.Equal(t, 0, f.stockQty(f.storeB))
	assert.Empty(t, f.st.transfers)
}

// ── Slip dispatch ─────────────────────────────────────────────────────────────

type stubEnqueuer struct {
	err error
	got []worker.SlipJobPayload
}

func (s *stubEnqueuer) EnqueueTransferSlip(_ context.Context, p worker.SlipJobPayload) error {
	s.got = append(s.got, p)
	return s.err
}

func (f *ledgerFixture) withEnqueuer(enq SlipEnqueuer) {
	f.ledger = NewLedgerService(
		&memPoolRepo{f.st}, &memStockRepo{f.st}, &memTransferRepo{f.st},
		&memCatalogRepo{f.st}, &memLocationRepo{f.st}, &memTxRunner{f.st}, enq,
	)
}

func TestTransferEnqueuesSlipJob(t *testing.T) {
	f := newLedgerFixture(t)
	enq := &stubEnqueuer{}
	f.withEnqueuer(enq)
	f.setStock(f.storeA, 30)

	resp, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 12, "a")
	require.NoError(t, err)
	require.Len(t, enq.got, 1)
	assert.Equal(t, resp.TransferID, enq.got[0].TransferID)
}

func TestTransferSucceedsWhenSlipEnqueueFails(t *testing.T) {
	f := newLedgerFixture(t)
	f.withEnqueuer(&stubEnqueuer{err: errors.New("queue unavailable")})
	f.setStock(f.storeA, 30)

	// The slip is best-effort; the committed movement must not be affected.
	_, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 12, "a")
	require.NoError(t, err)
	assert.Equal(t, 18, f.stockQty(f.storeA))
	assert.Equal(t, 12, f.stockQty(f.storeB))
	assert.Len(t, f.st.transfers, 1)
}

// ── Storage error classification ──────────────────────────────────────────────

func TestClassifyTxErrMapsRetryablePostgresCodes(t *testing.T) {
	// serialization_failure, deadlock_detected, check_violation
	for _, code := range []string{"40001", "40P01", "23514"} {
		err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: code})
		assert.ErrorIs(t, classifyTxErr(err), ErrConcurrencyConflict, "code %s", code)
	}
}

func TestClassifyTxErrWrapsOtherFailures(t *testing.T) {
	var storage *StorageError

	err := classifyTxErr(errors.New("connection reset"))
	require.ErrorAs(t, err, &storage)

	// Postgres errors outside the retryable set are storage failures too.
	err = classifyTxErr(fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}))
	require.ErrorAs(t, err, &storage)
}

func TestClassifyTxErrPassesDomainErrorsThrough(t *testing.T) {
	domain := &InsufficientStockError{Available: 1, Requested: 2}
	var is *InsufficientStockError
	require.ErrorAs(t, classifyTxErr(domain), &is)
	assert.Equal(t, domain, is)
}

func TestConsumeSurfacesSerializationFailureAsConflict(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 10)
	f.st.stockDeductErr = fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40001"})

	_, err := f.ledger.Consume(context.Background(), f.product, f.storeA, 3)
	require.ErrorIs(t, err, ErrConcurrencyConflict)

	// Rolled back, nothing moved
	f.st.stockDeductErr = nil
	assert.Equal(t, 10, f.stockQty(f.storeA))
}

// ── Consume ───────────────────────────────────────────────────────────────────

func TestConsumeDecrementsStock(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 10)

	resp, err := f.ledger.Consume(context.Background(), f.product, f.storeA, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Quantity)
	assert.Equal(t, 7, f.stockQty(f.storeA))
}

func TestConsumeToZeroKeepsRow(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 3)

	resp, err := f.ledger.Consume(context.Background(), f.product, f.storeA, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Quantity)

	_, exists := f.st.stocks[stockKey{f.product, f.storeA}]
	assert.True(t, exists, "depleted rows stay for future restocks")
}

func TestConsumeRejectsOverdraw(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 2)

	_, err := f.ledger.Consume(context.Background(), f.product, f.storeA, 3)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, f.stockQty(f.storeA))
}

func TestConsumeRejectsMissingRow(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.Consume(context.Background(), f.product, f.storeA, 1)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

// Two clerks selling the last units at the same time: exactly one sale may
// succeed, and stock never goes negative.
func TestConcurrentConsumeOnlyOneSucceeds(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ledger.Consume(context.Background(), f.product, f.storeA, 4)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var insufficient *InsufficientStockError
			assert.ErrorAs(t, err, &insufficient)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.stockQty(f.storeA))
}

// ── Read model ────────────────────────────────────────────────────────────────

func TestProductSummaryJoinsPoolAndLocations(t *testing.T) {
	f := newLedgerFixture(t)
	f.setPool(50, 0)
	f.setStock(f.storeA, 30)
	f.setStock(f.storeB, 20)

	resp, err := f.ledger.ProductSummary(context.Background(), f.product)
	require.NoError(t, err)
	assert.Equal(t, 50, resp.TotalQuantity)
	assert.Equal(t, 50, resp.AvailableQuantity)
	assert.Equal(t, 50, resp.DistributedQuantity)
	assert.Len(t, resp.Locations, 2)
}

func TestProductSummaryUnknownProduct(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.ProductSummary(context.Background(), uuid.New())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestListTransfersFilters(t *testing.T) {
	f := newLedgerFixture(t)
	f.setStock(f.storeA, 30)

	_, err := f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 5, "a")
	require.NoError(t, err)
	_, err = f.ledger.Transfer(context.Background(), f.product, f.storeA, f.warehouse, 5, "a")
	require.NoError(t, err)

	byLocation, err := f.ledger.ListTransfers(context.Background(), repository.TransferFilter{LocationID: &f.storeB})
	require.NoError(t, err)
	assert.Len(t, byLocation.Data, 1)

	otherProduct := uuid.New()
	byProduct, err := f.ledger.ListTransfers(context.Background(), repository.TransferFilter{ProductID: &otherProduct})
	require.NoError(t, err)
	assert.Empty(t, byProduct.Data)
}

// Distribution then transfer then consumption: every step preserves the
// product's total unit count until the sale removes units from the system.
func TestMovementsConserveTotalUnits(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.Intake(context.Background(), f.product, 100)
	require.NoError(t, err)
	require.Equal(t, 100, f.totalUnits())

	_, err = f.ledger.Distribute(context.Background(), f.product, []DistributionTarget{
		{LocationID: f.storeA, Amount: 60},
		{LocationID: f.storeB, Amount: 10},
	})
	require.NoError(t, err)
	require.Equal(t, 100, f.totalUnits())

	_, err = f.ledger.Transfer(context.Background(), f.product, f.storeA, f.storeB, 25, "a")
	require.NoError(t, err)
	require.Equal(t, 100, f.totalUnits())

	_, err = f.ledger.Consume(context.Background(), f.product, f.storeB, 5)
	require.NoError(t, err)
	assert.Equal(t, 95, f.totalUnits())
}
