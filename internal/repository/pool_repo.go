package repository

import (
	"context"
	"time"

	"github.com/osama347/general-store-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PoolRepository is the data access contract for the undistributed pool.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type PoolRepository interface {
	FindByProduct(ctx context.Context, productID uuid.UUID) (*model.PoolRecord, error)
	List(ctx context.Context, page, limit int) ([]model.PoolRecord, int64, error)

	// Used inside transactions — callers must pass the tx instance.
	// FindForUpdateTx takes a row-level lock held until the tx ends, which
	// serializes concurrent operations on the same product without blocking
	// operations on other products.
	FindForUpdateTx(tx *gorm.DB, productID uuid.UUID) (*model.PoolRecord, error)
	// UpsertIntakeTx adds amount to the pool, creating the record on first
	// intake. Single statement, atomic.
	UpsertIntakeTx(tx *gorm.DB, productID uuid.UUID, amount int) error
	// DeductTx subtracts amount from total_quantity, guarded so that
	// available (total − reserved) can never go negative. Returns false when
	// the guard rejected the write.
	DeductTx(tx *gorm.DB, productID uuid.UUID, amount int) (bool, error)
}

type poolRepo struct{ db *gorm.DB }

func NewPoolRepository(db *gorm.DB) PoolRepository { return &poolRepo{db: db} }

func (r *poolRepo) FindByProduct(ctx context.Context, productID uuid.UUID) (*model.PoolRecord, error) {
	var rec model.PoolRecord
	err := r.db.WithContext(ctx).First(&rec, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *poolRepo) List(ctx context.Context, page, limit int) ([]model.PoolRecord, int64, error) {
	var records []model.PoolRecord
	var total int64

	q := r.db.WithContext(ctx).Model(&model.PoolRecord{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	err := q.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&records).Error
	return records, total, err
}

func (r *poolRepo) FindForUpdateTx(tx *gorm.DB, productID uuid.UUID) (*model.PoolRecord, error) {
	var rec model.PoolRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rec, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *poolRepo) UpsertIntakeTx(tx *gorm.DB, productID uuid.UUID, amount int) error {
	now := time.Now()
	rec := model.PoolRecord{
		ProductID:     productID,
		TotalQuantity: amount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_quantity": gorm.Expr("pool_ledger.total_quantity + ?", amount),
			"updated_at":     now,
		}),
	}).Create(&rec).Error
}

func (r *poolRepo) DeductTx(tx *gorm.DB, productID uuid.UUID, amount int) (bool, error) {
	res := tx.Model(&model.PoolRecord{}).
		Where("product_id = ? AND total_quantity - reserved_quantity >= ?", productID, amount).
		Updates(map[string]interface{}{
			"total_quantity": gorm.Expr("total_quantity - ?", amount),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
