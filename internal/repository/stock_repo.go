package repository

import (
	"context"
	"time"

	"github.com/osama347/general-store-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository is the data access contract for per-location stock rows.
type StockRepository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockRecord, error)

	// Used inside transactions — callers must pass the tx instance.
	FindForUpdateTx(tx *gorm.DB, productID, locationID uuid.UUID) (*model.StockRecord, error)
	// AddTx adds amount to a (product, location) row, creating it lazily on
	// the first movement into that pair. Single upsert statement; returns the
	// resulting quantity so callers can report post-write state without a
	// re-read outside the transaction.
	AddTx(tx *gorm.DB, productID, locationID uuid.UUID, amount int) (int, error)
	// DeductTx subtracts amount, guarded by quantity >= amount. Returns false
	// when no row matched (missing record or insufficient stock — callers
	// distinguish the two via FindForUpdateTx).
	DeductTx(tx *gorm.DB, productID, locationID uuid.UUID, amount int) (bool, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockRecord, error) {
	var records []model.StockRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("location_id ASC").
		Find(&records).Error
	return records, err
}

func (r *stockRepo) FindForUpdateTx(tx *gorm.DB, productID, locationID uuid.UUID) (*model.StockRecord, error) {
	var rec model.StockRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rec, "product_id = ? AND location_id = ?", productID, locationID).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *stockRepo) AddTx(tx *gorm.DB, productID, locationID uuid.UUID, amount int) (int, error) {
	now := time.Now()
	rec := model.StockRecord{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "location_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("location_stock.quantity + ?", amount),
			"updated_at": now,
		}),
	}, clause.Returning{}).Create(&rec).Error
	if err != nil {
		return 0, err
	}
	return rec.Quantity, nil
}

func (r *stockRepo) DeductTx(tx *gorm.DB, productID, locationID uuid.UUID, amount int) (bool, error) {
	res := tx.Model(&model.StockRecord{}).
		Where("product_id = ? AND location_id = ? AND quantity >= ?", productID, locationID, amount).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
