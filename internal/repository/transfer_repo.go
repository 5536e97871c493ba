package repository

import (
	"context"

	"github.com/osama347/general-store-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferFilter defines filters for listing the transfer audit trail.
type TransferFilter struct {
	ProductID  *uuid.UUID
	LocationID *uuid.UUID // matches either endpoint
	Page       int
	Limit      int
}

// TransferRepository is append-and-read only. There is deliberately no Update
// or Delete: transfer rows are the audit trail and are immutable once written.
type TransferRepository interface {
	CreateTx(tx *gorm.DB, t *model.TransferRecord) error
	FindByID(ctx context.Context, id uint64) (*model.TransferRecord, error)
	List(ctx context.Context, filter TransferFilter) ([]model.TransferRecord, int64, error)
}

type transferRepo struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) TransferRepository { return &transferRepo{db: db} }

func (r *transferRepo) CreateTx(tx *gorm.DB, t *model.TransferRecord) error {
	return tx.Create(t).Error
}

func (r *transferRepo) FindByID(ctx context.Context, id uint64) (*model.TransferRecord, error) {
	var t model.TransferRecord
	err := r.db.WithContext(ctx).Preload("Product").First(&t, "transfer_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transferRepo) List(ctx context.Context, filter TransferFilter) ([]model.TransferRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.TransferRecord{}).Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.LocationID != nil {
		q = q.Where("from_location_id = ? OR to_location_id = ?", *filter.LocationID, *filter.LocationID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var transfers []model.TransferRecord
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&transfers).Error
	return transfers, total, err
}
