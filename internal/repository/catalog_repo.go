package repository

import (
	"context"

	"github.com/osama347/general-store-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository reads product catalog data. The ledger consumes the
// catalog strictly read-only; product management happens in the back-office
// product module against the same database.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, page, limit int) ([]model.Product, int64, error)
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ? AND active = true", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepo) List(ctx context.Context, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("active = true")
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

	err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}
