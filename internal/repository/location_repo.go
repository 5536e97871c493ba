package repository

import (
	"context"

	"github.com/osama347/general-store-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationRepository reads the location directory (warehouses and stores).
// Read-only for the same reason as CatalogRepository.
type LocationRepository interface {
	GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
}

type locationRepo struct{ db *gorm.DB }

func NewLocationRepository(db *gorm.DB) LocationRepository { return &locationRepo{db: db} }

func (r *locationRepo) GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).First(&loc, "id = ? AND active = true", id).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) List(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&locations).Error
	return locations, err
}
