package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vendor repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func (r *repository) Save(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}
