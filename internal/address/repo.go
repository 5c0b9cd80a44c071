package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an address repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var addrs []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addrs).Error
	if err != nil {
		return nil, err
	}
	return addrs, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *repository) Create(ctx context.Context, addr *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Create(addr).Error; err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *repository) Save(ctx context.Context, addr *models.Address) error {
	return r.db.WithContext(ctx).Save(addr).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Address{}).Error
}

func (r *repository) ClearDefaults(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
