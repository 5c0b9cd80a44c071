package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_options.created_at ASC")
		}).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_options.created_at ASC")
		}).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var list []models.Product
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Omit("Options").
		Save(product).Error
}

// ReplaceOptions rewrites the full option set of one product.
func (r *repository) ReplaceOptions(ctx context.Context, productID uuid.UUID, options []models.ProductOption) error {
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductOption{}).Error
	if err != nil {
		return err
	}
	if len(options) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&options).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{}).Error
}
