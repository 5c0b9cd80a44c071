package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	ReplaceOptions(ctx context.Context, productID uuid.UUID, options []models.ProductOption) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes catalog operations. Reads are public; writes require the
// calling vendor to own the product.
type Service interface {
	Get(ctx context.Context, productID uuid.UUID) (*ProductView, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*ProductList, error)
	Create(ctx context.Context, vendorID uuid.UUID, input UpsertInput) (*ProductView, error)
	Update(ctx context.Context, vendorID, productID uuid.UUID, input UpsertInput) (*ProductView, error)
	Delete(ctx context.Context, vendorID, productID uuid.UUID) error
}
