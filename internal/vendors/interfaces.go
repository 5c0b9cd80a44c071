package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
)

// Repository defines persistence operations for vendor profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
	Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error)
	Save(ctx context.Context, vendor *models.Vendor) error
}

// Service exposes vendor profile operations. Reads are public.
type Service interface {
	Get(ctx context.Context, vendorID uuid.UUID) (*VendorView, error)
	UpdateProfile(ctx context.Context, vendorID uuid.UUID, input ProfileInput) (*VendorView, error)
}
