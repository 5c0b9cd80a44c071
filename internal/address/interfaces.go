package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
)

// Repository defines persistence operations for delivery addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, addr *models.Address) (*models.Address, error)
	Save(ctx context.Context, addr *models.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearDefaults(ctx context.Context, userID uuid.UUID) error
}

// Service exposes address book operations for customers.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressView, error)
	Create(ctx context.Context, input UpsertInput) (*AddressView, error)
	Update(ctx context.Context, addressID uuid.UUID, input UpsertInput) (*AddressView, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressView, error)
}
