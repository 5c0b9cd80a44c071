package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
)

// Repository defines persistence operations for carts and cart lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCartByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindCartItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteCartItem(ctx context.Context, itemID uuid.UUID) error
	DeleteCartItems(ctx context.Context, cartID uuid.UUID) error
}

// Service exposes cart reads and line mutations for customers.
type Service interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*CartView, error)
	AddLine(ctx context.Context, input AddLineInput) (*CartView, error)
	UpdateLineQuantity(ctx context.Context, input UpdateLineInput) (*CartView, error)
	RemoveLine(ctx context.Context, customerID, itemID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}
