package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
)

// Repository defines persistence operations for the order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindSubOrder(ctx context.Context, id uuid.UUID) (*models.SubOrder, error)
	FindSubOrdersByOrder(ctx context.Context, orderID uuid.UUID) ([]models.SubOrder, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error)
	ListVendorSubOrders(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.SubOrder, error)
	UpdateSubOrderStatus(ctx context.Context, id uuid.UUID, status enums.SubOrderStatus) error
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	VendorNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// Service exposes read and status-update operations on placed orders.
type Service interface {
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderList, error)
	GetOrder(ctx context.Context, orderID uuid.UUID, caller Caller) (*OrderView, error)
	UpdateSubOrderStatus(ctx context.Context, input UpdateStatusInput) (*SubOrderView, error)
}
