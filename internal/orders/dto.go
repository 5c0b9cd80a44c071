package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
	"github.com/haletrung/vietmarket-backend/pkg/types"
)

// OrderItemView is the read shape for one snapshotted line item.
type OrderItemView struct {
	ID              uuid.UUID             `json:"id"`
	ProductID       *uuid.UUID            `json:"product_id,omitempty"`
	ProductName     string                `json:"product_name"`
	ProductImage    *string               `json:"product_image,omitempty"`
	Price           decimal.Decimal       `json:"price"`
	Quantity        int                   `json:"quantity"`
	SelectedOptions types.SelectedOptions `json:"selected_options"`
}

// SubOrderView is the read shape for one vendor's fulfillment unit.
type SubOrderView struct {
	ID             uuid.UUID            `json:"id"`
	SubOrderNumber string               `json:"sub_order_number"`
	VendorID       uuid.UUID            `json:"vendor_id"`
	VendorName     string               `json:"vendor_name,omitempty"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	Status         enums.SubOrderStatus `json:"status"`
	Items          []OrderItemView      `json:"items"`
}

// OrderView is the read shape for an aggregate order. For vendor callers the
// SubOrders slice holds only the units that vendor owns.
type OrderView struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	Status          enums.OrderStatus   `json:"status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	DeliveryName    string              `json:"delivery_name"`
	DeliveryPhone   string              `json:"delivery_phone"`
	DeliveryAddress string              `json:"delivery_address"`
	Notes           *string             `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	SubOrders       []SubOrderView      `json:"sub_orders"`
}

// OrderList is a cursor page of orders.
type OrderList struct {
	Orders     []OrderView `json:"orders"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// Caller identifies who is asking, for visibility filtering.
type Caller struct {
	UserID   uuid.UUID
	Role     enums.UserRole
	VendorID *uuid.UUID
}

// ListOrdersInput carries list parameters plus the caller identity.
type ListOrdersInput struct {
	Caller Caller
	Params pagination.Params
}

// UpdateStatusInput carries a vendor's status change request for one unit.
type UpdateStatusInput struct {
	SubOrderID uuid.UUID
	VendorID   uuid.UUID
	NewStatus  enums.SubOrderStatus
}

func buildOrderItemView(item models.OrderItem) OrderItemView {
	return OrderItemView{
		ID:              item.ID,
		ProductID:       item.ProductID,
		ProductName:     item.ProductName,
		ProductImage:    item.ProductImage,
		Price:           item.Price,
		Quantity:        item.Quantity,
		SelectedOptions: item.SelectedOptions,
	}
}

func buildSubOrderView(sub models.SubOrder, vendorNames map[uuid.UUID]string) SubOrderView {
	items := make([]OrderItemView, 0, len(sub.Items))
	for _, item := range sub.Items {
		items = append(items, buildOrderItemView(item))
	}
	return SubOrderView{
		ID:             sub.ID,
		SubOrderNumber: sub.SubOrderNumber,
		VendorID:       sub.VendorID,
		VendorName:     vendorNames[sub.VendorID],
		Subtotal:       sub.Subtotal,
		Status:         sub.Status,
		Items:          items,
	}
}

// BuildOrderView renders an order with its units and items for API responses.
func BuildOrderView(order models.Order, vendorNames map[uuid.UUID]string) OrderView {
	subs := make([]SubOrderView, 0, len(order.SubOrders))
	for _, sub := range order.SubOrders {
		subs = append(subs, buildSubOrderView(sub, vendorNames))
	}
	return OrderView{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		ShippingFee:     order.ShippingFee,
		PaymentMethod:   order.PaymentMethod,
		DeliveryName:    order.DeliveryName,
		DeliveryPhone:   order.DeliveryPhone,
		DeliveryAddress: order.DeliveryAddress,
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
		SubOrders:       subs,
	}
}
