package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haletrung/vietmarket-backend/pkg/enums"
	"github.com/haletrung/vietmarket-backend/pkg/types"
)

// Order is the aggregate created once per checkout. Identifying fields are
// immutable after creation; only Status changes, and only as a derivation
// from the sub-order statuses.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string              `gorm:"column:order_number;uniqueIndex;not null"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'PENDING'"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(14,2);not null"`
	ShippingFee     decimal.Decimal     `gorm:"column:shipping_fee;type:numeric(14,2);not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	DeliveryName    string              `gorm:"column:delivery_name;not null"`
	DeliveryPhone   string              `gorm:"column:delivery_phone;not null"`
	DeliveryAddress string              `gorm:"column:delivery_address;not null"`
	Notes           *string             `gorm:"column:notes"`
	SubOrders       []SubOrder          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// SubOrder is one vendor's slice of an aggregate order. The subtotal is fixed
// at creation and never recomputed.
type SubOrder struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	VendorID       uuid.UUID            `gorm:"column:vendor_id;type:uuid;not null;index"`
	SubOrderNumber string               `gorm:"column:sub_order_number;uniqueIndex;not null"`
	Subtotal       decimal.Decimal      `gorm:"column:subtotal;type:numeric(14,2);not null"`
	Status         enums.SubOrderStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	Position       int                  `gorm:"column:position;not null;default:0"`
	Order          *Order               `gorm:"foreignKey:OrderID"`
	Items          []OrderItem          `gorm:"foreignKey:SubOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is an immutable price/quantity snapshot of one cart line,
// including a serialized copy of the selected options.
type OrderItem struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SubOrderID      uuid.UUID             `gorm:"column:sub_order_id;type:uuid;not null;index"`
	ProductID       *uuid.UUID            `gorm:"column:product_id;type:uuid"`
	ProductName     string                `gorm:"column:product_name;not null"`
	ProductImage    *string               `gorm:"column:product_image"`
	Price           decimal.Decimal       `gorm:"column:price;type:numeric(14,2);not null"`
	Quantity        int                   `gorm:"column:quantity;not null"`
	SelectedOptions types.SelectedOptions `gorm:"column:selected_options;type:text"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
}
