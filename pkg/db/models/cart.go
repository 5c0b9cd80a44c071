package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/pkg/types"
)

// Cart holds a customer's pending lines. It is created lazily on first
// access and drained, not deleted, by a successful checkout.
type Cart struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;uniqueIndex;not null"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one cart line. Selected options are frozen at add-time into a
// serialized blob; the product reference stays live until checkout snapshots
// the price.
type CartItem struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID          uuid.UUID             `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID       uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Quantity        int                   `gorm:"column:quantity;not null;default:1"`
	SelectedOptions types.SelectedOptions `gorm:"column:selected_options;type:text"`
	Product         *Product              `gorm:"foreignKey:ProductID"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
