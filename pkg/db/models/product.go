package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by one vendor. Cart lines reference it
// weakly; placed orders only ever see snapshots taken at checkout.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID    uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	BasePrice   decimal.Decimal `gorm:"column:base_price;type:numeric(14,2);not null"`
	Images      pq.StringArray  `gorm:"column:images;type:text[]"`
	Available   bool            `gorm:"column:available;not null;default:true"`
	Options     []ProductOption `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductOption is a selectable variant within a named group, e.g.
// group "Size", name "500g", adjustment +15000.
type ProductOption struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	GroupName       string          `gorm:"column:group_name;not null"`
	Name            string          `gorm:"column:name;not null"`
	PriceAdjustment decimal.Decimal `gorm:"column:price_adjustment;type:numeric(14,2);not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
