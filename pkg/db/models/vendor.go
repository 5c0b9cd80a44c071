package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is the seller profile owned by a user with the VENDOR role.
type Vendor struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	StoreName   string    `gorm:"column:store_name;not null"`
	Description *string   `gorm:"column:description"`
	City        *string   `gorm:"column:city"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
