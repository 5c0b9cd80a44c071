package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Address is a customer delivery destination. At most one address per user
// carries the default flag; the service layer maintains that invariant.
type Address struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	RecipientName  string    `gorm:"column:recipient_name;not null"`
	RecipientPhone string    `gorm:"column:recipient_phone;not null"`
	AddressLine    string    `gorm:"column:address_line;not null"`
	Ward           string    `gorm:"column:ward"`
	District       string    `gorm:"column:district"`
	City           string    `gorm:"column:city;not null"`
	Label          *string   `gorm:"column:label"`
	IsDefault      bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FullText renders the single-line delivery address snapshotted onto orders.
func (a Address) FullText() string {
	return fmt.Sprintf("%s, %s, %s, %s", a.AddressLine, a.Ward, a.District, a.City)
}
