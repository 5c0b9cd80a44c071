package address

import (
	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
)

// UpsertInput carries the fields for creating or replacing an address.
type UpsertInput struct {
	UserID         uuid.UUID
	RecipientName  string
	RecipientPhone string
	AddressLine    string
	Ward           string
	District       string
	City           string
	Label          *string
	IsDefault      bool
}

// AddressView is the read shape of one address book entry.
type AddressView struct {
	ID             uuid.UUID `json:"id"`
	RecipientName  string    `json:"recipient_name"`
	RecipientPhone string    `json:"recipient_phone"`
	AddressLine    string    `json:"address_line"`
	Ward           string    `json:"ward"`
	District       string    `json:"district"`
	City           string    `json:"city"`
	FullAddress    string    `json:"full_address"`
	Label          *string   `json:"label,omitempty"`
	IsDefault      bool      `json:"is_default"`
}

func buildView(addr models.Address) AddressView {
	return AddressView{
		ID:             addr.ID,
		RecipientName:  addr.RecipientName,
		RecipientPhone: addr.RecipientPhone,
		AddressLine:    addr.AddressLine,
		Ward:           addr.Ward,
		District:       addr.District,
		City:           addr.City,
		FullAddress:    addr.FullText(),
		Label:          addr.Label,
		IsDefault:      addr.IsDefault,
	}
}
