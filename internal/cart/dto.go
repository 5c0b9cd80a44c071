package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haletrung/vietmarket-backend/pkg/types"
)

// AddLineInput adds one product to the customer's cart. OptionIDs reference
// the product's own options; the matching adjustments are frozen onto the
// line at add time.
type AddLineInput struct {
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
	OptionIDs  []uuid.UUID
}

// UpdateLineInput changes the quantity of one existing cart line.
type UpdateLineInput struct {
	CustomerID uuid.UUID
	ItemID     uuid.UUID
	Quantity   int
}

// CartLineView is the priced read shape of one cart line.
type CartLineView struct {
	ID              uuid.UUID             `json:"id"`
	ProductID       uuid.UUID             `json:"product_id"`
	ProductName     string                `json:"product_name"`
	ProductImage    *string               `json:"product_image,omitempty"`
	VendorID        uuid.UUID             `json:"vendor_id"`
	UnitPrice       decimal.Decimal       `json:"unit_price"`
	Quantity        int                   `json:"quantity"`
	LineTotal       decimal.Decimal       `json:"line_total"`
	SelectedOptions types.SelectedOptions `json:"selected_options"`
}

// CartView is the customer's cart with live prices.
type CartView struct {
	ID       uuid.UUID       `json:"id"`
	Items    []CartLineView  `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
