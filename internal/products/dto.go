package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
)

// OptionInput describes one selectable variant within a group.
type OptionInput struct {
	GroupName       string          `json:"group_name"`
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// UpsertInput carries the fields for creating or replacing a product. Options
// are replaced wholesale on update.
type UpsertInput struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Images      []string        `json:"images"`
	Available   *bool           `json:"available"`
	Options     []OptionInput   `json:"options"`
}

// OptionView is the read shape of one product option.
type OptionView struct {
	ID              uuid.UUID       `json:"id"`
	GroupName       string          `json:"group_name"`
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// ProductView is the read shape of one catalog entry.
type ProductView struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Images      []string        `json:"images"`
	Available   bool            `json:"available"`
	Options     []OptionView    `json:"options"`
}

// ProductList is one page of a vendor's catalog.
type ProductList struct {
	Items      []ProductView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func buildView(product models.Product) ProductView {
	options := make([]OptionView, 0, len(product.Options))
	for _, opt := range product.Options {
		options = append(options, OptionView{
			ID:              opt.ID,
			GroupName:       opt.GroupName,
			Name:            opt.Name,
			PriceAdjustment: opt.PriceAdjustment,
		})
	}
	return ProductView{
		ID:          product.ID,
		VendorID:    product.VendorID,
		Name:        product.Name,
		Description: product.Description,
		BasePrice:   product.BasePrice,
		Images:      append([]string(nil), product.Images...),
		Available:   product.Available,
		Options:     options,
	}
}
