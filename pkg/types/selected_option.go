package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// SelectedOption is one customer-chosen product variant (size, add-on, ...)
// captured when the line is added to the cart. The price adjustment is frozen
// at that moment; later catalog edits never reach back into placed orders.
type SelectedOption struct {
	Group           string          `json:"group"`
	OptionName      string          `json:"optionName"`
	PriceAdjustment decimal.Decimal `json:"priceAdjustment"`
}

// SelectedOptions is persisted as a single JSON text column. The same schema
// is used on cart lines and order items so the snapshot round-trips intact
// from cart to placed order.
type SelectedOptions []SelectedOption

// TotalAdjustment sums every option's price adjustment. Adjustments may be
// negative; the sum is not clamped.
func (s SelectedOptions) TotalAdjustment() decimal.Decimal {
	total := decimal.Zero
	for _, opt := range s {
		total = total.Add(opt.PriceAdjustment)
	}
	return total
}

// Value implements driver.Valuer, serializing to the stored text format.
func (s SelectedOptions) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal selected options: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the stored text format.
func (s *SelectedOptions) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported selected options source %T", src)
	}
	if len(raw) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(raw, s)
}
