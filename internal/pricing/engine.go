package pricing

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/haletrung/vietmarket-backend/pkg/config"
	"github.com/haletrung/vietmarket-backend/pkg/types"
)

// Alias lists are stored pre-folded; inputs are folded before matching so
// accented and unaccented spellings hit the same bucket.
var (
	majorCityAliases = []string{
		"ha noi",
		"ho chi minh",
		"tp.hcm",
		"sai gon",
		"saigon",
		"da nang",
	}

	remoteProvinceAliases = []string{
		"lai chau",
		"dien bien",
		"son la",
		"ha giang",
		"cao bang",
		"bac kan",
		"lao cai",
	}
)

// Engine computes effective unit prices and shipping fees. It is a pure
// calculator with no storage or transport dependencies.
type Engine struct {
	shipping config.ShippingConfig
}

// NewEngine builds a pricing engine from the shipping fee policy.
func NewEngine(shipping config.ShippingConfig) *Engine {
	return &Engine{shipping: shipping}
}

// UnitPrice returns base price plus the sum of option adjustments. Negative
// adjustments are applied as-is; a discount option may push the result below
// the base price.
func (e *Engine) UnitPrice(basePrice decimal.Decimal, options types.SelectedOptions) decimal.Decimal {
	return basePrice.Add(options.TotalAdjustment())
}

// LineSubtotal returns the effective unit price multiplied by quantity.
func (e *Engine) LineSubtotal(basePrice decimal.Decimal, options types.SelectedOptions, quantity int) decimal.Decimal {
	return e.UnitPrice(basePrice, options).Mul(decimal.NewFromInt(int64(quantity)))
}

// ShippingFee evaluates the fee policy in order: free-shipping threshold,
// major cities, remote provinces, then the standard fee. The threshold check
// wins regardless of destination.
func (e *Engine) ShippingFee(destinationCity string, orderSubtotal decimal.Decimal) decimal.Decimal {
	if orderSubtotal.GreaterThanOrEqual(decimal.NewFromInt(e.shipping.FreeShippingThreshold)) {
		return decimal.Zero
	}

	city := FoldCity(destinationCity)

	for _, alias := range majorCityAliases {
		if strings.Contains(city, alias) {
			return decimal.NewFromInt(e.shipping.MajorCityFee)
		}
	}

	for _, alias := range remoteProvinceAliases {
		if strings.Contains(city, alias) {
			return decimal.NewFromInt(e.shipping.RemoteProvinceFee)
		}
	}

	return decimal.NewFromInt(e.shipping.StandardFee)
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldCity lowercases, trims, and strips Vietnamese diacritics so that
// "Hà Nội" and "ha noi" compare equal. The letter dj is folded separately
// because it is a base letter, not a combining mark.
func FoldCity(city string) string {
	lowered := strings.ToLower(strings.TrimSpace(city))
	folded, _, err := transform.String(diacriticStripper, lowered)
	if err != nil {
		folded = lowered
	}
	return strings.Map(func(r rune) rune {
		if r == 'đ' {
			return 'd'
		}
		return r
	}, folded)
}
