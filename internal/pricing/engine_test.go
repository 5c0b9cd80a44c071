package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/haletrung/vietmarket-backend/pkg/config"
	"github.com/haletrung/vietmarket-backend/pkg/types"
)

func testShippingConfig() config.ShippingConfig {
	return config.ShippingConfig{
		FreeShippingThreshold: 100000,
		MajorCityFee:          30000,
		RemoteProvinceFee:     35000,
		StandardFee:           20000,
	}
}

func TestUnitPriceAddsOptionAdjustments(t *testing.T) {
	engine := NewEngine(testShippingConfig())

	options := types.SelectedOptions{
		{Group: "Size", OptionName: "500g", PriceAdjustment: decimal.NewFromInt(15000)},
		{Group: "Packaging", OptionName: "Gift box", PriceAdjustment: decimal.NewFromInt(10000)},
	}

	price := engine.UnitPrice(decimal.NewFromInt(50000), options)
	assert.True(t, price.Equal(decimal.NewFromInt(75000)), "got %s", price)
}

func TestUnitPriceAllowsNegativeAdjustments(t *testing.T) {
	engine := NewEngine(testShippingConfig())

	options := types.SelectedOptions{
		{Group: "Promo", OptionName: "Clearance", PriceAdjustment: decimal.NewFromInt(-60000)},
	}

	price := engine.UnitPrice(decimal.NewFromInt(50000), options)
	assert.True(t, price.Equal(decimal.NewFromInt(-10000)), "got %s", price)
}

func TestLineSubtotalMultipliesByQuantity(t *testing.T) {
	engine := NewEngine(testShippingConfig())

	options := types.SelectedOptions{
		{Group: "Size", OptionName: "Large", PriceAdjustment: decimal.NewFromInt(5000)},
	}

	subtotal := engine.LineSubtotal(decimal.NewFromInt(20000), options, 3)
	assert.True(t, subtotal.Equal(decimal.NewFromInt(75000)), "got %s", subtotal)
}

func TestShippingFeeFreeThresholdWinsRegardlessOfCity(t *testing.T) {
	engine := NewEngine(testShippingConfig())

	for _, city := range []string{"Hà Nội", "Lào Cai", "Huế", ""} {
		fee := engine.ShippingFee(city, decimal.NewFromInt(100000))
		assert.True(t, fee.IsZero(), "city %q got %s", city, fee)
	}
}

func TestShippingFeeMajorCityAliases(t *testing.T) {
	engine := NewEngine(testShippingConfig())
	subtotal := decimal.NewFromInt(50000)

	for _, city := range []string{
		"Hà Nội",
		"Ha Noi",
		"TP.HCM",
		"Thành phố Hồ Chí Minh",
		"Sài Gòn",
		"saigon",
		"Đà Nẵng",
		"DA NANG",
	} {
		fee := engine.ShippingFee(city, subtotal)
		assert.True(t, fee.Equal(decimal.NewFromInt(30000)), "city %q got %s", city, fee)
	}
}

func TestShippingFeeRemoteProvinces(t *testing.T) {
	engine := NewEngine(testShippingConfig())
	subtotal := decimal.NewFromInt(50000)

	for _, city := range []string{"Lào Cai", "lao cai", "Hà Giang", "Điện Biên", "Bắc Kạn"} {
		fee := engine.ShippingFee(city, subtotal)
		assert.True(t, fee.Equal(decimal.NewFromInt(35000)), "city %q got %s", city, fee)
	}
}

func TestShippingFeeStandardBucket(t *testing.T) {
	engine := NewEngine(testShippingConfig())

	for _, city := range []string{"Huế", "Cần Thơ", "Vinh", "unknown"} {
		fee := engine.ShippingFee(city, decimal.NewFromInt(50000))
		assert.True(t, fee.Equal(decimal.NewFromInt(20000)), "city %q got %s", city, fee)
	}
}

func TestFoldCity(t *testing.T) {
	assert.Equal(t, "ha noi", FoldCity("  Hà Nội "))
	assert.Equal(t, "da nang", FoldCity("Đà Nẵng"))
	assert.Equal(t, "ho chi minh", FoldCity("Hồ Chí Minh"))
}
