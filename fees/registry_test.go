package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"

	payout "go-payout-calculator"
)

func TestDefaultRegistry(t *testing.T) {
	registry := Default()

	usd := registry.Schedule("USD")
	assertDecimal(t, "6.40", usd.FeePercent, "FeePercent")
	assertDecimal(t, "0.30", usd.FixedFee, "FixedFee")
	assertDecimal(t, "3.50", usd.SpreadPercent, "SpreadPercent")

	jpy := registry.Schedule("JPY")
	assertDecimal(t, "40.00", jpy.FixedFee, "FixedFee")

	assert.Equal(t, []payout.Currency{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}, registry.Currencies())
}

func TestRegistry_UnlistedCurrencyFallsBack(t *testing.T) {
	registry := Default()

	unknown := registry.Schedule("XYZ")
	assertDecimal(t, "6.40", unknown.FeePercent, "FeePercent")
	assertDecimal(t, "0.30", unknown.FixedFee, "FixedFee")
	assertDecimal(t, "4.50", unknown.SpreadPercent, "SpreadPercent")
}

func TestRegistry_Immutable(t *testing.T) {
	registry := Default()

	currencies := registry.Currencies()
	currencies[0] = "XXX"

	assert.Equal(t, payout.Currency("USD"), registry.Currencies()[0])
}
