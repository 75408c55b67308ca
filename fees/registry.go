package fees

import (
	"github.com/shopspring/decimal"

	payout "go-payout-calculator"
)

// Registry maps currencies to their fee schedules and carries the
// ordered list used for cycling through supported currencies.
// A Registry is immutable once constructed.
type Registry struct {
	schedules map[payout.Currency]payout.FeeSchedule
	order     []payout.Currency
	fallback  payout.FeeSchedule
}

// NewRegistry constructs a Registry. The order slice defines both
// membership and cycling order; currencies without an explicit
// schedule resolve to the fallback.
func NewRegistry(order []payout.Currency, schedules map[payout.Currency]payout.FeeSchedule, fallback payout.FeeSchedule) *Registry {
	copied := make(map[payout.Currency]payout.FeeSchedule, len(schedules))
	for currency, schedule := range schedules {
		copied[currency] = schedule
	}
	return &Registry{
		schedules: copied,
		order:     append([]payout.Currency(nil), order...),
		fallback:  fallback,
	}
}

// Default returns the marketplace processor's published schedules.
// Unlisted currencies pay the same percentage fee but a wider spread.
func Default() *Registry {
	schedule := func(feePercent, fixedFee, spreadPercent string) payout.FeeSchedule {
		return payout.FeeSchedule{
			FeePercent:    decimal.RequireFromString(feePercent),
			FixedFee:      decimal.RequireFromString(fixedFee),
			SpreadPercent: decimal.RequireFromString(spreadPercent),
		}
	}

	order := []payout.Currency{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}
	schedules := map[payout.Currency]payout.FeeSchedule{
		"USD": schedule("6.40", "0.30", "3.50"),
		"EUR": schedule("6.40", "0.35", "3.50"),
		"GBP": schedule("6.40", "0.20", "3.50"),
		"JPY": schedule("6.40", "40.00", "3.50"),
		"CAD": schedule("6.40", "0.30", "3.50"),
		"AUD": schedule("6.40", "0.30", "3.50"),
	}

	return NewRegistry(order, schedules, schedule("6.40", "0.30", "4.50"))
}

// Schedule returns the fee schedule for a currency, falling back to
// the default schedule for currencies not listed.
func (r *Registry) Schedule(currency payout.Currency) payout.FeeSchedule {
	if schedule, ok := r.schedules[currency]; ok {
		return schedule
	}
	return r.fallback
}

// Currencies returns the supported currencies in cycling order.
func (r *Registry) Currencies() []payout.Currency {
	return append([]payout.Currency(nil), r.order...)
}
