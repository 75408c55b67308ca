package fees

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	payout "go-payout-calculator"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ParseAmount parses user-entered amount text into a non-negative
// decimal. Anything that does not parse, or parses negative, is
// payout.ErrInvalidInput.
func ParseAmount(text string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", text, payout.ErrInvalidInput)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative amount %q: %w", text, payout.ErrInvalidInput)
	}
	return amount, nil
}

// Calculate computes what a payout of amount at rawRate actually
// yields in local currency under the given schedule.
//
// The percentage fee applies to the gross amount; the fixed fee is
// deducted in the source currency before conversion; the spread is
// applied multiplicatively against the market rate. Fees never push
// the net amount below zero. No rounding happens here; display
// rounding belongs to the caller.
//
// rawRate must be a positive rate, which the rate service guarantees
// for every rate it hands out.
func Calculate(currency payout.Currency, amount decimal.Decimal, schedule payout.FeeSchedule, rawRate decimal.Decimal) payout.Result {
	feeFraction := schedule.FeePercent.Div(hundred)
	spreadFraction := schedule.SpreadPercent.Div(hundred)

	fee := amount.Mul(feeFraction).Add(schedule.FixedFee)
	net := amount.Sub(fee)
	if net.IsNegative() {
		net = decimal.Zero
	}

	effectiveRate := rawRate.Mul(one.Sub(spreadFraction))
	final := net.Mul(effectiveRate)
	loss := amount.Mul(rawRate).Sub(final)

	return payout.Result{
		Currency:         currency,
		SourceAmount:     amount,
		RawRate:          rawRate,
		EffectiveRate:    effectiveRate,
		FeeCharged:       fee,
		FinalAmountLocal: final,
		TotalLossLocal:   loss,
	}
}
