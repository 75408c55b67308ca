package payout

import (
	"github.com/shopspring/decimal"
)

// Currency a currency code, e.g. "USD"
type Currency string

// FeeSchedule the processor's cut for payouts in one currency.
// Percentages are whole percents (6.40 means 6.40%), not fractions.
// A schedule never changes once loaded.
type FeeSchedule struct {
	// FeePercent percentage fee charged on the gross amount
	FeePercent decimal.Decimal

	// FixedFee absolute deduction in the source currency
	FixedFee decimal.Decimal

	// SpreadPercent markup applied against the market rate
	SpreadPercent decimal.Decimal
}

// Result a completed payout calculation. Built once per request,
// never mutated afterwards.
type Result struct {
	// Currency the source currency the amount was entered in
	Currency Currency

	// SourceAmount the gross amount in the source currency
	SourceAmount decimal.Decimal

	// RawRate the market rate, local currency per unit of source currency
	RawRate decimal.Decimal

	// EffectiveRate the rate after the spread markup
	EffectiveRate decimal.Decimal

	// FeeCharged percentage plus fixed fee, in the source currency
	FeeCharged decimal.Decimal

	// FinalAmountLocal what actually lands, in local currency
	FinalAmountLocal decimal.Decimal

	// TotalLossLocal difference between converting at the raw rate
	// and the amount actually received
	TotalLossLocal decimal.Decimal
}

// OutcomeStatus tags an Outcome as loading, success or error
type OutcomeStatus int

const (
	StatusLoading OutcomeStatus = iota
	StatusSuccess
	StatusError
)

// Outcome the unit of communication from a rate lookup back to its
// consumer. Always tagged with the currency it answers so consumers
// can discard outcomes that no longer match their state.
type Outcome struct {
	Status   OutcomeStatus
	Currency Currency

	// Rate only meaningful when Status is StatusSuccess
	Rate decimal.Decimal

	// Err only meaningful when Status is StatusError
	Err error
}
