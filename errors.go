package payout

import (
	"errors"
	"fmt"
)

// ErrInvalidInput the amount text does not parse as a non-negative number.
// Recovered locally; never reaches the rate service.
var ErrInvalidInput = errors.New("invalid amount")

// ConnectionError transport or timeout failure reaching the quote
// provider. Safe to retry on the next user action.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("quote provider unreachable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// InvalidCurrencyError the provider responded but carried no usable
// quote for the currency. Not retryable until the currency changes.
type InvalidCurrencyError struct {
	Currency Currency
}

func (e *InvalidCurrencyError) Error() string {
	return fmt.Sprintf("no quote for currency %v", e.Currency)
}
