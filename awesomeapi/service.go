package awesomeapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	payout "go-payout-calculator"
)

const ApiUrlBase = "https://economia.awesomeapi.com.br/json"

// DefaultTimeout bounds a single quote request.
const DefaultTimeout = 10 * time.Second

var identity = decimal.NewFromInt(1)

// Service wraps the AwesomeAPI economia quote endpoint.
type Service interface {
	// Rate returns the market rate for one unit of currency in the
	// local currency. Errors are either *payout.ConnectionError or
	// *payout.InvalidCurrencyError.
	Rate(ctx context.Context, currency payout.Currency) (decimal.Decimal, error)
}

// service AwesomeAPI client
type service struct {
	// url base API url
	url string

	// local the local currency quotes are requested against
	local payout.Currency

	// client for HTTP requests
	client http.Client
}

// NewService constructs a valid AwesomeAPI Service quoting against
// the given local currency.
func NewService(local payout.Currency, timeout time.Duration) Service {
	return &service{
		url:   ApiUrlBase,
		local: local,
		client: http.Client{
			Timeout: timeout,
		},
	}
}

// Rate loads the current quote for a currency. The local currency
// itself is the identity rate and never touches the network. No
// retries happen here; a failed quote is the caller's to retry.
func (s *service) Rate(ctx context.Context, currency payout.Currency) (decimal.Decimal, error) {
	if currency == s.local {
		return identity, nil
	}

	url := fmt.Sprintf("%v/last/%v-%v", s.url, currency, s.local)

	request, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return decimal.Decimal{}, &payout.ConnectionError{Err: fmt.Errorf("building http request: %w", err)}
	}
	httpResponse, err := s.client.Do(request)
	if err != nil {
		return decimal.Decimal{}, &payout.ConnectionError{Err: err}
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return decimal.Decimal{}, &payout.ConnectionError{Err: err}
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return decimal.Decimal{}, &payout.ConnectionError{Err: fmt.Errorf("unexpected status: %v", httpResponse.Status)}
	}

	// The quote lives at e.g. "USDBRL".bid, as a decimal string.
	bid := gjson.GetBytes(body, string(currency)+string(s.local)+".bid")
	if !bid.Exists() {
		return decimal.Decimal{}, &payout.InvalidCurrencyError{Currency: currency}
	}

	rate, err := decimal.NewFromString(bid.String())
	if err != nil || !rate.IsPositive() {
		return decimal.Decimal{}, &payout.InvalidCurrencyError{Currency: currency}
	}

	return rate, nil
}
