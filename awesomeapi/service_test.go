package awesomeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	payout "go-payout-calculator"
)

func TestService_Rate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		assert.True(t, strings.HasSuffix(req.URL.String(), "/last/USD-BRL"))
		response := `{
			"USDBRL": {
				"code": "USD",
				"codein": "BRL",
				"name": "Dólar Americano/Real Brasileiro",
				"bid": "5.1234",
				"ask": "5.1240"
			}
		}`
		_, _ = rw.Write([]byte(response))
	}))
	defer server.Close()

	api := service{url: server.URL, local: "BRL"}

	got, err := api.Rate(context.Background(), "USD")

	assert.Nil(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("5.1234")), "got %v", got)
}

func TestService_RateLocalCurrencySkipsNetwork(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&requests, 1)
		_, _ = rw.Write([]byte("{}"))
	}))
	defer server.Close()

	api := service{url: server.URL, local: "BRL"}

	got, err := api.Rate(context.Background(), "BRL")

	assert.Nil(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestService_RateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	api := service{url: server.URL, local: "BRL"}

	_, err := api.Rate(context.Background(), "USD")

	var connection *payout.ConnectionError
	assert.True(t, errors.As(err, &connection), "err = %v", err)
}

func TestService_RateBadRequestURL(t *testing.T) {
	api := service{url: "://not-a-url", local: "BRL"}

	_, err := api.Rate(context.Background(), "USD")

	var connection *payout.ConnectionError
	assert.True(t, errors.As(err, &connection), "err = %v", err)
}

func TestService_RateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		time.Sleep(10 * time.Millisecond)
		_, _ = rw.Write([]byte("{}"))
	}))
	defer server.Close()

	api := service{url: server.URL, local: "BRL"}
	api.client.Timeout = 1 * time.Millisecond

	_, err := api.Rate(context.Background(), "USD")

	var connection *payout.ConnectionError
	assert.True(t, errors.As(err, &connection), "err = %v", err)
}

func TestService_RateMissingQuote(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"quote for another pair", `{"EURBRL": {"bid": "6.1"}}`},
		{"no bid field", `{"USDBRL": {"ask": "5.1"}}`},
		{"unparseable bid", `{"USDBRL": {"bid": "not-a-number"}}`},
		{"non-positive bid", `{"USDBRL": {"bid": "0"}}`},
		{"empty object", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
				_, _ = rw.Write([]byte(tt.body))
			}))
			defer server.Close()

			api := service{url: server.URL, local: "BRL"}

			_, err := api.Rate(context.Background(), "USD")

			var invalid *payout.InvalidCurrencyError
			assert.True(t, errors.As(err, &invalid), "err = %v", err)
			assert.Equal(t, payout.Currency("USD"), invalid.Currency)
		})
	}
}
