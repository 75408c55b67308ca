package rate

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	payout "go-payout-calculator"
)

// Cache stores the last-known rate per currency. There is no expiry
// and no eviction: once stored, an entry is served until the process
// (or the backing store) goes away. Implementations must be safe for
// concurrent use from fetch-completion goroutines and synchronous
// readers.
type Cache interface {
	// Lookup returns the cached rate and whether one exists.
	Lookup(ctx context.Context, currency payout.Currency) (decimal.Decimal, bool)

	// Store records the rate for a currency, overwriting any
	// previous entry.
	Store(ctx context.Context, currency payout.Currency, rate decimal.Decimal) error
}

// memoryCache process-lifetime rate cache
type memoryCache struct {
	// rates the cached rates
	rates map[payout.Currency]decimal.Decimal

	// lock synchronizes access to rates to make it concurrency safe
	lock sync.RWMutex
}

// NewMemoryCache returns an empty in-memory Cache.
func NewMemoryCache() Cache {
	return &memoryCache{
		rates: map[payout.Currency]decimal.Decimal{},
	}
}

func (c *memoryCache) Lookup(_ context.Context, currency payout.Currency) (decimal.Decimal, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	rate, ok := c.rates[currency]
	return rate, ok
}

func (c *memoryCache) Store(_ context.Context, currency payout.Currency, rate decimal.Decimal) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.rates[currency] = rate
	return nil
}
