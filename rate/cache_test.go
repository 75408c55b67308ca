package rate

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	_, ok := cache.Lookup(ctx, "USD")
	assert.False(t, ok)

	assert.Nil(t, cache.Store(ctx, "USD", decimal.RequireFromString("5.12")))

	got, ok := cache.Lookup(ctx, "USD")
	assert.True(t, ok)
	assert.True(t, got.Equal(decimal.RequireFromString("5.12")))

	// overwrite wins
	assert.Nil(t, cache.Store(ctx, "USD", decimal.RequireFromString("5.20")))
	got, ok = cache.Lookup(ctx, "USD")
	assert.True(t, ok)
	assert.True(t, got.Equal(decimal.RequireFromString("5.20")))
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	rate := decimal.RequireFromString("5.12")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cache.Store(ctx, "USD", rate)
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Lookup(ctx, "USD")
		}()
	}
	wg.Wait()

	got, ok := cache.Lookup(ctx, "USD")
	assert.True(t, ok)
	assert.True(t, got.Equal(rate))
}
