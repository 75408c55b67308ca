package rate

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	payout "go-payout-calculator"
)

// redisCache keeps rates in Redis under "rate:{CUR}" keys, stored as
// decimal strings without a TTL. A Redis problem on lookup degrades
// to a cache miss so the service falls through to a fresh fetch.
type redisCache struct {
	client *redis.Client
	logger log.Logger
}

// NewRedisCache returns a Cache backed by the given Redis client.
func NewRedisCache(client *redis.Client, logger log.Logger) Cache {
	return &redisCache{
		client: client,
		logger: logger,
	}
}

func redisKey(currency payout.Currency) string {
	return fmt.Sprintf("rate:%v", currency)
}

func (c *redisCache) Lookup(ctx context.Context, currency payout.Currency) (decimal.Decimal, bool) {
	val, err := c.client.Get(ctx, redisKey(currency)).Result()
	if err == redis.Nil {
		return decimal.Decimal{}, false
	}
	if err != nil {
		c.logger.Log("msg", "redis lookup failed", "currency", currency, "err", err)
		return decimal.Decimal{}, false
	}

	rate, err := decimal.NewFromString(val)
	if err != nil {
		c.logger.Log("msg", "bad cached rate", "currency", currency, "value", val, "err", err)
		return decimal.Decimal{}, false
	}
	return rate, true
}

func (c *redisCache) Store(ctx context.Context, currency payout.Currency, rate decimal.Decimal) error {
	if err := c.client.Set(ctx, redisKey(currency), rate.String(), 0).Err(); err != nil {
		return fmt.Errorf("redis store [%v]: %w", currency, err)
	}
	return nil
}
