package rate

import (
	"context"
	"sync"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"

	payout "go-payout-calculator"
)

// outcomeBuffer smooths bursts of synchronous emissions (cache hits,
// loading notices) ahead of the consumer draining them.
const outcomeBuffer = 32

var identity = decimal.NewFromInt(1)

// Fetcher performs a single quote lookup. Implementations must be
// concurrency-safe; awesomeapi.Service is the production one.
type Fetcher interface {
	Rate(ctx context.Context, currency payout.Currency) (decimal.Decimal, error)
}

// Service serves exchange rates asynchronously. GetRate never returns
// a value; every answer arrives on the Outcomes channel tagged with
// the currency it belongs to. Cache hits and the local currency are
// answered immediately, misses get a Loading outcome now and a
// Success or Error outcome once the background fetch finishes.
//
// Exactly one consumer is expected to drain Outcomes.
type Service struct {
	// fetcher performs the actual quote lookups
	fetcher Fetcher

	// cache last-known rates, served indefinitely once populated
	cache Cache

	// local the local currency, always the identity rate
	local payout.Currency

	logger log.Logger

	outcomes chan payout.Outcome

	// lock guards inflight
	lock sync.Mutex

	// inflight currencies with a fetch already running. A second
	// request for the same currency attaches to the running fetch
	// instead of starting another one.
	inflight map[payout.Currency]bool
}

// NewService constructs a valid rate Service.
func NewService(fetcher Fetcher, cache Cache, local payout.Currency, logger log.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		cache:    cache,
		local:    local,
		logger:   logger,
		outcomes: make(chan payout.Outcome, outcomeBuffer),
		inflight: map[payout.Currency]bool{},
	}
}

// Outcomes is the delivery channel for every GetRate call.
func (s *Service) Outcomes() <-chan payout.Outcome {
	return s.outcomes
}

// GetRate requests the rate for a currency, fire-and-forget.
func (s *Service) GetRate(ctx context.Context, currency payout.Currency) {
	if currency == s.local {
		s.emit(payout.Outcome{Status: payout.StatusSuccess, Currency: currency, Rate: identity})
		return
	}

	if cached, ok := s.cache.Lookup(ctx, currency); ok {
		s.emit(payout.Outcome{Status: payout.StatusSuccess, Currency: currency, Rate: cached})
		return
	}

	s.lock.Lock()
	attached := s.inflight[currency]
	s.inflight[currency] = true
	s.lock.Unlock()

	s.emit(payout.Outcome{Status: payout.StatusLoading, Currency: currency})

	if attached {
		// a fetch for this currency is already running; its outcome
		// answers this call too
		return
	}

	// The fetch must outlive the requesting caller: attached callers
	// wait on the same outcome, and an in-flight fetch is never
	// cancelled. The fetcher's own client timeout still bounds it.
	go s.fetch(context.WithoutCancel(ctx), currency)
}

// fetch runs one quote lookup and delivers its outcome. Must be
// invoked from a go routine.
func (s *Service) fetch(ctx context.Context, currency payout.Currency) {
	fetched, err := s.fetcher.Rate(ctx, currency)

	s.lock.Lock()
	delete(s.inflight, currency)
	s.lock.Unlock()

	if err != nil {
		s.logger.Log("msg", "rate fetch failed", "currency", currency, "err", err)
		s.emit(payout.Outcome{Status: payout.StatusError, Currency: currency, Err: err})
		return
	}

	if err := s.cache.Store(ctx, currency, fetched); err != nil {
		// Don't fail the calculation over a cache problem, just log.
		s.logger.Log("msg", "caching rate failed", "currency", currency, "err", err)
	}

	s.emit(payout.Outcome{Status: payout.StatusSuccess, Currency: currency, Rate: fetched})
}

func (s *Service) emit(outcome payout.Outcome) {
	s.outcomes <- outcome
}
