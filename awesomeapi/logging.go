package awesomeapi

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"

	payout "go-payout-calculator"
)

// loggingService decorates an awesomeapi.Service with logging
type loggingService struct {
	next   Service
	logger log.Logger
}

// NewLoggingService returns a new logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Rate(ctx context.Context, currency payout.Currency) (rate decimal.Decimal, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "rate",
			"currency", currency,
			"rate", rate,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Rate(ctx, currency)
}
