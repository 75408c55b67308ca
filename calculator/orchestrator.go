package calculator

import (
	"context"
	"sync"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"

	payout "go-payout-calculator"
	"go-payout-calculator/fees"
)

// eventBuffer smooths bursts of published events ahead of the UI
// collaborator draining them.
const eventBuffer = 32

// RateSource what the orchestrator needs from the rate service.
// GetRate is fire-and-forget; answers arrive on Outcomes.
type RateSource interface {
	GetRate(ctx context.Context, currency payout.Currency)
	Outcomes() <-chan payout.Outcome
}

// EventKind tags an Event
type EventKind int

const (
	EventLoading EventKind = iota
	EventResult
	EventError
)

// Event what the orchestrator publishes toward the UI collaborator.
type Event struct {
	Kind     EventKind
	Currency payout.Currency

	// Result only meaningful when Kind is EventResult
	Result *payout.Result

	// Err only meaningful when Kind is EventError
	Err error
}

// state the orchestrator's request state
type state int

const (
	// stateIdle no rate request pending
	stateIdle state = iota

	// stateAwaitingRate a GetRate call was issued, outcome not yet in
	stateAwaitingRate
)

// Orchestrator glues the rate service to the fee calculator. Requests
// come in from the UI collaborator (RequestCalculation,
// RequestCurrencyCycle), rate outcomes come back on the rate service
// channel, and results flow out on Events. Recompute is eager: every
// request re-issues a rate lookup with the last entered amount.
type Orchestrator struct {
	rates     RateSource
	schedules *fees.Registry
	logger    log.Logger

	events chan Event

	// lock guards everything below. Requests arrive on the
	// collaborator's goroutine while outcomes arrive on Run's.
	lock sync.Mutex

	// currencies the fixed cycling order
	currencies []payout.Currency

	// index position of the last list currency selected
	index int

	// current the selected currency; may sit outside the cycling
	// list when the collaborator asks for an unlisted code
	current payout.Currency

	// amount the last successfully parsed amount
	amount decimal.Decimal

	// hasAmount whether an amount has been entered yet
	hasAmount bool

	state state
}

// New constructs a valid Orchestrator. startCurrency selects the
// initial currency; if it is not in the registry's cycling list the
// list position stays at the first entry.
func New(rates RateSource, schedules *fees.Registry, startCurrency payout.Currency, logger log.Logger) *Orchestrator {
	o := &Orchestrator{
		rates:      rates,
		schedules:  schedules,
		logger:     logger,
		events:     make(chan Event, eventBuffer),
		currencies: schedules.Currencies(),
		current:    startCurrency,
		state:      stateIdle,
	}
	for i, currency := range o.currencies {
		if currency == startCurrency {
			o.index = i
			break
		}
	}
	return o
}

// Events is the stream of loading notices, results and errors toward
// the UI collaborator. Closed when Run returns.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// CurrentCurrency returns the currently selected currency.
func (o *Orchestrator) CurrentCurrency() payout.Currency {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.current
}

// RequestCalculation asks for a payout calculation of amountText in
// the given currency. Invalid amount text is answered with an error
// event immediately and never reaches the rate service.
func (o *Orchestrator) RequestCalculation(ctx context.Context, currency payout.Currency, amountText string) {
	amount, err := fees.ParseAmount(amountText)
	if err != nil {
		o.logger.Log("msg", "rejected amount", "currency", currency, "amount", amountText, "err", err)
		o.publish(Event{Kind: EventError, Currency: currency, Err: err})
		return
	}

	o.lock.Lock()
	o.current = currency
	for i, c := range o.currencies {
		if c == currency {
			o.index = i
			break
		}
	}
	o.amount = amount
	o.hasAmount = true
	o.state = stateAwaitingRate
	o.lock.Unlock()

	o.logger.Log("msg", "calculation requested", "currency", currency, "amount", amount)
	o.rates.GetRate(ctx, currency)
}

// RequestCurrencyCycle advances to the next currency in the fixed
// list, wrapping around, and returns the new selection. With an
// amount already entered the calculation is re-issued eagerly.
func (o *Orchestrator) RequestCurrencyCycle(ctx context.Context) payout.Currency {
	o.lock.Lock()
	o.index = (o.index + 1) % len(o.currencies)
	o.current = o.currencies[o.index]
	currency := o.current
	recompute := o.hasAmount
	if recompute {
		o.state = stateAwaitingRate
	}
	o.lock.Unlock()

	o.logger.Log("msg", "currency cycled", "currency", currency)
	if recompute {
		o.rates.GetRate(ctx, currency)
	}
	return currency
}

// Run consumes rate outcomes until ctx is cancelled. Must be invoked
// from a go routine; it owns the Events channel.
func (o *Orchestrator) Run(ctx context.Context) {
	defer close(o.events)
	for {
		select {
		case outcome := <-o.rates.Outcomes():
			o.handle(outcome)
		case <-ctx.Done():
			return
		}
	}
}

// handle applies one rate outcome to the state machine.
func (o *Orchestrator) handle(outcome payout.Outcome) {
	o.lock.Lock()

	if outcome.Currency != o.current || o.state != stateAwaitingRate {
		// superseded request; its answer no longer matches what the
		// collaborator is looking at
		o.lock.Unlock()
		o.logger.Log("msg", "stale outcome discarded", "currency", outcome.Currency)
		return
	}

	switch outcome.Status {
	case payout.StatusLoading:
		o.lock.Unlock()
		o.publish(Event{Kind: EventLoading, Currency: outcome.Currency})

	case payout.StatusSuccess:
		schedule := o.schedules.Schedule(o.current)
		result := fees.Calculate(o.current, o.amount, schedule, outcome.Rate)
		o.state = stateIdle
		o.lock.Unlock()
		o.publish(Event{Kind: EventResult, Currency: outcome.Currency, Result: &result})

	case payout.StatusError:
		o.state = stateIdle
		o.lock.Unlock()
		o.publish(Event{Kind: EventError, Currency: outcome.Currency, Err: outcome.Err})

	default:
		o.lock.Unlock()
	}
}

func (o *Orchestrator) publish(event Event) {
	o.events <- event
}
