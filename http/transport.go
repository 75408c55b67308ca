package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	payout "go-payout-calculator"
	"go-payout-calculator/calculator"
)

// Calculator what the transport needs from the orchestrator.
type Calculator interface {
	RequestCalculation(ctx context.Context, currency payout.Currency, amountText string)
	RequestCurrencyCycle(ctx context.Context) payout.Currency
	CurrentCurrency() payout.Currency
	Events() <-chan calculator.Event
}

// Server bridges the orchestrator's event stream to request/response
// HTTP. The orchestrator publishes to a single collaborator, so
// calculations are serialized: one HTTP calculation at a time.
type Server struct {
	calc    Calculator
	router  chi.Router
	timeout time.Duration

	// lock serializes access to the event stream across requests
	lock sync.Mutex
}

// NewServer constructs a Server routing to the given Calculator.
func NewServer(calc Calculator) *Server {
	server := &Server{
		calc:    calc,
		router:  chi.NewRouter(),
		timeout: 15 * time.Second,
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Post("/api/v1/calculate", s.calculate())
	s.router.Post("/api/v1/currency/cycle", s.cycle())
	s.router.Get("/api/v1/currency", s.currency())
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

func writeJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(body)
}

func writeError(rw http.ResponseWriter, status int, message string) {
	writeJSON(rw, status, map[string]string{"error": message})
}

// calculate produces the HTTP handler for payout calculations
func (s *Server) calculate() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		Currency payout.Currency `json:"currency"`
		Amount   string          `json:"amount"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Currency         payout.Currency `json:"currency"`
		SourceAmount     decimal.Decimal `json:"sourceAmount"`
		RawRate          decimal.Decimal `json:"rawRate"`
		EffectiveRate    decimal.Decimal `json:"effectiveRate"`
		FeeCharged       decimal.Decimal `json:"feeCharged"`
		FinalAmountLocal decimal.Decimal `json:"finalAmountLocal"`
		TotalLossLocal   decimal.Decimal `json:"totalLossLocal"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var request request
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			writeError(rw, http.StatusBadRequest, "invalid json")
			return
		}
		if request.Currency == "" {
			writeError(rw, http.StatusBadRequest, "missing currency")
			return
		}

		s.lock.Lock()
		defer s.lock.Unlock()

		s.drain()
		s.calc.RequestCalculation(r.Context(), request.Currency, request.Amount)

		timer := time.NewTimer(s.timeout)
		defer timer.Stop()

		for {
			select {
			case event, ok := <-s.calc.Events():
				if !ok {
					writeError(rw, http.StatusServiceUnavailable, "calculator stopped")
					return
				}
				if event.Currency != request.Currency || event.Kind == calculator.EventLoading {
					continue
				}
				if event.Kind == calculator.EventError {
					writeError(rw, errorStatus(event.Err), event.Err.Error())
					return
				}
				result := event.Result
				writeJSON(rw, http.StatusOK, response{
					Currency:         result.Currency,
					SourceAmount:     result.SourceAmount,
					RawRate:          result.RawRate,
					EffectiveRate:    result.EffectiveRate,
					FeeCharged:       result.FeeCharged,
					FinalAmountLocal: result.FinalAmountLocal,
					TotalLossLocal:   result.TotalLossLocal,
				})
				return

			case <-timer.C:
				writeError(rw, http.StatusGatewayTimeout, "timed out waiting for rate")
				return
			}
		}
	}
}

// cycle produces the HTTP handler advancing the currency selection
func (s *Server) cycle() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		// Cycling recomputes eagerly, publishing events this handler
		// never waits for. Drain leftovers under the lock so repeated
		// cycles cannot fill the event buffer and stall the
		// orchestrator's publish path.
		s.lock.Lock()
		s.drain()
		currency := s.calc.RequestCurrencyCycle(r.Context())
		s.lock.Unlock()

		writeJSON(rw, http.StatusOK, map[string]payout.Currency{"currency": currency})
	}
}

// currency produces the HTTP handler reporting the current selection
func (s *Server) currency() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, map[string]payout.Currency{"currency": s.calc.CurrentCurrency()})
	}
}

// drain discards events left over from requests that stopped waiting.
func (s *Server) drain() {
	for {
		select {
		case <-s.calc.Events():
		default:
			return
		}
	}
}

// errorStatus maps the error taxonomy onto HTTP statuses.
func errorStatus(err error) int {
	var invalidCurrency *payout.InvalidCurrencyError
	var connection *payout.ConnectionError
	switch {
	case errors.Is(err, payout.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &invalidCurrency):
		return http.StatusUnprocessableEntity
	case errors.As(err, &connection):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
