package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hushhly/config"
	"hushhly/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrPaymentDeclined      = errors.New("payment declined")
	ErrUnknownPaymentMethod = errors.New("unsupported payment method")
)

// ChargeRequest asks an external provider to collect Amount
type ChargeRequest struct {
	UserID      string
	Amount      float64
	Method      string
	Description string
}

// ChargeResult is a successful charge
type ChargeResult struct {
	TransactionID string    `json:"transactionId"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	ProcessedAt   time.Time `json:"processedAt"`
}

// Gateway collects payments from an external provider
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// GatewayMethod reports whether method is collected through a Gateway
func GatewayMethod(method string) bool {
	switch method {
	case model.PaymentMethodApplePay, model.PaymentMethodGooglePay, model.PaymentMethodCard:
		return true
	}
	return false
}

// SimulatedGateway stands in for wallet and card providers: it waits for a
// fixed latency and declines a configurable share of charges.
type SimulatedGateway struct {
	declineRate float64
	latency     time.Duration

	mu   sync.Mutex
	rand func() float64
}

// NewSimulatedGateway uses rnd as the source of outcomes; nil seeds one from
// the clock
func NewSimulatedGateway(cfg config.PaymentConfig, rnd func() float64) *SimulatedGateway {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())).Float64
	}
	return &SimulatedGateway{
		declineRate: cfg.DeclineRate,
		latency:     cfg.Latency(),
		rand:        rnd,
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if !GatewayMethod(req.Method) {
		return ChargeResult{}, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, req.Method)
	}

	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ChargeResult{}, ctx.Err()
		}
	}

	g.mu.Lock()
	roll := g.rand()
	g.mu.Unlock()

	if roll < g.declineRate {
		log.Info().
			Str("user_id", req.UserID).
			Str("method", req.Method).
			Float64("amount", req.Amount).
			Msg("Simulated payment declined")
		return ChargeResult{}, ErrPaymentDeclined
	}

	return ChargeResult{
		TransactionID: uuid.NewString(),
		Amount:        req.Amount,
		Method:        req.Method,
		ProcessedAt:   time.Now(),
	}, nil
}
