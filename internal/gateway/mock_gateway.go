package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var defaultFailureReasons = []string{
	"insufficient_funds",
	"card_declined",
	"expired_card",
	"processing_error",
}

// MockGatewayConfig holds configuration for the mock gateway
type MockGatewayConfig struct {
	// SuccessRate is the probability of a successful charge (0.0 to 1.0)
	SuccessRate float64

	// Delay simulates processor latency
	Delay time.Duration

	FailureReasons []string
}

// MockGateway simulates a processor. It never moves money.
type MockGateway struct {
	mu     sync.RWMutex
	config MockGatewayConfig
	rng    *rand.Rand
}

// NewMockGateway creates a new mock gateway
func NewMockGateway(config MockGatewayConfig) *MockGateway {
	if len(config.FailureReasons) == 0 {
		config.FailureReasons = defaultFailureReasons
	}
	config.SuccessRate = clampRate(config.SuccessRate)
	return &MockGateway{
		config: config,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Charge processes a mock charge
func (g *MockGateway) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	g.mu.RLock()
	cfg := g.config
	g.mu.RUnlock()

	if cfg.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.Delay):
		}
	}

	resp := &ChargeResponse{
		TransactionID: fmt.Sprintf("mock_txn_%s", uuid.New().String()[:8]),
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	idx := g.rng.Intn(len(cfg.FailureReasons))
	g.mu.Unlock()

	if roll < cfg.SuccessRate {
		resp.Success = true
		resp.Status = "succeeded"
		return resp, nil
	}

	resp.Status = "failed"
	resp.FailureReason = cfg.FailureReasons[idx]
	return resp, nil
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}

// SetSuccessRate updates the success rate
func (g *MockGateway) SetSuccessRate(rate float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config.SuccessRate = clampRate(rate)
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}
