// Package gateway abstracts the payment processor behind donations.
package gateway

import (
	"context"
	"errors"
)

var ErrNilRequest = errors.New("charge request is required")

// PaymentGateway charges a donor for a donation
type PaymentGateway interface {
	// Charge processes a payment. A declined payment is a response with
	// Success false, not an error.
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)

	// Name returns the gateway name
	Name() string
}

// ChargeRequest represents a charge request
type ChargeRequest struct {
	DonationID  string
	Amount      float64
	Currency    string
	Method      string
	Description string
	Metadata    map[string]string
}

// ChargeResponse represents a charge response
type ChargeResponse struct {
	Success       bool
	TransactionID string
	Status        string
	FailureReason string
}
