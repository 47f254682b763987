package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeGateway charges through Stripe PaymentIntents
type StripeGateway struct {
	secretKey string
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(secretKey string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}

	stripe.Key = secretKey

	return &StripeGateway{secretKey: secretKey}, nil
}

// Charge creates a PaymentIntent for the donation
func (g *StripeGateway) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(req.Amount)),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"donation_id": req.DonationID,
			"method":      req.Method,
		},
	}
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return &ChargeResponse{
			Status:        "failed",
			FailureReason: err.Error(),
		}, nil
	}

	return fromIntent(pi), nil
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}

func fromIntent(pi *stripe.PaymentIntent) *ChargeResponse {
	resp := &ChargeResponse{
		TransactionID: pi.ID,
		Status:        string(pi.Status),
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
		resp.Success = true
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		// confirmed client-side with the returned intent
		resp.Success = true
		resp.Status = "pending_confirmation"
	case stripe.PaymentIntentStatusCanceled:
		resp.FailureReason = "payment_canceled"
	default:
		resp.FailureReason = fmt.Sprintf("unexpected status: %s", pi.Status)
	}
	return resp
}

// toMinorUnits converts soles to céntimos
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
