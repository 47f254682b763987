package dto

import (
	"time"

	"github.com/juntape/junta/internal/domain"
)

// CreateDonationRequest is the confirmed donation modal
type CreateDonationRequest struct {
	EventID string  `json:"event_id" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
	Method  string  `json:"method" binding:"required"`
	Message string  `json:"message" binding:"max=280"`
}

// DonationResponse represents a donation in responses
type DonationResponse struct {
	ID            string  `json:"id"`
	EventID       string  `json:"event_id"`
	EventTitle    string  `json:"event_title,omitempty"`
	EventSlug     string  `json:"event_slug,omitempty"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id,omitempty"`
	FailureReason string  `json:"failure_reason,omitempty"`
	Message       string  `json:"message,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// ToDonationResponse converts a Donation to its response shape
func ToDonationResponse(d *domain.Donation) *DonationResponse {
	return &DonationResponse{
		ID:            d.ID,
		EventID:       d.EventID,
		EventTitle:    d.EventTitle,
		EventSlug:     d.EventSlug,
		Amount:        d.Amount,
		Currency:      d.Currency,
		Method:        string(d.Method),
		Status:        string(d.Status),
		TransactionID: d.TransactionID,
		FailureReason: d.FailureReason,
		Message:       d.Message,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
	}
}

// ToDonationResponses converts a slice, never returning nil
func ToDonationResponses(donations []*domain.Donation) []*DonationResponse {
	out := make([]*DonationResponse, len(donations))
	for i, d := range donations {
		out[i] = ToDonationResponse(d)
	}
	return out
}
