package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DonationStatus (matches DB CHECK)
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusSucceeded DonationStatus = "succeeded"
	DonationStatusFailed    DonationStatus = "failed"
)

// PaymentMethod offered in the donation modal
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodYape         PaymentMethod = "yape"
	PaymentMethodPlin         PaymentMethod = "plin"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// PaymentMethods lists the methods in display order
var PaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodYape,
	PaymentMethodPlin,
	PaymentMethodBankTransfer,
}

// IsValid reports whether m is an offered method
func (m PaymentMethod) IsValid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Donation is a ledger entry for a donor's contribution
type Donation struct {
	ID            string         `json:"id"`
	EventID       string         `json:"event_id"`
	DonorID       string         `json:"donor_id"`
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	Method        PaymentMethod  `json:"method"`
	Status        DonationStatus `json:"status"`
	TransactionID string         `json:"transaction_id,omitempty"`
	FailureReason string         `json:"failure_reason,omitempty"`
	Message       string         `json:"message,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`

	// Denormalized for the donor dashboard
	EventTitle string `json:"event_title,omitempty"`
	EventSlug  string `json:"event_slug,omitempty"`
}

// NewDonation creates a pending donation
func NewDonation(eventID, donorID string, amount float64, currency string, method PaymentMethod) (*Donation, error) {
	if eventID == "" {
		return nil, errors.New("event_id is required")
	}
	if donorID == "" {
		return nil, errors.New("donor_id is required")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if !method.IsValid() {
		return nil, errors.New("invalid payment method")
	}
	if currency == "" {
		currency = "PEN"
	}

	return &Donation{
		ID:        uuid.New().String(),
		EventID:   eventID,
		DonorID:   donorID,
		Amount:    amount,
		Currency:  currency,
		Method:    method,
		Status:    DonationStatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Succeed records the gateway transaction
func (d *Donation) Succeed(transactionID string) error {
	if d.Status != DonationStatusPending {
		return errors.New("donation must be pending to succeed")
	}
	d.Status = DonationStatusSucceeded
	d.TransactionID = transactionID
	return nil
}

// Fail records why the gateway declined
func (d *Donation) Fail(reason string) error {
	if d.Status != DonationStatusPending {
		return errors.New("donation must be pending to fail")
	}
	d.Status = DonationStatusFailed
	d.FailureReason = reason
	return nil
}
