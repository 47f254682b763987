// Package donation models the three-stage donation modal.
package donation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/juntape/junta/internal/domain"
)

const (
	MinAmount = 5.0
	MaxAmount = 50000.0
	Currency  = "PEN"
)

// Presets are the one-tap amounts shown first
var Presets = []float64{20, 50, 100, 200}

var (
	ErrWrongStage    = errors.New("action not allowed at this stage")
	ErrInvalidAmount = fmt.Errorf("amount must be between %.0f and %.0f", MinAmount, MaxAmount)
	ErrInvalidMethod = errors.New("unsupported payment method")
	ErrPaymentFailed = errors.New("payment was declined")
)

// Stage of the flow
type Stage string

const (
	StageAmount    Stage = "amount_select"
	StageMethod    Stage = "method_select"
	StageConfirm   Stage = "confirm"
	StageCompleted Stage = "completed"
)

// Intent is what the donor confirmed
type Intent struct {
	EventID string
	DonorID string
	Amount  float64
	Method  domain.PaymentMethod
	Message string
}

// Confirmer charges an intent and records the result
type Confirmer interface {
	Confirm(ctx context.Context, in Intent) (*domain.Donation, error)
}

// Flow is one pass through the modal
type Flow struct {
	stage   Stage
	intent  Intent
	receipt *domain.Donation
	err     error
}

// NewFlow opens the modal for an event
func NewFlow(eventID, donorID string) *Flow {
	return &Flow{
		stage:  StageAmount,
		intent: Intent{EventID: eventID, DonorID: donorID},
	}
}

func (f *Flow) Stage() Stage              { return f.stage }
func (f *Flow) Intent() Intent            { return f.intent }
func (f *Flow) Receipt() *domain.Donation { return f.receipt }
func (f *Flow) Err() error                { return f.err }

// ValidAmount reports whether amount is a preset or a custom value in range
func ValidAmount(amount float64) bool {
	return amount >= MinAmount && amount <= MaxAmount
}

// SelectAmount picks a preset or custom amount and moves to method selection
func (f *Flow) SelectAmount(amount float64) error {
	if f.stage != StageAmount {
		return ErrWrongStage
	}
	if !ValidAmount(amount) {
		return ErrInvalidAmount
	}
	f.intent.Amount = amount
	f.stage = StageMethod
	return nil
}

// SelectMethod picks the payment method and moves to confirmation
func (f *Flow) SelectMethod(m domain.PaymentMethod) error {
	if f.stage != StageMethod {
		return ErrWrongStage
	}
	if !m.IsValid() {
		return ErrInvalidMethod
	}
	f.intent.Method = m
	f.stage = StageConfirm
	return nil
}

// SetMessage attaches an optional note for the promoter
func (f *Flow) SetMessage(msg string) {
	f.intent.Message = strings.TrimSpace(msg)
}

// Back returns to the previous stage. Completed flows stay completed.
func (f *Flow) Back() {
	f.err = nil
	switch f.stage {
	case StageMethod:
		f.stage = StageAmount
	case StageConfirm:
		f.stage = StageMethod
	}
}

// Confirm charges through c. On failure the flow stays on confirm with the
// error recorded so the donor can retry or go back.
func (f *Flow) Confirm(ctx context.Context, c Confirmer) (*domain.Donation, error) {
	if f.stage != StageConfirm {
		return nil, ErrWrongStage
	}

	f.err = nil
	d, err := c.Confirm(ctx, f.intent)
	if err != nil {
		f.err = err
		return d, err
	}

	f.receipt = d
	f.stage = StageCompleted
	return d, nil
}

// Reset reopens the flow for the same event
func (f *Flow) Reset() {
	*f = *NewFlow(f.intent.EventID, f.intent.DonorID)
}

// MethodOption is a selectable payment method
type MethodOption struct {
	ID    domain.PaymentMethod `json:"id"`
	Label string               `json:"label"`
}

// Options is what the modal needs to render
type Options struct {
	Currency string         `json:"currency"`
	Presets  []float64      `json:"presets"`
	Min      float64        `json:"min"`
	Max      float64        `json:"max"`
	Methods  []MethodOption `json:"methods"`
	Stages   []Stage        `json:"stages"`
}

var methodLabels = map[domain.PaymentMethod]string{
	domain.PaymentMethodCard:         "Tarjeta de crédito o débito",
	domain.PaymentMethodYape:         "Yape",
	domain.PaymentMethodPlin:         "Plin",
	domain.PaymentMethodBankTransfer: "Transferencia bancaria",
}

// DefaultOptions returns the modal configuration
func DefaultOptions() Options {
	methods := make([]MethodOption, 0, len(domain.PaymentMethods))
	for _, m := range domain.PaymentMethods {
		methods = append(methods, MethodOption{ID: m, Label: methodLabels[m]})
	}
	return Options{
		Currency: Currency,
		Presets:  append([]float64(nil), Presets...),
		Min:      MinAmount,
		Max:      MaxAmount,
		Methods:  methods,
		Stages:   []Stage{StageAmount, StageMethod, StageConfirm, StageCompleted},
	}
}
