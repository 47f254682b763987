package service

import (
	"context"
	"testing"

	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/donation"
	"github.com/juntape/junta/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDonationService(gw *MockGateway) (DonationService, *MockEventRepository, *MockDonationRepository) {
	events := NewMockEventRepository()
	events.events["e1"] = publishedEvent("e1", "promoter-1", 5000, 2500)
	events.events["e1"].Donors = 10
	draft := publishedEvent("e2", "promoter-1", 1000, 0)
	draft.Status = domain.EventStatusDraft
	events.events["e2"] = draft

	donations := NewMockDonationRepository()
	return NewDonationService(events, donations, gw, "", nil), events, donations
}

func TestDonationService_Donate(t *testing.T) {
	gw := &MockGateway{success: true}
	svc, events, donations := newTestDonationService(gw)

	d, err := svc.Donate(context.Background(), "donor-1", &dto.CreateDonationRequest{
		EventID: "e1",
		Amount:  50,
		Method:  "yape",
		Message: "¡Vamos!",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DonationStatusSucceeded, d.Status)
	assert.Equal(t, donation.Currency, d.Currency)
	assert.NotEmpty(t, d.TransactionID)
	assert.Equal(t, "¡Vamos!", d.Message)
	assert.Equal(t, "Evento e1", d.EventTitle)
	require.Len(t, donations.donations, 1)

	// the event's counters are not touched by a donation
	assert.Equal(t, 2500.0, events.events["e1"].Raised)
	assert.Equal(t, 10, events.events["e1"].Donors)
}

func TestDonationService_DonateRejects(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateDonationRequest
		wantErr error
	}{
		{"unknown event", dto.CreateDonationRequest{EventID: "missing", Amount: 50, Method: "card"}, ErrEventNotFound},
		{"draft event", dto.CreateDonationRequest{EventID: "e2", Amount: 50, Method: "card"}, ErrEventNotFound},
		{"below minimum", dto.CreateDonationRequest{EventID: "e1", Amount: 1, Method: "card"}, donation.ErrInvalidAmount},
		{"above maximum", dto.CreateDonationRequest{EventID: "e1", Amount: 50001, Method: "card"}, donation.ErrInvalidAmount},
		{"bad method", dto.CreateDonationRequest{EventID: "e1", Amount: 50, Method: "bitcoin"}, donation.ErrInvalidMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &MockGateway{success: true}
			svc, _, donations := newTestDonationService(gw)

			_, err := svc.Donate(context.Background(), "donor-1", &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, gw.charges)
			assert.Empty(t, donations.donations)
		})
	}
}

func TestDonationService_DeclineIsRecorded(t *testing.T) {
	gw := &MockGateway{success: false, reason: "insufficient funds"}
	svc, _, donations := newTestDonationService(gw)

	d, err := svc.Donate(context.Background(), "donor-1", &dto.CreateDonationRequest{EventID: "e1", Amount: 20, Method: "card"})
	assert.ErrorIs(t, err, donation.ErrPaymentFailed)
	require.NotNil(t, d)
	assert.Equal(t, domain.DonationStatusFailed, d.Status)
	assert.Equal(t, "insufficient funds", d.FailureReason)
	assert.Len(t, donations.donations, 1)
}

func TestDonationService_GatewayError(t *testing.T) {
	gw := &MockGateway{err: errBoom}
	svc, _, donations := newTestDonationService(gw)

	_, err := svc.Donate(context.Background(), "donor-1", &dto.CreateDonationRequest{EventID: "e1", Amount: 20, Method: "plin"})
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, donations.donations)
}

func TestDonationService_ListMine(t *testing.T) {
	gw := &MockGateway{success: true}
	svc, _, _ := newTestDonationService(gw)
	ctx := context.Background()

	for _, amount := range []float64{20, 100} {
		_, err := svc.Donate(ctx, "donor-1", &dto.CreateDonationRequest{EventID: "e1", Amount: amount, Method: "card"})
		require.NoError(t, err)
	}
	_, err := svc.Donate(ctx, "donor-2", &dto.CreateDonationRequest{EventID: "e1", Amount: 50, Method: "card"})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "donor-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 100.0, mine[0].Amount)
}
