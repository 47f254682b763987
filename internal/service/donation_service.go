package service

import (
	"context"
	"fmt"
	"time"

	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/donation"
	"github.com/juntape/junta/internal/dto"
	"github.com/juntape/junta/internal/gateway"
	"github.com/juntape/junta/internal/metrics"
	"github.com/juntape/junta/internal/repository"
	"github.com/juntape/junta/pkg/logger"
	"github.com/juntape/junta/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// donationService implements DonationService
type donationService struct {
	eventRepo    repository.EventRepository
	donationRepo repository.DonationRepository
	gateway      gateway.PaymentGateway
	currency     string
	log          *logger.Logger
}

// NewDonationService creates a new DonationService
func NewDonationService(
	eventRepo repository.EventRepository,
	donationRepo repository.DonationRepository,
	gw gateway.PaymentGateway,
	currency string,
	log *logger.Logger,
) DonationService {
	if currency == "" {
		currency = donation.Currency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &donationService{
		eventRepo:    eventRepo,
		donationRepo: donationRepo,
		gateway:      gw,
		currency:     currency,
		log:          log,
	}
}

// Donate walks the three-stage flow for one confirmed request. The event's
// raised and donors counters are never modified here.
func (s *donationService) Donate(ctx context.Context, donorID string, req *dto.CreateDonationRequest) (*domain.Donation, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.donation.donate")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.id", req.EventID),
		attribute.String("donation.method", req.Method),
	)

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if event == nil || !event.IsPublic() {
		span.SetStatus(codes.Error, "event not found")
		return nil, ErrEventNotFound
	}

	flow := donation.NewFlow(event.ID, donorID)
	if err := flow.SelectAmount(req.Amount); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := flow.SelectMethod(domain.PaymentMethod(req.Method)); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	flow.SetMessage(req.Message)

	d, err := flow.Confirm(ctx, &ledgerConfirmer{svc: s, eventTitle: event.Title, eventSlug: event.Slug})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return d, err
	}

	span.SetAttributes(attribute.String("donation.id", d.ID))
	span.SetStatus(codes.Ok, "")
	return d, nil
}

// ListMine lists the donor's donations
func (s *donationService) ListMine(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	return s.donationRepo.ListByDonor(ctx, donorID)
}

// ledgerConfirmer charges the gateway and records the outcome
type ledgerConfirmer struct {
	svc        *donationService
	eventTitle string
	eventSlug  string
}

func (c *ledgerConfirmer) Confirm(ctx context.Context, in donation.Intent) (*domain.Donation, error) {
	s := c.svc
	d, err := domain.NewDonation(in.EventID, in.DonorID, in.Amount, s.currency, in.Method)
	if err != nil {
		return nil, err
	}
	d.Message = in.Message
	d.EventTitle = c.eventTitle
	d.EventSlug = c.eventSlug

	start := time.Now()
	resp, err := s.gateway.Charge(ctx, &gateway.ChargeRequest{
		DonationID:  d.ID,
		Amount:      d.Amount,
		Currency:    d.Currency,
		Method:      string(d.Method),
		Description: "Donación: " + c.eventTitle,
		Metadata:    map[string]string{"event_id": d.EventID, "donor_id": d.DonorID},
	})
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.log.WithContext(ctx).Error("payment gateway error",
			zap.String("gateway", s.gateway.Name()),
			zap.String("donation_id", d.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("payment gateway: %w", err)
	}

	if resp.Success {
		_ = d.Succeed(resp.TransactionID)
	} else {
		_ = d.Fail(resp.FailureReason)
	}

	if err := s.donationRepo.Create(ctx, d); err != nil {
		s.log.WithContext(ctx).Error("failed to record donation",
			zap.String("donation_id", d.ID),
			zap.String("status", string(d.Status)),
			zap.Error(err),
		)
		return nil, err
	}

	if !resp.Success {
		metrics.RecordDonationFailed(ctx, string(d.Method), s.gateway.Name(), resp.FailureReason, elapsed)
		return d, fmt.Errorf("%w: %s", donation.ErrPaymentFailed, resp.FailureReason)
	}

	metrics.RecordDonationSucceeded(ctx, string(d.Method), s.gateway.Name(), d.Amount, elapsed)
	return d, nil
}
