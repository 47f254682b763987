package metrics

import (
	"context"
	"sync"

	"github.com/juntape/junta/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Donation counters
	DonationsSucceeded *telemetry.Counter
	DonationsFailed    *telemetry.Counter

	// Event lifecycle counters
	EventChanges *telemetry.Counter

	// Auth counters
	SignIns       *telemetry.Counter
	SignInsFailed *telemetry.Counter

	// Histograms
	DonationAmount   *telemetry.Histogram
	DonationDuration *telemetry.Histogram

	initOnce sync.Once
	initErr  error
)

// Init initializes all application metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	DonationsSucceeded, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "junta_donations_succeeded_total",
		Description: "Total number of donations the gateway accepted",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	DonationsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "junta_donations_failed_total",
		Description: "Total number of donations the gateway declined",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	EventChanges, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "junta_event_changes_total",
		Description: "Total number of event lifecycle changes",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SignIns, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "junta_sign_ins_total",
		Description: "Total number of successful sign-ins",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SignInsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "junta_sign_ins_failed_total",
		Description: "Total number of rejected sign-ins",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	DonationAmount, err = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "junta_donation_amount",
		Description: "Donation amounts",
		Unit:        "PEN",
	})
	if err != nil {
		return err
	}

	DonationDuration, err = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "junta_donation_duration_seconds",
		Description: "Time spent charging the payment gateway",
		Unit:        "s",
	})
	return err
}

// RecordDonationSucceeded records an accepted donation
func RecordDonationSucceeded(ctx context.Context, method, gateway string, amount, durationSeconds float64) {
	if DonationsSucceeded != nil {
		DonationsSucceeded.Inc(ctx,
			attribute.String("method", method),
			attribute.String("gateway", gateway),
		)
	}
	if DonationAmount != nil {
		DonationAmount.Record(ctx, amount,
			attribute.String("method", method),
		)
	}
	if DonationDuration != nil {
		DonationDuration.Record(ctx, durationSeconds,
			attribute.String("gateway", gateway),
		)
	}
}

// RecordDonationFailed records a declined donation
func RecordDonationFailed(ctx context.Context, method, gateway, reason string, durationSeconds float64) {
	if DonationsFailed != nil {
		DonationsFailed.Inc(ctx,
			attribute.String("method", method),
			attribute.String("gateway", gateway),
			attribute.String("reason", reason),
		)
	}
	if DonationDuration != nil {
		DonationDuration.Record(ctx, durationSeconds,
			attribute.String("gateway", gateway),
		)
	}
}

// RecordEventChange records an event lifecycle change
func RecordEventChange(ctx context.Context, changeType string) {
	if EventChanges != nil {
		EventChanges.Inc(ctx, attribute.String("type", changeType))
	}
}

// RecordSignIn records a sign-in attempt
func RecordSignIn(ctx context.Context, role string, ok bool) {
	if ok {
		if SignIns != nil {
			SignIns.Inc(ctx, attribute.String("role", role))
		}
		return
	}
	if SignInsFailed != nil {
		SignInsFailed.Inc(ctx)
	}
}
