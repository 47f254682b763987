package donation

import (
	"context"
	"errors"
	"testing"

	"github.com/juntape/junta/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type confirmerFunc func(ctx context.Context, in Intent) (*domain.Donation, error)

func (f confirmerFunc) Confirm(ctx context.Context, in Intent) (*domain.Donation, error) {
	return f(ctx, in)
}

func okConfirmer() confirmerFunc {
	return func(_ context.Context, in Intent) (*domain.Donation, error) {
		d, err := domain.NewDonation(in.EventID, in.DonorID, in.Amount, Currency, in.Method)
		if err != nil {
			return nil, err
		}
		_ = d.Succeed("txn-1")
		return d, nil
	}
}

func TestFlow_HappyPath(t *testing.T) {
	f := NewFlow("e-1", "u-1")
	assert.Equal(t, StageAmount, f.Stage())

	require.NoError(t, f.SelectAmount(50))
	assert.Equal(t, StageMethod, f.Stage())

	require.NoError(t, f.SelectMethod(domain.PaymentMethodYape))
	assert.Equal(t, StageConfirm, f.Stage())

	f.SetMessage("  ¡Vamos!  ")
	d, err := f.Confirm(context.Background(), okConfirmer())
	require.NoError(t, err)
	assert.Equal(t, StageCompleted, f.Stage())
	assert.Equal(t, domain.DonationStatusSucceeded, d.Status)
	assert.Equal(t, 50.0, d.Amount)
	assert.Equal(t, "¡Vamos!", f.Intent().Message)
	assert.Same(t, d, f.Receipt())
}

func TestFlow_SelectAmount(t *testing.T) {
	tests := []struct {
		amount  float64
		wantErr bool
	}{
		{20, false},
		{5, false},
		{50000, false},
		{4.99, true},
		{50001, true},
		{0, true},
		{-10, true},
	}

	for _, tt := range tests {
		f := NewFlow("e-1", "u-1")
		err := f.SelectAmount(tt.amount)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", tt.amount)
			assert.Equal(t, StageAmount, f.Stage())
		} else {
			assert.NoError(t, err, "amount %v", tt.amount)
		}
	}
}

func TestFlow_StageOrderEnforced(t *testing.T) {
	f := NewFlow("e-1", "u-1")
	assert.ErrorIs(t, f.SelectMethod(domain.PaymentMethodCard), ErrWrongStage)

	_, err := f.Confirm(context.Background(), okConfirmer())
	assert.ErrorIs(t, err, ErrWrongStage)

	require.NoError(t, f.SelectAmount(100))
	assert.ErrorIs(t, f.SelectAmount(200), ErrWrongStage)
	assert.ErrorIs(t, f.SelectMethod("paypal"), ErrInvalidMethod)
}

func TestFlow_Back(t *testing.T) {
	f := NewFlow("e-1", "u-1")
	require.NoError(t, f.SelectAmount(100))
	require.NoError(t, f.SelectMethod(domain.PaymentMethodPlin))

	f.Back()
	assert.Equal(t, StageMethod, f.Stage())
	f.Back()
	assert.Equal(t, StageAmount, f.Stage())
	f.Back()
	assert.Equal(t, StageAmount, f.Stage())
}

func TestFlow_ConfirmFailureStaysOnConfirm(t *testing.T) {
	f := NewFlow("e-1", "u-1")
	require.NoError(t, f.SelectAmount(20))
	require.NoError(t, f.SelectMethod(domain.PaymentMethodCard))

	failing := confirmerFunc(func(context.Context, Intent) (*domain.Donation, error) {
		return nil, ErrPaymentFailed
	})
	_, err := f.Confirm(context.Background(), failing)
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.Equal(t, StageConfirm, f.Stage())
	assert.True(t, errors.Is(f.Err(), ErrPaymentFailed))

	// retry succeeds
	_, err = f.Confirm(context.Background(), okConfirmer())
	require.NoError(t, err)
	assert.Equal(t, StageCompleted, f.Stage())
	assert.NoError(t, f.Err())
}

func TestFlow_Reset(t *testing.T) {
	f := NewFlow("e-1", "u-1")
	require.NoError(t, f.SelectAmount(20))
	f.Reset()
	assert.Equal(t, StageAmount, f.Stage())
	assert.Equal(t, "e-1", f.Intent().EventID)
	assert.Zero(t, f.Intent().Amount)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, []float64{20, 50, 100, 200}, opts.Presets)
	assert.Equal(t, "PEN", opts.Currency)
	require.Len(t, opts.Methods, 4)
	assert.Equal(t, "Yape", opts.Methods[1].Label)
	for _, p := range opts.Presets {
		assert.True(t, ValidAmount(p))
	}
}
