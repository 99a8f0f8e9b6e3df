package payments

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Ryan-Shaik/TechWave/src/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mockIDPattern     = regexp.MustCompile(`^pi_[A-Za-z0-9]{27}$`)
	mockSecretPattern = regexp.MustCompile(`^pi_[A-Za-z0-9]{27}_secret_[A-Za-z0-9]{24}$`)
)

func TestMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&ConfirmError{Kind: CardError, Message: "Your card has insufficient funds."}, "Your card has insufficient funds."},
		{&ConfirmError{Kind: CardError}, "Your card was declined"},
		{&ConfirmError{Kind: ValidationError, Message: "Your card number is incomplete."}, "Please check your payment information"},
		{&ConfirmError{Kind: APIError, Message: "Something broke"}, "Something broke"},
		{&ConfirmError{Kind: APIError}, "Payment failed"},
		{errors.New("network down"), "network down"},
		{nil, "An unexpected error occurred"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Message(c.err))
	}
}

func TestNewMockIntent(t *testing.T) {
	pi := NewMockIntent(59800, "")
	assert.Regexp(t, mockIDPattern, pi.ID)
	assert.Regexp(t, mockSecretPattern, pi.ClientSecret)
	assert.Contains(t, pi.ClientSecret, pi.ID+"_secret_")
	assert.Equal(t, "requires_payment_method", pi.Status)
	assert.Equal(t, "usd", pi.Currency)
	assert.Equal(t, int64(59800), pi.Amount)

	assert.NotEqual(t, pi.ID, NewMockIntent(1, "usd").ID)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(59800), MinorUnits(598))
}

func TestMockProcessorConfirm(t *testing.T) {
	ctx := context.Background()
	m := NewMockProcessor(nil)
	pi, err := m.CreateIntent(ctx, IntentParams{Amount: 29900, Currency: "usd"})
	require.NoError(t, err)

	_, err = m.Confirm(ctx, ConfirmParams{PaymentIntentID: pi.ID, PaymentMethod: DeclinedPaymentMethod})
	var ce *ConfirmError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CardError, ce.Kind)

	confirmed, err := m.Confirm(ctx, ConfirmParams{PaymentIntentID: pi.ID, PaymentMethod: "pm_card_visa"})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", confirmed.Status)

	_, err = m.Confirm(ctx, ConfirmParams{PaymentIntentID: "pi_unknown"})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ValidationError, ce.Kind)
}

type failingProcessor struct {
	confirmed int
}

func (f *failingProcessor) Name() string { return "Failing" }

func (f *failingProcessor) CreateIntent(context.Context, IntentParams) (*Intent, error) {
	return nil, errors.New("connection refused")
}

func (f *failingProcessor) Confirm(context.Context, ConfirmParams) (*Intent, error) {
	f.confirmed++
	return &Intent{Status: "succeeded"}, nil
}

func TestFallbackProcessorUsesMockOnFailure(t *testing.T) {
	ctx := context.Background()
	primary := &failingProcessor{}
	f := NewFallbackProcessor(primary, nil)

	pi, err := f.CreateIntent(ctx, IntentParams{Amount: 19900, Currency: "usd"})
	require.NoError(t, err)
	assert.Regexp(t, mockIDPattern, pi.ID)
	assert.Equal(t, int64(19900), pi.Amount)

	confirmed, err := f.Confirm(ctx, ConfirmParams{PaymentIntentID: pi.ID})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", confirmed.Status)
	assert.Equal(t, 0, primary.confirmed)

	_, err = f.Confirm(ctx, ConfirmParams{PaymentIntentID: "pi_from_primary"})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.confirmed)
}

func TestFallbackProcessorWithoutPrimary(t *testing.T) {
	f := NewFallbackProcessor(nil, nil)
	assert.Equal(t, "Mock", f.Name())
	pi, err := f.CreateIntent(context.Background(), IntentParams{Amount: 100})
	require.NoError(t, err)
	assert.Regexp(t, mockIDPattern, pi.ID)
}

func TestMockIntentsConfirmAcrossProcessors(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	first := NewFallbackProcessor(&failingProcessor{}, NewMockProcessor(kv))
	pi, err := first.CreateIntent(ctx, IntentParams{Amount: 59800, Currency: "usd"})
	require.NoError(t, err)

	primary := &failingProcessor{}
	restarted := NewFallbackProcessor(primary, NewMockProcessor(kv))
	owned, err := restarted.mock.Owns(ctx, pi.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	confirmed, err := restarted.Confirm(ctx, ConfirmParams{PaymentIntentID: pi.ID, PaymentMethod: "pm_card_visa"})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", confirmed.Status)
	assert.Equal(t, 0, primary.confirmed)

	mockOnly := NewFallbackProcessor(nil, NewMockProcessor(kv))
	_, err = mockOnly.Confirm(ctx, ConfirmParams{PaymentIntentID: pi.ID, PaymentMethod: DeclinedPaymentMethod})
	var ce *ConfirmError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CardError, ce.Kind)
}

func TestFallbackProcessorPrimary(t *testing.T) {
	primary := &failingProcessor{}
	assert.Same(t, primary, NewFallbackProcessor(primary, nil).Primary())
	assert.Nil(t, NewFallbackProcessor(nil, nil).Primary())
}
