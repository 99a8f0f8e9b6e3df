package models

import (
	"testing"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPendingPurchase(t *testing.T) {
	tier := ResolveTier("vip")
	p, err := NewPendingPurchase(tier, 3, "usd", "pi_123")
	require.NoError(t, err)

	assert.Equal(t, "vip", p.TicketTierID)
	assert.Equal(t, "VIP Experience", p.TicketTierName)
	assert.Equal(t, int64(599), p.Price)
	assert.Equal(t, int64(1797), p.TotalAmount)
	assert.Equal(t, types.PAYMENT_PENDING, p.PaymentStatus)
	assert.Empty(t, p.CustomerName)
	assert.Empty(t, p.CustomerEmail)
	assert.Empty(t, p.CustomerPhone)
	assert.Equal(t, "pi_123", p.PaymentIntentID)
}

func TestNewPendingPurchaseQuantityBounds(t *testing.T) {
	tier := ResolveTier("standard")
	for _, q := range []int{0, -1, 11} {
		_, err := NewPendingPurchase(tier, q, "usd", "pi_1")
		assert.Error(t, err, "quantity %d", q)
	}
	for _, q := range []int{1, 10} {
		_, err := NewPendingPurchase(tier, q, "usd", "pi_1")
		assert.NoError(t, err, "quantity %d", q)
	}
}

func TestCheckTransition(t *testing.T) {
	assert.NoError(t, CheckTransition(types.PAYMENT_PENDING, types.PAYMENT_SUCCEEDED))
	assert.NoError(t, CheckTransition(types.PAYMENT_PENDING, types.PAYMENT_FAILED))
	assert.ErrorIs(t, CheckTransition(types.PAYMENT_SUCCEEDED, types.PAYMENT_FAILED), ErrInvalidTransition)
	assert.ErrorIs(t, CheckTransition(types.PAYMENT_FAILED, types.PAYMENT_SUCCEEDED), ErrInvalidTransition)
	assert.ErrorIs(t, CheckTransition(types.PAYMENT_PENDING, types.PAYMENT_CANCELED), ErrInvalidTransition)

	p := &Purchase{PaymentStatus: types.PAYMENT_PENDING}
	assert.True(t, p.CanTransition(types.PAYMENT_SUCCEEDED))
	p.PaymentStatus = types.PAYMENT_SUCCEEDED
	assert.False(t, p.CanTransition(types.PAYMENT_SUCCEEDED))
}

func TestPurchaseUpdate(t *testing.T) {
	u := CustomerUpdate("Ada", "ada@example.com", "")
	assert.False(t, u.IsEmpty())
	assert.Equal(t, map[string]any{
		"customerName":  "Ada",
		"customerEmail": "ada@example.com",
		"customerPhone": "",
	}, u.Fields())

	p := &Purchase{PaymentStatus: types.PAYMENT_PENDING, CustomerPhone: "555"}
	now := time.Now()
	u.Apply(p, now)
	assert.Equal(t, "Ada", p.CustomerName)
	assert.Equal(t, "", p.CustomerPhone)
	assert.Equal(t, types.PAYMENT_PENDING, p.PaymentStatus)
	assert.Equal(t, now, *p.UpdatedAt)

	s := StatusUpdate(types.PAYMENT_FAILED)
	assert.Equal(t, map[string]any{"paymentStatus": "failed"}, s.Fields())
	s.Apply(p, now)
	assert.Equal(t, types.PAYMENT_FAILED, p.PaymentStatus)
	assert.Equal(t, "Ada", p.CustomerName)

	assert.True(t, PurchaseUpdate{}.IsEmpty())
}

func TestIsFallback(t *testing.T) {
	assert.True(t, (&Purchase{ID: "demo_1700000000000_abc123xyz"}).IsFallback())
	assert.False(t, (&Purchase{ID: "Xy12abc"}).IsFallback())
}
