package tickets

import (
	"bytes"
	"testing"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/Ryan-Shaik/TechWave/src/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidPurchase() *models.Purchase {
	return &models.Purchase{
		ID:            "abc123",
		TicketTierID:  "vip",
		Quantity:      2,
		CustomerName:  "Ada",
		PaymentStatus: types.PAYMENT_SUCCEEDED,
	}
}

func TestSignAndVerify(t *testing.T) {
	i := NewPassIssuer("secret", time.Hour)
	token, err := i.Sign(paidPurchase())
	require.NoError(t, err)

	claims, err := i.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.PurchaseID)
	assert.Equal(t, "vip", claims.Tier)
	assert.Equal(t, 2, claims.Quantity)

	_, err = NewPassIssuer("other", time.Hour).Verify(token)
	assert.Error(t, err)

	expired := NewPassIssuer("secret", -time.Minute)
	token, err = expired.Sign(paidPurchase())
	require.NoError(t, err)
	_, err = expired.Verify(token)
	assert.Error(t, err)
}

func TestSignRequiresPayment(t *testing.T) {
	p := paidPurchase()
	p.PaymentStatus = types.PAYMENT_PENDING
	_, err := NewPassIssuer("secret", time.Hour).Sign(p)
	assert.ErrorIs(t, err, ErrNotPaid)
}

func TestWriteQRCode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPassIssuer("secret", time.Hour).WriteQRCode(&buf, paidPurchase()))
	b := buf.Bytes()
	require.Greater(t, len(b), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, b[:2])
}
