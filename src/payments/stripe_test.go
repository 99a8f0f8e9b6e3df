package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func newStripeTestClient(t *testing.T, h http.HandlerFunc) *stripe.Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	backends := stripe.NewBackendsWithConfig(&stripe.BackendConfig{
		URL:               stripe.String(server.URL),
		MaxNetworkRetries: stripe.Int64(0),
	})
	return stripe.NewClient("sk_test_123", stripe.WithBackends(backends))
}

func TestStripeProcessorCreateIntent(t *testing.T) {
	var form map[string][]string
	sc := newStripeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "pi_test_1",
			"object":        "payment_intent",
			"client_secret": "pi_test_1_secret_abc",
			"amount":        59800,
			"currency":      "usd",
			"status":        "requires_payment_method",
		})
	})

	p := NewStripeProcessor(sc)
	pi, err := p.CreateIntent(context.Background(), IntentParams{
		Amount:   59800,
		Currency: "USD",
		Metadata: map[string]string{"tier": "standard"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_test_1", pi.ID)
	assert.Equal(t, "pi_test_1_secret_abc", pi.ClientSecret)
	assert.Equal(t, "requires_payment_method", pi.Status)

	assert.Equal(t, "59800", form["amount"][0])
	assert.Equal(t, "usd", form["currency"][0])
	assert.Equal(t, "never", form["automatic_payment_methods[allow_redirects]"][0])
	assert.Equal(t, ConferenceName, form["metadata[conference]"][0])
	assert.Equal(t, "standard", form["metadata[tier]"][0])
}

func TestStripeProcessorConfirmCardError(t *testing.T) {
	sc := newStripeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_test_2/confirm", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "card_error",
				"code":    "card_declined",
				"message": "Your card has insufficient funds.",
			},
		})
	})

	_, err := NewStripeProcessor(sc).Confirm(context.Background(), ConfirmParams{
		PaymentIntentID: "pi_test_2",
		PaymentMethod:   "pm_card_visa",
		ReceiptEmail:    "ada@example.com",
	})
	var ce *ConfirmError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CardError, ce.Kind)
	assert.Equal(t, "Your card has insufficient funds.", Message(err))
}

func TestStripeProcessorConfirmSucceeded(t *testing.T) {
	var form map[string][]string
	sc := newStripeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pi_test_3",
			"object": "payment_intent",
			"amount": 29900,
			"status": "succeeded",
		})
	})

	pi, err := NewStripeProcessor(sc).Confirm(context.Background(), ConfirmParams{
		PaymentIntentID: "pi_test_3",
		PaymentMethod:   "pm_card_visa",
		ReceiptEmail:    "ada@example.com",
		ReturnURL:       "http://localhost:5173/confirmation?purchase_id=abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "succeeded", pi.Status)
	assert.Equal(t, "ada@example.com", form["receipt_email"][0])
	assert.Equal(t, "pm_card_visa", form["payment_method"][0])
	assert.Equal(t, "http://localhost:5173/confirmation?purchase_id=abc", form["return_url"][0])
}
