package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/Ryan-Shaik/TechWave/src/store"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DeclinedPaymentMethod makes the mock processor reject a confirmation.
const DeclinedPaymentMethod = "pm_card_chargeDeclined"

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[rand.IntN(len(alphanumeric))]
	}
	return string(b)
}

// NewMockIntent mints a locally generated intent awaiting a payment method.
func NewMockIntent(amount int64, currency string) *Intent {
	id := "pi_" + randomString(27)
	return &Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, randomString(24)),
		Amount:       amount,
		Currency:     normalizeCurrency(currency),
		Status:       "requires_payment_method",
	}
}

// MockIntentKeyPrefix namespaces minted intents in the key-value store.
const MockIntentKeyPrefix = "mock_intent:"

// MockProcessor serves checkouts while no payment backend is reachable.
// Minted intents live in kv so that any instance sharing it can confirm them.
type MockProcessor struct {
	kv store.KeyValue
	mu sync.Mutex
}

func NewMockProcessor(kv store.KeyValue) *MockProcessor {
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	return &MockProcessor{kv: kv}
}

func (m *MockProcessor) Name() string {
	return "Mock"
}

func (m *MockProcessor) load(ctx context.Context, id string) (*Intent, error) {
	b, err := m.kv.Get(ctx, MockIntentKeyPrefix+id)
	if err != nil || b == nil {
		return nil, err
	}
	var pi Intent
	if err := json.Unmarshal(b, &pi); err != nil {
		return nil, fmt.Errorf("decoding mock intent %s: %w", id, err)
	}
	return &pi, nil
}

func (m *MockProcessor) save(ctx context.Context, pi *Intent) error {
	b, err := json.Marshal(pi)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, MockIntentKeyPrefix+pi.ID, b)
}

// Owns reports whether id was minted by a mock processor sharing kv.
func (m *MockProcessor) Owns(ctx context.Context, id string) (bool, error) {
	pi, err := m.load(ctx, id)
	return pi != nil, err
}

func (m *MockProcessor) CreateIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	pi := NewMockIntent(p.Amount, p.Currency)
	if err := m.save(ctx, pi); err != nil {
		return nil, fmt.Errorf("storing mock intent: %w", err)
	}
	return pi, nil
}

func (m *MockProcessor) Confirm(ctx context.Context, p ConfirmParams) (*Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pi, err := m.load(ctx, p.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if pi == nil {
		return nil, &ConfirmError{Kind: ValidationError, Message: fmt.Sprintf("No such payment_intent: '%s'", p.PaymentIntentID)}
	}
	if p.PaymentMethod == DeclinedPaymentMethod {
		return nil, &ConfirmError{Kind: CardError, Message: "Your card was declined."}
	}
	pi.Status = "succeeded"
	if err := m.save(ctx, pi); err != nil {
		return nil, err
	}
	return pi, nil
}
