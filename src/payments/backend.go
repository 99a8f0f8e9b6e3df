package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// BackendProcessor creates intents through the payment backend's
// /api/create-payment-intent endpoint. Confirmation happens in the widget, so
// Confirm is delegated to the processor given as confirmer.
type BackendProcessor struct {
	baseURL   string
	client    *http.Client
	confirmer Processor
}

func NewBackendProcessor(baseURL string, confirmer Processor) *BackendProcessor {
	return &BackendProcessor{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 10 * time.Second},
		confirmer: confirmer,
	}
}

func (b *BackendProcessor) Name() string {
	return "Backend"
}

func (b *BackendProcessor) CreateIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	body, err := json.Marshal(map[string]any{
		"amount":   p.Amount,
		"currency": normalizeCurrency(p.Currency),
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/create-payment-intent", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&e)
		return nil, fmt.Errorf("payment backend returned %d: %s", res.StatusCode, e.Error)
	}
	var pi Intent
	if err := json.NewDecoder(res.Body).Decode(&pi); err != nil {
		return nil, fmt.Errorf("decoding payment intent: %w", err)
	}
	return &pi, nil
}

func (b *BackendProcessor) Confirm(ctx context.Context, p ConfirmParams) (*Intent, error) {
	if b.confirmer == nil {
		return nil, &ConfirmError{Kind: APIError, Message: "Payment system not ready. Please wait a moment and try again."}
	}
	return b.confirmer.Confirm(ctx, p)
}
