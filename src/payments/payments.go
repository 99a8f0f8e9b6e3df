package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ConferenceName is attached to every intent as metadata.
const ConferenceName = "TechWave 2025"

// Intent is the processor's payment intent. Amount is in minor units.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type IntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

type ConfirmParams struct {
	PaymentIntentID string
	PaymentMethod   string
	ReceiptEmail    string
	ReturnURL       string
}

type Processor interface {
	Name() string
	CreateIntent(ctx context.Context, p IntentParams) (*Intent, error)
	Confirm(ctx context.Context, p ConfirmParams) (*Intent, error)
}

type ErrorKind string

const (
	CardError       ErrorKind = "card_error"
	ValidationError ErrorKind = "validation_error"
	APIError        ErrorKind = "api_error"
)

// ConfirmError is a rejected confirmation as reported by the processor.
type ConfirmError struct {
	Kind    ErrorKind
	Message string
}

func (e *ConfirmError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Message converts a confirmation failure into the text shown to the buyer.
func Message(err error) string {
	var ce *ConfirmError
	if errors.As(err, &ce) {
		switch ce.Kind {
		case CardError:
			if ce.Message != "" {
				return ce.Message
			}
			return "Your card was declined"
		case ValidationError:
			return "Please check your payment information"
		default:
			if ce.Message != "" {
				return ce.Message
			}
			return "Payment failed"
		}
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "An unexpected error occurred"
}

// MinorUnits converts a whole-unit amount to the processor's minor units.
func MinorUnits(amount int64) int64 {
	return amount * 100
}

func Succeeded(status string) bool {
	switch status {
	case "succeeded", "processing", "requires_capture":
		return true
	}
	return false
}

func checkConfirmed(pi *Intent) (*Intent, error) {
	if Succeeded(pi.Status) {
		return pi, nil
	}
	return pi, &ConfirmError{Kind: APIError, Message: fmt.Sprintf("Payment was not completed (%s)", pi.Status)}
}

func normalizeCurrency(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return "usd"
	}
	return c
}
