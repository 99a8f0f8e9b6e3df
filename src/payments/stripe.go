package payments

import (
	"context"
	"errors"
	"log"

	"github.com/stripe/stripe-go/v82"
)

type StripeProcessor struct {
	client *stripe.Client
}

func NewStripeProcessor(c *stripe.Client) *StripeProcessor {
	return &StripeProcessor{client: c}
}

func (s *StripeProcessor) Name() string {
	return "Stripe"
}

func (s *StripeProcessor) CreateIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(normalizeCurrency(p.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
		Metadata: map[string]string{"conference": ConferenceName},
	}
	for k, v := range p.Metadata {
		params.Metadata[k] = v
	}
	pi, err := s.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		log.Printf("[Stripe] Error creating payment intent: %s\n", err.Error())
		return nil, err
	}
	return fromStripe(pi), nil
}

func (s *StripeProcessor) Confirm(ctx context.Context, p ConfirmParams) (*Intent, error) {
	params := &stripe.PaymentIntentConfirmParams{}
	if p.PaymentMethod != "" {
		params.PaymentMethod = stripe.String(p.PaymentMethod)
	}
	if p.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(p.ReceiptEmail)
	}
	if p.ReturnURL != "" {
		params.ReturnURL = stripe.String(p.ReturnURL)
	}
	pi, err := s.client.V1PaymentIntents.Confirm(ctx, p.PaymentIntentID, params)
	if err != nil {
		log.Printf("[Stripe] Error confirming payment intent %s: %s\n", p.PaymentIntentID, err.Error())
		return nil, classifyStripeError(err)
	}
	return checkConfirmed(fromStripe(pi))
}

func classifyStripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Type {
	case stripe.ErrorTypeCard:
		return &ConfirmError{Kind: CardError, Message: se.Msg}
	case stripe.ErrorTypeInvalidRequest:
		return &ConfirmError{Kind: ValidationError, Message: se.Msg}
	default:
		return &ConfirmError{Kind: APIError, Message: se.Msg}
	}
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}
