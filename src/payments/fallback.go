package payments

import (
	"context"
	"log"
)

// FallbackProcessor creates intents with primary and switches to the mock
// generator when primary fails. Confirmations are routed back to whichever
// processor minted the intent.
type FallbackProcessor struct {
	primary Processor
	mock    *MockProcessor
}

func NewFallbackProcessor(primary Processor, mock *MockProcessor) *FallbackProcessor {
	if mock == nil {
		mock = NewMockProcessor(nil)
	}
	return &FallbackProcessor{primary: primary, mock: mock}
}

func (f *FallbackProcessor) Name() string {
	if f.primary == nil {
		return f.mock.Name()
	}
	return f.primary.Name()
}

func (f *FallbackProcessor) CreateIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	if f.primary != nil {
		pi, err := f.primary.CreateIntent(ctx, p)
		if err == nil {
			return pi, nil
		}
		log.Printf("[Payments] %s unavailable, using mock payment intent: %s\n", f.primary.Name(), err.Error())
	}
	return f.mock.CreateIntent(ctx, p)
}

func (f *FallbackProcessor) Confirm(ctx context.Context, p ConfirmParams) (*Intent, error) {
	if f.primary == nil {
		return f.mock.Confirm(ctx, p)
	}
	owned, err := f.mock.Owns(ctx, p.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if owned {
		return f.mock.Confirm(ctx, p)
	}
	return f.primary.Confirm(ctx, p)
}

// Primary is the configured processor, or nil when only mock intents are
// available.
func (f *FallbackProcessor) Primary() Processor {
	return f.primary
}
