package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/Ryan-Shaik/TechWave/src/events"
	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/Ryan-Shaik/TechWave/src/payments"
	"github.com/Ryan-Shaik/TechWave/src/store"
)

var (
	ErrAlreadyInitializing = errors.New("checkout is already being initialized")
	ErrInvalidQuantity     = errors.New("invalid ticket quantity")
)

type InitResult struct {
	PurchaseID    string           `json:"purchase_id"`
	PaymentIntent *payments.Intent `json:"payment_intent"`
	Purchase      *models.Purchase `json:"purchase"`
}

// Initializer creates the payment intent and the pending purchase record.
type Initializer struct {
	Store     store.PurchaseStore
	Processor payments.Processor
	Guard     Guard
	Publisher events.Publisher
	Currency  string
}

// Initialize runs at most once per non-empty key; later calls with the same
// key replay the first result.
func (i *Initializer) Initialize(ctx context.Context, key string, tierKey string, quantity int) (*InitResult, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, err.Error())
	}
	if key == "" || i.Guard == nil {
		return i.initialize(ctx, tierKey, quantity)
	}
	replay, err := i.Guard.Begin(ctx, key)
	if err != nil {
		return nil, err
	}
	if replay != nil {
		log.Printf("[Checkout] Replaying initialization for %s\n", key)
		return i.refresh(ctx, replay), nil
	}
	r, err := i.initialize(ctx, tierKey, quantity)
	if err != nil {
		if rerr := i.Guard.Release(ctx, key); rerr != nil {
			log.Printf("[Checkout] Could not release %s: %s\n", key, rerr.Error())
		}
		return nil, err
	}
	if err := i.Guard.Finish(ctx, key, r); err != nil {
		log.Printf("[Checkout] Could not store result for %s: %s\n", key, err.Error())
	}
	return r, nil
}

// refresh returns a copy of r carrying the purchase as currently stored.
func (i *Initializer) refresh(ctx context.Context, r *InitResult) *InitResult {
	out := *r
	p, err := i.Store.Get(ctx, r.PurchaseID)
	if err != nil {
		log.Printf("[Checkout] Could not reload purchase %s: %s\n", r.PurchaseID, err.Error())
		return &out
	}
	out.Purchase = p
	return &out
}

func (i *Initializer) initialize(ctx context.Context, tierKey string, quantity int) (*InitResult, error) {
	tier := models.ResolveTier(tierKey)
	total := models.Total(tier.Price, quantity)
	pi, err := i.Processor.CreateIntent(ctx, payments.IntentParams{
		Amount:   payments.MinorUnits(total),
		Currency: i.Currency,
		Metadata: map[string]string{
			"ticketTier": tier.ID,
			"quantity":   strconv.Itoa(quantity),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}
	currency := pi.Currency
	if currency == "" {
		currency = i.Currency
	}
	p, err := models.NewPendingPurchase(tier, quantity, currency, pi.ID)
	if err != nil {
		return nil, err
	}
	id, err := i.Store.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("creating purchase: %w", err)
	}
	log.Printf("[Checkout] Created purchase %s for %d x %s\n", id, quantity, tier.ID)
	events.PublishAsync(i.Publisher, events.PurchaseEvent{
		Source:          "checkout.initialized",
		PurchaseID:      id,
		PaymentIntentID: pi.ID,
		Status:          p.PaymentStatus,
		TotalAmount:     p.TotalAmount,
	})
	return &InitResult{PurchaseID: id, PaymentIntent: pi, Purchase: p}, nil
}
