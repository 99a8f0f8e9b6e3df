package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/types"
)

// Topic carries purchase status changes.
const Topic = "TicketPurchaseUpdates"

// PurchaseEvent is published whenever a purchase is created or changes status.
type PurchaseEvent struct {
	Source          string              `json:"source"`
	PurchaseID      string              `json:"purchaseId"`
	PaymentIntentID string              `json:"paymentIntentId,omitempty"`
	Status          types.PaymentStatus `json:"paymentStatus"`
	TotalAmount     int64               `json:"totalAmount,omitempty"`
	Timestamp       time.Time           `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, e PurchaseEvent) error
}

// LogPublisher writes events to the server log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e PurchaseEvent) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	log.Printf("[%s] %s\n", Topic, string(b))
	return nil
}

// PublishAsync publishes e in the background and logs failures.
func PublishAsync(p Publisher, e PurchaseEvent) {
	if p == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Publish(ctx, e); err != nil {
			log.Printf("[%s] Could not publish event for %s: %s\n", Topic, e.PurchaseID, err.Error())
		}
	}()
}
