package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/types"
)

var ErrInvalidTransition = errors.New("invalid payment status transition")

const (
	MinQuantity = 1
	MaxQuantity = 10
)

// Purchase is one checkout's ticket order. Price and TotalAmount are whole
// currency units; the processor is charged TotalAmount*100 minor units.
type Purchase struct {
	ID              string              `gorm:"primarykey;size:64" firestore:"-" json:"id"`
	TicketTierID    string              `gorm:"size:64" firestore:"ticketTierId" json:"ticketTierId"`
	TicketTierName  string              `firestore:"ticketTierName" json:"ticketTierName"`
	Price           int64               `firestore:"price" json:"price"`
	Quantity        int                 `firestore:"quantity" json:"quantity"`
	TotalAmount     int64               `firestore:"totalAmount" json:"totalAmount"`
	Currency        string              `gorm:"size:3" firestore:"currency" json:"currency"`
	CustomerName    string              `firestore:"customerName" json:"customerName"`
	CustomerEmail   string              `firestore:"customerEmail" json:"customerEmail"`
	CustomerPhone   string              `firestore:"customerPhone" json:"customerPhone"`
	PaymentIntentID string              `gorm:"index" firestore:"paymentIntentId" json:"paymentIntentId"`
	PaymentStatus   types.PaymentStatus `gorm:"size:16" firestore:"paymentStatus" json:"paymentStatus"`
	PurchaseDate    time.Time           `firestore:"purchaseDate,serverTimestamp" json:"purchaseDate"`
	UpdatedAt       *time.Time          `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (Purchase) TableName() string {
	return "ticket_purchases"
}

// NewPendingPurchase builds the record written when checkout starts.
func NewPendingPurchase(tier TicketTier, quantity int, currency string, paymentIntentID string) (*Purchase, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return &Purchase{
		TicketTierID:    tier.ID,
		TicketTierName:  tier.Name,
		Price:           tier.Price,
		Quantity:        quantity,
		TotalAmount:     Total(tier.Price, quantity),
		Currency:        currency,
		PaymentIntentID: paymentIntentID,
		PaymentStatus:   types.PAYMENT_PENDING,
	}, nil
}

func Total(price int64, quantity int) int64 {
	return price * int64(quantity)
}

func ValidateQuantity(quantity int) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return fmt.Errorf("quantity must be between %d and %d, got %d", MinQuantity, MaxQuantity, quantity)
	}
	return nil
}

// CheckTransition allows pending -> succeeded and pending -> failed only.
func CheckTransition(from, to types.PaymentStatus) error {
	if from == types.PAYMENT_PENDING && (to == types.PAYMENT_SUCCEEDED || to == types.PAYMENT_FAILED) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func (p *Purchase) CanTransition(to types.PaymentStatus) bool {
	return CheckTransition(p.PaymentStatus, to) == nil
}

func (p *Purchase) IsFallback() bool {
	return strings.HasPrefix(p.ID, FallbackIDPrefix)
}

// FallbackIDPrefix marks records persisted in local storage.
const FallbackIDPrefix = "demo_"

// PurchaseUpdate is a partial write. Nil fields are left untouched.
type PurchaseUpdate struct {
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	PaymentStatus *types.PaymentStatus
}

func CustomerUpdate(name, email, phone string) PurchaseUpdate {
	return PurchaseUpdate{
		CustomerName:  &name,
		CustomerEmail: &email,
		CustomerPhone: &phone,
	}
}

func StatusUpdate(status types.PaymentStatus) PurchaseUpdate {
	return PurchaseUpdate{PaymentStatus: &status}
}

func (u PurchaseUpdate) IsEmpty() bool {
	return u.CustomerName == nil && u.CustomerEmail == nil && u.CustomerPhone == nil && u.PaymentStatus == nil
}

// Fields returns the document field names and values being written.
func (u PurchaseUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.CustomerName != nil {
		fields["customerName"] = *u.CustomerName
	}
	if u.CustomerEmail != nil {
		fields["customerEmail"] = *u.CustomerEmail
	}
	if u.CustomerPhone != nil {
		fields["customerPhone"] = *u.CustomerPhone
	}
	if u.PaymentStatus != nil {
		fields["paymentStatus"] = string(*u.PaymentStatus)
	}
	return fields
}

// Apply writes the update onto p and stamps UpdatedAt.
func (u PurchaseUpdate) Apply(p *Purchase, now time.Time) {
	if u.CustomerName != nil {
		p.CustomerName = *u.CustomerName
	}
	if u.CustomerEmail != nil {
		p.CustomerEmail = *u.CustomerEmail
	}
	if u.CustomerPhone != nil {
		p.CustomerPhone = *u.CustomerPhone
	}
	if u.PaymentStatus != nil {
		p.PaymentStatus = *u.PaymentStatus
	}
	p.UpdatedAt = &now
}
