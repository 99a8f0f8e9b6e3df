package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/Ryan-Shaik/TechWave/src/types"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("purchase not found")
	ErrUnavailable = errors.New("store unavailable")
)

const (
	PurchasesCollection      = "ticketPurchases"
	ConnectionTestCollection = "connectionTest"
)

// PurchaseStore persists purchase records. Create assigns the record id.
type PurchaseStore interface {
	Name() string
	Create(ctx context.Context, p *models.Purchase) (string, error)
	Update(ctx context.Context, id string, u models.PurchaseUpdate) error
	Get(ctx context.Context, id string) (*models.Purchase, error)
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Purchase, error)
}

// NewFallbackID returns demo_<unix-ms>_<9 random chars>.
func NewFallbackID(now time.Time) string {
	r := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s%d_%s", models.FallbackIDPrefix, now.UnixMilli(), r[:9])
}

func IsFallbackID(id string) bool {
	return strings.HasPrefix(id, models.FallbackIDPrefix)
}

// UpdateStatus moves a record along the payment state machine. A record that
// already holds the target status is left untouched and reported as unchanged.
func UpdateStatus(ctx context.Context, s PurchaseStore, id string, to types.PaymentStatus) (changed bool, err error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if p.PaymentStatus == to {
		return false, nil
	}
	if err := models.CheckTransition(p.PaymentStatus, to); err != nil {
		return false, err
	}
	if err := s.Update(ctx, id, models.StatusUpdate(to)); err != nil {
		return false, err
	}
	return true, nil
}
