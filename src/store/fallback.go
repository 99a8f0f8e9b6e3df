package store

import (
	"context"
	"errors"
	"log"

	"github.com/Ryan-Shaik/TechWave/src/models"
)

// Health reports whether the remote store is currently believed writable.
type Health interface {
	RemoteWritable() bool
}

// FallbackStore writes to the remote store and falls back to local storage
// when the remote is unreachable. Records with a fallback id live in local
// storage only; all other ids live in the remote store only.
type FallbackStore struct {
	remote PurchaseStore
	local  PurchaseStore
	health Health
}

// NewFallbackStore composes remote and local. remote and health may be nil.
func NewFallbackStore(remote, local PurchaseStore, health Health) *FallbackStore {
	return &FallbackStore{remote: remote, local: local, health: health}
}

func (s *FallbackStore) Name() string {
	if s.remote == nil {
		return s.local.Name()
	}
	return s.remote.Name()
}

func (s *FallbackStore) Remote() PurchaseStore {
	return s.remote
}

func (s *FallbackStore) Local() PurchaseStore {
	return s.local
}

func (s *FallbackStore) remoteWritable() bool {
	if s.remote == nil {
		return false
	}
	return s.health == nil || s.health.RemoteWritable()
}

func (s *FallbackStore) Create(ctx context.Context, p *models.Purchase) (string, error) {
	if !s.remoteWritable() {
		return s.createLocal(ctx, p, nil)
	}
	id, err := s.remote.Create(ctx, p)
	if err == nil {
		return id, nil
	}
	if !IsUnavailable(err) {
		return "", err
	}
	return s.createLocal(ctx, p, err)
}

func (s *FallbackStore) createLocal(ctx context.Context, p *models.Purchase, cause error) (string, error) {
	if cause != nil {
		log.Printf("[FallbackStore] Remote create failed, using local storage: %s\n", cause.Error())
	} else if s.remote != nil {
		log.Println("[FallbackStore] Remote store offline, using local storage")
	}
	p.ID = ""
	return s.local.Create(ctx, p)
}

func (s *FallbackStore) route(id string) PurchaseStore {
	if IsFallbackID(id) || s.remote == nil {
		return s.local
	}
	return s.remote
}

func (s *FallbackStore) Update(ctx context.Context, id string, u models.PurchaseUpdate) error {
	return s.route(id).Update(ctx, id, u)
}

func (s *FallbackStore) Get(ctx context.Context, id string) (*models.Purchase, error) {
	return s.route(id).Get(ctx, id)
}

func (s *FallbackStore) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Purchase, error) {
	if s.remote != nil {
		p, err := s.remote.FindByPaymentIntent(ctx, paymentIntentID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[FallbackStore] Remote lookup for %s failed: %s\n", paymentIntentID, err.Error())
		}
	}
	return s.local.FindByPaymentIntent(ctx, paymentIntentID)
}
