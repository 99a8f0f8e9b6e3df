package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/models"
)

// LocalKey holds the JSON array of fallback records.
const LocalKey = "demo_purchases"

// KeyValue is the byte store under LocalStore. Get returns nil, nil for a
// missing key.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// LocalStore keeps every fallback record in one JSON document. Writes are
// read-modify-write of the whole collection under mu.
type LocalStore struct {
	kv  KeyValue
	mu  sync.Mutex
	now func() time.Time
}

func NewLocalStore(kv KeyValue) *LocalStore {
	return &LocalStore{kv: kv, now: time.Now}
}

func (s *LocalStore) Name() string {
	return "Local"
}

func (s *LocalStore) load(ctx context.Context) ([]models.Purchase, error) {
	b, err := s.kv.Get(ctx, LocalKey)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", LocalKey, err)
	}
	var purchases []models.Purchase
	if len(b) == 0 {
		return purchases, nil
	}
	if err := json.Unmarshal(b, &purchases); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", LocalKey, err)
	}
	return purchases, nil
}

func (s *LocalStore) save(ctx context.Context, purchases []models.Purchase) error {
	b, err := json.Marshal(purchases)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, LocalKey, b); err != nil {
		return fmt.Errorf("writing %s: %w", LocalKey, err)
	}
	return nil
}

func (s *LocalStore) Create(ctx context.Context, p *models.Purchase) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	purchases, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	now := s.now()
	p.ID = NewFallbackID(now)
	if p.PurchaseDate.IsZero() {
		p.PurchaseDate = now
	}
	purchases = append(purchases, *p)
	if err := s.save(ctx, purchases); err != nil {
		return "", err
	}
	log.Printf("[LocalStore] Saved purchase %s\n", p.ID)
	return p.ID, nil
}

func (s *LocalStore) Update(ctx context.Context, id string, u models.PurchaseUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	purchases, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range purchases {
		if purchases[i].ID == id {
			u.Apply(&purchases[i], s.now())
			return s.save(ctx, purchases)
		}
	}
	return ErrNotFound
}

func (s *LocalStore) Get(ctx context.Context, id string) (*models.Purchase, error) {
	return s.find(ctx, func(p *models.Purchase) bool { return p.ID == id })
}

func (s *LocalStore) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Purchase, error) {
	return s.find(ctx, func(p *models.Purchase) bool { return p.PaymentIntentID == paymentIntentID })
}

func (s *LocalStore) find(ctx context.Context, match func(*models.Purchase) bool) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	purchases, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range purchases {
		if match(&purchases[i]) {
			p := purchases[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}
