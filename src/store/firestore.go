package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/Ryan-Shaik/TechWave/src/models"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(c *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: c}
}

func (s *FirestoreStore) Name() string {
	return "Firebase"
}

func (s *FirestoreStore) purchases() *firestore.CollectionRef {
	return s.client.Collection(PurchasesCollection)
}

func (s *FirestoreStore) Create(ctx context.Context, p *models.Purchase) (string, error) {
	ref, _, err := s.purchases().Add(ctx, p)
	if err != nil {
		log.Printf("[Firestore] Error adding purchase: %s\n", err.Error())
		return "", err
	}
	p.ID = ref.ID
	return ref.ID, nil
}

func (s *FirestoreStore) Update(ctx context.Context, id string, u models.PurchaseUpdate) error {
	updates := []firestore.Update{}
	for k, v := range u.Fields() {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	_, err := s.purchases().Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		log.Printf("[Firestore] Error updating purchase %s: %s\n", id, err.Error())
	}
	return err
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*models.Purchase, error) {
	snap, err := s.purchases().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodePurchase(snap)
}

func (s *FirestoreStore) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Purchase, error) {
	iter := s.purchases().Where("paymentIntentId", "==", paymentIntentID).Limit(1).Documents(ctx)
	defer iter.Stop()
	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodePurchase(snap)
}

func decodePurchase(snap *firestore.DocumentSnapshot) (*models.Purchase, error) {
	var p models.Purchase
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decoding purchase %s: %w", snap.Ref.ID, err)
	}
	p.ID = snap.Ref.ID
	return &p, nil
}

// ProbeRead lists at most one document of the connection test collection.
func (s *FirestoreStore) ProbeRead(ctx context.Context) error {
	iter := s.client.Collection(ConnectionTestCollection).Limit(1).Documents(ctx)
	defer iter.Stop()
	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}

// ProbeWrite adds a throwaway document and deletes it again.
func (s *FirestoreStore) ProbeWrite(ctx context.Context) error {
	ref, _, err := s.client.Collection(ConnectionTestCollection).Add(ctx, map[string]any{
		"test":      true,
		"message":   "Firebase connection test",
		"timestamp": firestore.ServerTimestamp,
	})
	if err != nil {
		return err
	}
	_, err = ref.Delete(ctx)
	return err
}
