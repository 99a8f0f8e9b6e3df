package store

import (
	"context"
	"errors"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var columns = map[string]string{
	"customerName":  "customer_name",
	"customerEmail": "customer_email",
	"customerPhone": "customer_phone",
	"paymentStatus": "payment_status",
}

// SQLStore keeps purchases in the ticket_purchases table.
type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Name() string {
	return "Postgres"
}

func (s *SQLStore) Create(ctx context.Context, p *models.Purchase) (string, error) {
	p.ID = uuid.NewString()
	if p.PurchaseDate.IsZero() {
		p.PurchaseDate = s.now()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return "", wrapSQLError(err)
	}
	return p.ID, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, u models.PurchaseUpdate) error {
	updates := map[string]any{}
	for k, v := range u.Fields() {
		updates[columns[k]] = v
	}
	updates["updated_at"] = s.now()
	res := s.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return wrapSQLError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*models.Purchase, error) {
	return s.take(ctx, "id = ?", id)
}

func (s *SQLStore) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Purchase, error) {
	return s.take(ctx, "payment_intent_id = ?", paymentIntentID)
}

func (s *SQLStore) take(ctx context.Context, query string, arg any) (*models.Purchase, error) {
	var p models.Purchase
	err := s.db.WithContext(ctx).Where(query, arg).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapSQLError(err)
	}
	return &p, nil
}

func (s *SQLStore) ProbeRead(ctx context.Context) error {
	var n int64
	return s.db.WithContext(ctx).Model(&models.ConnectionTest{}).Limit(1).Count(&n).Error
}

func (s *SQLStore) ProbeWrite(ctx context.Context) error {
	row := models.ConnectionTest{ID: uuid.NewString(), Test: true, Timestamp: s.now()}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}
