package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/ports"
)

type PaymentRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, log *zap.Logger) ports.PaymentRepository {
	return &PaymentRepository{
		db:  db,
		log: log,
	}
}

func (r *PaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment not found: %s", id)
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByProviderID(ctx context.Context, providerID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, "provider_id = ?", providerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment not found for intent: %s", providerID)
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 50
	}
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&payments).Error
	return payments, err
}
