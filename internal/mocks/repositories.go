package mocks

import (
	"context"
	"fmt"

	"github.com/seu-repo/payvault/internal/domain"
)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	SaveFunc             func(ctx context.Context, payment *domain.Payment) error
	FindByIDFunc         func(ctx context.Context, id string) (*domain.Payment, error)
	FindByProviderIDFunc func(ctx context.Context, providerID string) (*domain.Payment, error)
	ListByCustomerFunc   func(ctx context.Context, customerID string, limit, offset int) ([]domain.Payment, error)

	Saved []*domain.Payment
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, payment)
	}
	copied := *payment
	m.Saved = append(m.Saved, &copied)
	return nil
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, fmt.Errorf("payment not found: %s", id)
}

func (m *MockPaymentRepository) FindByProviderID(ctx context.Context, providerID string) (*domain.Payment, error) {
	if m.FindByProviderIDFunc != nil {
		return m.FindByProviderIDFunc(ctx, providerID)
	}
	return nil, fmt.Errorf("payment not found for intent: %s", providerID)
}

func (m *MockPaymentRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Payment, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID, limit, offset)
	}
	return nil, nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc             func(ctx context.Context, user *domain.User) error
	FindByIDFunc         func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc      func(ctx context.Context, email string) (*domain.User, error)
	FindByCustomerIDFunc func(ctx context.Context, customerID string) (*domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByCustomerID(ctx context.Context, customerID string) (*domain.User, error) {
	if m.FindByCustomerIDFunc != nil {
		return m.FindByCustomerIDFunc(ctx, customerID)
	}
	return nil, nil
}
