package ports

import (
	"context"

	"github.com/seu-repo/payvault/internal/domain"
)

type PaymentRepository interface {
	Save(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByProviderID(ctx context.Context, providerID string) (*domain.Payment, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Payment, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByCustomerID(ctx context.Context, customerID string) (*domain.User, error)
}
