package ports

import (
	"context"

	"github.com/seu-repo/payvault/internal/domain"
)

// PaymentService is the backend business layer behind the REST surface.
type PaymentService interface {
	PublishableKey() string
	CreateCustomer(ctx context.Context, email, name string) (*domain.Customer, error)
	CreateSetupIntent(ctx context.Context, customerID string) (clientSecret string, err error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]domain.SavedCard, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
	ChargeCustomer(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeOutcome, error)
	CreatePaymentIntent(ctx context.Context, amount int64, currency, description string) (*domain.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, paymentIntentID string) error
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type UserService interface {
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// ReceiptService sends a payment receipt to the customer on completed
// payments. Failures are logged, never propagated into the payment path.
type ReceiptService interface {
	SendPaymentReceipt(ctx context.Context, toEmail string, payment *domain.Payment) error
}
