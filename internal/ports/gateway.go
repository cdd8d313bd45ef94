package ports

import (
	"context"

	"github.com/seu-repo/payvault/internal/domain"
)

// CardInput stands in for the provider's tokenized card input element. In
// production it carries test-mode card details handed straight to the
// provider; raw PANs never touch application storage or logs.
type CardInput struct {
	Number   string
	ExpMonth int64
	ExpYear  int64
	CVC      string
}

// SetupConfirmation is the terminal state of a confirm-card-setup call.
type SetupConfirmation struct {
	Status          string
	PaymentMethodID string
}

// PaymentConfirmation is the terminal state of a confirm-card-payment call.
type PaymentConfirmation struct {
	Status          string
	PaymentIntentID string
}

// CardConfirmer is the provider SDK surface the workflow controller hands
// client secrets to. Card is optional for payment confirmation: a charge on
// a saved method authenticates without collecting card details again.
type CardConfirmer interface {
	ConfirmCardSetup(ctx context.Context, clientSecret string, card CardInput) (*SetupConfirmation, error)
	ConfirmCardPayment(ctx context.Context, clientSecret string, card *CardInput) (*PaymentConfirmation, error)
}

// BackendGateway is the backend REST surface consumed by the workflow
// controller, one method per endpoint.
type BackendGateway interface {
	Config(ctx context.Context) (publishableKey string, err error)
	CreateCustomer(ctx context.Context, email, name string) (*domain.Customer, error)
	CreateSetupIntent(ctx context.Context, customerID string) (clientSecret string, err error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]domain.SavedCard, error)
	DeletePaymentMethod(ctx context.Context, paymentMethodID string) error
	ChargeCustomer(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeOutcome, error)
	CreatePaymentIntent(ctx context.Context, amount int64, currency, description string) (clientSecret string, err error)
	ConfirmPayment(ctx context.Context, paymentIntentID string) error
}
