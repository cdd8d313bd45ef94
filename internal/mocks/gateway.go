package mocks

import (
	"context"

	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/ports"
)

// MockBackendGateway is a mock implementation of BackendGateway. Calls
// records every invocation in order, so tests can assert both call counts
// and that no network traffic happened at all.
type MockBackendGateway struct {
	Calls []string

	ConfigFunc              func(ctx context.Context) (string, error)
	CreateCustomerFunc      func(ctx context.Context, email, name string) (*domain.Customer, error)
	CreateSetupIntentFunc   func(ctx context.Context, customerID string) (string, error)
	ListPaymentMethodsFunc  func(ctx context.Context, customerID string) ([]domain.SavedCard, error)
	DeletePaymentMethodFunc func(ctx context.Context, paymentMethodID string) error
	ChargeCustomerFunc      func(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeOutcome, error)
	CreatePaymentIntentFunc func(ctx context.Context, amount int64, currency, description string) (string, error)
	ConfirmPaymentFunc      func(ctx context.Context, paymentIntentID string) error
}

func (m *MockBackendGateway) record(call string) {
	m.Calls = append(m.Calls, call)
}

// CallCount returns how many times the named operation was invoked.
func (m *MockBackendGateway) CallCount(call string) int {
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockBackendGateway) Config(ctx context.Context) (string, error) {
	m.record("config")
	if m.ConfigFunc != nil {
		return m.ConfigFunc(ctx)
	}
	return "pk_test_mock", nil
}

func (m *MockBackendGateway) CreateCustomer(ctx context.Context, email, name string) (*domain.Customer, error) {
	m.record("create_customer")
	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, email, name)
	}
	return &domain.Customer{ID: "cus_mock", Email: email, Name: name}, nil
}

func (m *MockBackendGateway) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	m.record("create_setup_intent")
	if m.CreateSetupIntentFunc != nil {
		return m.CreateSetupIntentFunc(ctx, customerID)
	}
	return "seti_mock_secret_abc", nil
}

func (m *MockBackendGateway) ListPaymentMethods(ctx context.Context, customerID string) ([]domain.SavedCard, error) {
	m.record("list_payment_methods")
	if m.ListPaymentMethodsFunc != nil {
		return m.ListPaymentMethodsFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockBackendGateway) DeletePaymentMethod(ctx context.Context, paymentMethodID string) error {
	m.record("delete_payment_method")
	if m.DeletePaymentMethodFunc != nil {
		return m.DeletePaymentMethodFunc(ctx, paymentMethodID)
	}
	return nil
}

func (m *MockBackendGateway) ChargeCustomer(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeOutcome, error) {
	m.record("charge_customer")
	if m.ChargeCustomerFunc != nil {
		return m.ChargeCustomerFunc(ctx, req)
	}
	return &domain.ChargeOutcome{PaymentIntentID: "pi_mock", Message: "charge successful"}, nil
}

func (m *MockBackendGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, description string) (string, error) {
	m.record("create_payment_intent")
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, amount, currency, description)
	}
	return "pi_mock_secret_abc", nil
}

func (m *MockBackendGateway) ConfirmPayment(ctx context.Context, paymentIntentID string) error {
	m.record("confirm_payment")
	if m.ConfirmPaymentFunc != nil {
		return m.ConfirmPaymentFunc(ctx, paymentIntentID)
	}
	return nil
}

var _ ports.BackendGateway = (*MockBackendGateway)(nil)

// MockCardConfirmer is a mock implementation of CardConfirmer
type MockCardConfirmer struct {
	SetupCalls   int
	PaymentCalls int

	ConfirmCardSetupFunc   func(ctx context.Context, clientSecret string, card ports.CardInput) (*ports.SetupConfirmation, error)
	ConfirmCardPaymentFunc func(ctx context.Context, clientSecret string, card *ports.CardInput) (*ports.PaymentConfirmation, error)
}

func (m *MockCardConfirmer) ConfirmCardSetup(ctx context.Context, clientSecret string, card ports.CardInput) (*ports.SetupConfirmation, error) {
	m.SetupCalls++
	if m.ConfirmCardSetupFunc != nil {
		return m.ConfirmCardSetupFunc(ctx, clientSecret, card)
	}
	return &ports.SetupConfirmation{Status: "succeeded", PaymentMethodID: "pm_mock"}, nil
}

func (m *MockCardConfirmer) ConfirmCardPayment(ctx context.Context, clientSecret string, card *ports.CardInput) (*ports.PaymentConfirmation, error) {
	m.PaymentCalls++
	if m.ConfirmCardPaymentFunc != nil {
		return m.ConfirmCardPaymentFunc(ctx, clientSecret, card)
	}
	return &ports.PaymentConfirmation{Status: "succeeded", PaymentIntentID: "pi_mock"}, nil
}

var _ ports.CardConfirmer = (*MockCardConfirmer)(nil)
