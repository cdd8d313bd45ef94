package payment

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/adapter/queue"
	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/ports"
)

type mockProvider struct {
	customerID      string
	clientSecret    string
	cards           []domain.SavedCard
	defaultPM       string
	chargeIntent    *domain.PaymentIntent
	chargeErr       error
	chargedWith     *ChargeParams
	createdIntent   *domain.PaymentIntent
	fetchedIntent   *domain.PaymentIntent
	verifyErr       error
	parsedEvent     *WebhookEvent
	detachedID      string
	listCalls       int
	defaultPMCalls  int
	createCustCalls int
}

func (m *mockProvider) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	m.createCustCalls++
	return m.customerID, nil
}

func (m *mockProvider) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	return m.clientSecret, nil
}

func (m *mockProvider) ListCards(ctx context.Context, customerID string) ([]domain.SavedCard, error) {
	m.listCalls++
	return m.cards, nil
}

func (m *mockProvider) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	m.detachedID = paymentMethodID
	return nil
}

func (m *mockProvider) DefaultPaymentMethod(ctx context.Context, customerID string) (string, error) {
	m.defaultPMCalls++
	return m.defaultPM, nil
}

func (m *mockProvider) ChargeSavedCard(ctx context.Context, params ChargeParams) (*domain.PaymentIntent, error) {
	m.chargedWith = &params
	return m.chargeIntent, m.chargeErr
}

func (m *mockProvider) CreatePaymentIntent(ctx context.Context, amount int64, currency, description string) (*domain.PaymentIntent, error) {
	return m.createdIntent, nil
}

func (m *mockProvider) GetPaymentIntent(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	return m.fetchedIntent, nil
}

func (m *mockProvider) VerifyWebhook(payload []byte, signature string) error {
	return m.verifyErr
}

func (m *mockProvider) ParseWebhook(payload []byte) (*WebhookEvent, error) {
	return m.parsedEvent, nil
}

func (m *mockProvider) Name() string { return "mock" }

type mockPaymentRepo struct {
	saved      []*domain.Payment
	byProvider map[string]*domain.Payment
}

func (m *mockPaymentRepo) Save(ctx context.Context, payment *domain.Payment) error {
	copied := *payment
	m.saved = append(m.saved, &copied)
	return nil
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	return nil, errors.New("not found")
}

func (m *mockPaymentRepo) FindByProviderID(ctx context.Context, providerID string) (*domain.Payment, error) {
	if p, ok := m.byProvider[providerID]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func (m *mockPaymentRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) last() *domain.Payment {
	if len(m.saved) == 0 {
		return nil
	}
	return m.saved[len(m.saved)-1]
}

type mockUserRepo struct {
	byEmail    map[string]*domain.User
	byCustomer map[string]*domain.User
	saved      []*domain.User
}

func (m *mockUserRepo) Save(ctx context.Context, user *domain.User) error {
	copied := *user
	m.saved = append(m.saved, &copied)
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, errors.New("not found")
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) FindByCustomerID(ctx context.Context, customerID string) (*domain.User, error) {
	if u, ok := m.byCustomer[customerID]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

type mockQueue struct {
	published []string
}

func (m *mockQueue) Publish(subject string, data []byte) error {
	m.published = append(m.published, subject)
	return nil
}

func (m *mockQueue) Subscribe(subject string, handler func(data []byte) error) error { return nil }
func (m *mockQueue) Close() error                                                    { return nil }

type mockReceipts struct {
	sentTo []string
}

func (m *mockReceipts) SendPaymentReceipt(ctx context.Context, toEmail string, payment *domain.Payment) error {
	m.sentTo = append(m.sentTo, toEmail)
	return nil
}

func newTestService(provider *mockProvider, payments *mockPaymentRepo, users *mockUserRepo, mq *mockQueue, receipts *mockReceipts) *Service {
	// Pass untyped nil interfaces when the mocks are absent, so the
	// service's own nil checks see a nil interface rather than a non-nil
	// interface holding a nil pointer.
	var q queue.MessageQueue
	if mq != nil {
		q = mq
	}
	var r ports.ReceiptService
	if receipts != nil {
		r = receipts
	}
	return NewService(
		&Config{PublishableKey: "pk_test_123", DefaultCurrency: "usd"},
		provider, payments, users, q, r,
		zap.NewNop(),
	)
}

func TestCreateCustomerLinksUser(t *testing.T) {
	provider := &mockProvider{customerID: "cus_123"}
	users := &mockUserRepo{byEmail: map[string]*domain.User{
		"jane@example.com": {ID: "u1", Email: "jane@example.com"},
	}}
	svc := newTestService(provider, &mockPaymentRepo{}, users, nil, nil)

	customer, err := svc.CreateCustomer(context.Background(), "jane@example.com", "Jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID != "cus_123" {
		t.Errorf("expected customer ID cus_123, got %s", customer.ID)
	}
	if len(users.saved) != 1 || users.saved[0].CustomerID != "cus_123" {
		t.Errorf("expected user linked to customer, got %+v", users.saved)
	}
}

func TestCreateCustomerRequiresEmailAndName(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider, &mockPaymentRepo{}, &mockUserRepo{}, nil, nil)

	_, err := svc.CreateCustomer(context.Background(), "", "Jane")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if provider.createCustCalls != 0 {
		t.Error("provider should not be called on invalid input")
	}
}

func TestChargeCustomerWithExplicitMethod(t *testing.T) {
	provider := &mockProvider{
		chargeIntent: &domain.PaymentIntent{ID: "pi_1", Status: "succeeded"},
	}
	payments := &mockPaymentRepo{}
	mq := &mockQueue{}
	svc := newTestService(provider, payments, &mockUserRepo{}, mq, nil)

	pm := "pm_visa"
	outcome, err := svc.ChargeCustomer(context.Background(), domain.ChargeRequest{
		CustomerID:      "cus_1",
		PaymentMethodID: &pm,
		Amount:          2500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.PaymentIntentID != "pi_1" {
		t.Errorf("expected intent pi_1, got %s", outcome.PaymentIntentID)
	}
	if outcome.ClientSecret != "" {
		t.Errorf("settled charge must not carry a client secret, got %q", outcome.ClientSecret)
	}
	if provider.chargedWith.PaymentMethodID != "pm_visa" {
		t.Errorf("expected explicit payment method, got %s", provider.chargedWith.PaymentMethodID)
	}
	if provider.defaultPMCalls != 0 {
		t.Error("default payment method lookup should be skipped when a method is given")
	}
	if last := payments.last(); last == nil || last.Status != domain.PaymentStatusSucceeded {
		t.Errorf("expected final record succeeded, got %+v", last)
	}
	if len(mq.published) != 1 || mq.published[0] != "payments.succeeded" {
		t.Errorf("expected payments.succeeded event, got %v", mq.published)
	}
}

func TestChargeCustomerFallsBackToFirstCard(t *testing.T) {
	provider := &mockProvider{
		cards:        []domain.SavedCard{{ID: "pm_first"}, {ID: "pm_second"}},
		chargeIntent: &domain.PaymentIntent{ID: "pi_1", Status: "succeeded"},
	}
	svc := newTestService(provider, &mockPaymentRepo{}, &mockUserRepo{}, nil, nil)

	_, err := svc.ChargeCustomer(context.Background(), domain.ChargeRequest{
		CustomerID: "cus_1",
		Amount:     1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.chargedWith.PaymentMethodID != "pm_first" {
		t.Errorf("expected first card fallback, got %s", provider.chargedWith.PaymentMethodID)
	}
}

func TestChargeCustomerPrefersDefaultMethod(t *testing.T) {
	provider := &mockProvider{
		defaultPM:    "pm_default",
		cards:        []domain.SavedCard{{ID: "pm_first"}},
		chargeIntent: &domain.PaymentIntent{ID: "pi_1", Status: "succeeded"},
	}
	svc := newTestService(provider, &mockPaymentRepo{}, &mockUserRepo{}, nil, nil)

	_, err := svc.ChargeCustomer(context.Background(), domain.ChargeRequest{
		CustomerID: "cus_1",
		Amount:     1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.chargedWith.PaymentMethodID != "pm_default" {
		t.Errorf("expected default method, got %s", provider.chargedWith.PaymentMethodID)
	}
	if provider.listCalls != 0 {
		t.Error("card listing should be skipped when a default method exists")
	}
}

func TestChargeCustomerWithoutCardsFails(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider, &mockPaymentRepo{}, &mockUserRepo{}, nil, nil)

	_, err := svc.ChargeCustomer(context.Background(), domain.ChargeRequest{
		CustomerID: "cus_1",
		Amount:     1000,
	})
	var perr *domain.PreconditionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if provider.chargedWith != nil {
		t.Error("charge must not reach the provider without a payment method")
	}
}

func TestChargeCustomerRequiresAuthentication(t *testing.T) {
	provider := &mockProvider{
		chargeIntent: &domain.PaymentIntent{
			ID:           "pi_1",
			ClientSecret: "pi_1_secret_abc",
			Status:       "requires_action",
		},
	}
	payments := &mockPaymentRepo{}
	svc := newTestService(provider, payments, &mockUserRepo{}, nil, nil)

	pm := "pm_3ds"
	outcome, err := svc.ChargeCustomer(context.Background(), domain.ChargeRequest{
		CustomerID:      "cus_1",
		PaymentMethodID: &pm,
		Amount:          2500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ClientSecret != "pi_1_secret_abc" {
		t.Errorf("expected client secret in outcome, got %q", outcome.ClientSecret)
	}
	if outcome.PaymentIntentID != "" {
		t.Errorf("pending charge must not report an intent ID, got %s", outcome.PaymentIntentID)
	}
	if last := payments.last(); last == nil || last.Status != domain.PaymentStatusRequiresAction {
		t.Errorf("expected record requires_action, got %+v", last)
	}
}

func TestChargeCustomerInvalidAmount(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider, &mockPaymentRepo{}, &mockUserRepo{}, nil, nil)

	_, err := svc.ChargeCustomer(context.Background(), domain.ChargeRequest{
		CustomerID: "cus_1",
		Amount:     0,
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChargeCustomerRecordsFailure(t *testing.T) {
	provider := &mockProvider{chargeErr: errors.New("card declined")}
	payments := &mockPaymentRepo{}
	svc := newTestService(provider, payments, &mockUserRepo{}, nil, nil)

	pm := "pm_bad"
	_, err := svc.ChargeCustomer(context.Background(), domain.ChargeRequest{
		CustomerID:      "cus_1",
		PaymentMethodID: &pm,
		Amount:          500,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if last := payments.last(); last == nil || last.Status != domain.PaymentStatusFailed {
		t.Errorf("expected failed record, got %+v", last)
	}
}

func TestChargeUsesRecordIDAsIdempotencyKey(t *testing.T) {
	provider := &mockProvider{
		chargeIntent: &domain.PaymentIntent{ID: "pi_1", Status: "succeeded"},
	}
	payments := &mockPaymentRepo{}
	svc := newTestService(provider, payments, &mockUserRepo{}, nil, nil)

	pm := "pm_visa"
	_, err := svc.ChargeCustomer(context.Background(), domain.ChargeRequest{
		CustomerID:      "cus_1",
		PaymentMethodID: &pm,
		Amount:          2500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.chargedWith.IdempotencyKey == "" {
		t.Fatal("expected idempotency key")
	}
	if provider.chargedWith.IdempotencyKey != payments.saved[0].ID {
		t.Errorf("idempotency key %q does not match record ID %q",
			provider.chargedWith.IdempotencyKey, payments.saved[0].ID)
	}
}

func TestConfirmPaymentNotSucceeded(t *testing.T) {
	provider := &mockProvider{
		fetchedIntent: &domain.PaymentIntent{ID: "pi_1", Status: "requires_payment_method"},
	}
	svc := newTestService(provider, &mockPaymentRepo{}, &mockUserRepo{}, nil, nil)

	err := svc.ConfirmPayment(context.Background(), "pi_1")
	var perr *domain.PreconditionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestConfirmPaymentSettlesRecord(t *testing.T) {
	provider := &mockProvider{
		fetchedIntent: &domain.PaymentIntent{ID: "pi_1", Status: "succeeded"},
	}
	record := &domain.Payment{ID: "p1", ProviderID: "pi_1", Status: domain.PaymentStatusPending, Amount: 900}
	payments := &mockPaymentRepo{byProvider: map[string]*domain.Payment{"pi_1": record}}
	svc := newTestService(provider, payments, &mockUserRepo{}, nil, nil)

	if err := svc.ConfirmPayment(context.Background(), "pi_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last := payments.last(); last == nil || last.Status != domain.PaymentStatusSucceeded {
		t.Errorf("expected record settled, got %+v", last)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	provider := &mockProvider{verifyErr: errors.New("bad signature")}
	svc := newTestService(provider, &mockPaymentRepo{}, &mockUserRepo{}, nil, nil)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandleWebhookSendsReceipt(t *testing.T) {
	provider := &mockProvider{
		parsedEvent: &WebhookEvent{
			Type:     "payment_intent.succeeded",
			IntentID: "pi_1",
			Status:   domain.PaymentStatusSucceeded,
		},
	}
	record := &domain.Payment{ID: "p1", ProviderID: "pi_1", CustomerID: "cus_1", Status: domain.PaymentStatusProcessing}
	payments := &mockPaymentRepo{byProvider: map[string]*domain.Payment{"pi_1": record}}
	users := &mockUserRepo{byCustomer: map[string]*domain.User{
		"cus_1": {ID: "u1", Email: "jane@example.com", CustomerID: "cus_1"},
	}}
	receipts := &mockReceipts{}
	svc := newTestService(provider, payments, users, nil, receipts)

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(receipts.sentTo) != 1 || receipts.sentTo[0] != "jane@example.com" {
		t.Errorf("expected receipt to jane@example.com, got %v", receipts.sentTo)
	}
}

func TestHandleWebhookUnknownIntentIsIgnored(t *testing.T) {
	provider := &mockProvider{
		parsedEvent: &WebhookEvent{
			Type:     "payment_intent.succeeded",
			IntentID: "pi_unknown",
			Status:   domain.PaymentStatusSucceeded,
		},
	}
	svc := newTestService(provider, &mockPaymentRepo{}, &mockUserRepo{}, nil, nil)

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("unknown intents must not error: %v", err)
	}
}
