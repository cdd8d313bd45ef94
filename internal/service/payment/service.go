package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/adapter/queue"
	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/observability/telemetry"
	"github.com/seu-repo/payvault/internal/ports"
)

// Provider is the payment provider behind the service. The one shipped
// implementation is Stripe; the seam exists so tests can run without
// network access.
type Provider interface {
	// CreateCustomer creates a billing customer and returns its ID
	CreateCustomer(ctx context.Context, email, name string) (string, error)

	// CreateSetupIntent opens a card-saving session for the customer
	CreateSetupIntent(ctx context.Context, customerID string) (clientSecret string, err error)

	// ListCards returns the customer's saved cards
	ListCards(ctx context.Context, customerID string) ([]domain.SavedCard, error)

	// DetachPaymentMethod removes a saved card
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error

	// DefaultPaymentMethod returns the customer's default payment method
	// ID, or "" when none is set
	DefaultPaymentMethod(ctx context.Context, customerID string) (string, error)

	// ChargeSavedCard confirms an off-session charge against a saved card.
	// When the issuer demands authentication the returned intent carries a
	// requires_action status and a client secret instead of an error.
	ChargeSavedCard(ctx context.Context, params ChargeParams) (*domain.PaymentIntent, error)

	// CreatePaymentIntent opens a fresh one-time payment
	CreatePaymentIntent(ctx context.Context, amount int64, currency, description string) (*domain.PaymentIntent, error)

	// GetPaymentIntent retrieves the current state of an intent
	GetPaymentIntent(ctx context.Context, id string) (*domain.PaymentIntent, error)

	// VerifyWebhook validates a webhook signature
	VerifyWebhook(payload []byte, signature string) error

	// ParseWebhook parses a webhook payload
	ParseWebhook(payload []byte) (*WebhookEvent, error)

	// Name returns the provider name
	Name() string
}

// ChargeParams carries a resolved off-session charge to the provider.
type ChargeParams struct {
	CustomerID      string
	PaymentMethodID string
	Amount          int64
	Currency        string
	Description     string
	IdempotencyKey  string
}

// WebhookEvent is a provider webhook reduced to what the service acts on.
type WebhookEvent struct {
	Type     string
	IntentID string
	Status   domain.PaymentStatus
	Amount   int64
}

// Config holds payment service configuration
type Config struct {
	SecretKey       string
	PublishableKey  string
	WebhookSecret   string
	DefaultCurrency string
}

// Service implements ports.PaymentService on top of a Provider, keeping a
// local payment record per charge attempt.
type Service struct {
	config   *Config
	provider Provider
	payments ports.PaymentRepository
	users    ports.UserRepository
	queue    queue.MessageQueue
	receipts ports.ReceiptService
	log      *zap.Logger
}

var _ ports.PaymentService = (*Service)(nil)

// NewService creates a new payment service
func NewService(config *Config, provider Provider, payments ports.PaymentRepository, users ports.UserRepository, mq queue.MessageQueue, receipts ports.ReceiptService, log *zap.Logger) *Service {
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = "usd"
	}
	return &Service{
		config:   config,
		provider: provider,
		payments: payments,
		users:    users,
		queue:    mq,
		receipts: receipts,
		log:      log,
	}
}

// PublishableKey returns the client-side provider key.
func (s *Service) PublishableKey() string {
	return s.config.PublishableKey
}

// CreateCustomer creates a provider customer and links it to the local
// user record with the same email, when one exists.
func (s *Service) CreateCustomer(ctx context.Context, email, name string) (*domain.Customer, error) {
	if email == "" || name == "" {
		return nil, &domain.ValidationError{Msg: "email and name are required"}
	}

	customerID, err := s.provider.CreateCustomer(ctx, email, name)
	if err != nil {
		s.log.Error("Failed to create customer",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	if user, err := s.users.FindByEmail(ctx, email); err == nil && user != nil {
		user.CustomerID = customerID
		user.UpdatedAt = time.Now()
		if err := s.users.Save(ctx, user); err != nil {
			s.log.Error("Failed to link customer to user",
				zap.String("customer_id", customerID),
				zap.Error(err),
			)
		}
	}

	s.log.Info("Customer created",
		zap.String("customer_id", customerID),
		zap.String("email", email),
	)

	return &domain.Customer{ID: customerID, Email: email, Name: name}, nil
}

// CreateSetupIntent opens a card-saving session for the customer.
func (s *Service) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", &domain.ValidationError{Msg: "customer ID is required"}
	}

	clientSecret, err := s.provider.CreateSetupIntent(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("failed to create setup intent: %w", err)
	}
	return clientSecret, nil
}

// ListPaymentMethods lists the customer's saved cards.
func (s *Service) ListPaymentMethods(ctx context.Context, customerID string) ([]domain.SavedCard, error) {
	if customerID == "" {
		return nil, &domain.ValidationError{Msg: "customer ID is required"}
	}
	return s.provider.ListCards(ctx, customerID)
}

// DetachPaymentMethod removes a saved card from its customer.
func (s *Service) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	if paymentMethodID == "" {
		return &domain.ValidationError{Msg: "payment method ID is required"}
	}
	if err := s.provider.DetachPaymentMethod(ctx, paymentMethodID); err != nil {
		return fmt.Errorf("failed to detach payment method: %w", err)
	}

	s.log.Info("Payment method detached",
		zap.String("payment_method_id", paymentMethodID),
	)
	return nil
}

// ChargeCustomer charges a saved card off-session. When the request names
// no payment method the customer's default is used, falling back to the
// first saved card. A non-empty ClientSecret in the outcome means the
// issuer demands client-side authentication before the charge settles.
func (s *Service) ChargeCustomer(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeOutcome, error) {
	if req.CustomerID == "" {
		return nil, &domain.ValidationError{Msg: "customer ID is required"}
	}
	if req.Amount <= 0 {
		return nil, &domain.ValidationError{Msg: "amount must be greater than zero"}
	}

	currency := req.Currency
	if currency == "" {
		currency = s.config.DefaultCurrency
	}

	paymentMethodID, err := s.resolvePaymentMethod(ctx, req)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:          uuid.New().String(),
		CustomerID:  req.CustomerID,
		Method:      paymentMethodID,
		Status:      domain.PaymentStatusProcessing,
		Amount:      req.Amount,
		Currency:    currency,
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	intent, err := s.provider.ChargeSavedCard(ctx, ChargeParams{
		CustomerID:      req.CustomerID,
		PaymentMethodID: paymentMethodID,
		Amount:          req.Amount,
		Currency:        currency,
		Description:     req.Description,
		IdempotencyKey:  payment.ID,
	})
	if err != nil {
		payment.Status = domain.PaymentStatusFailed
		payment.FailureReason = err.Error()
		payment.UpdatedAt = time.Now()
		if saveErr := s.payments.Save(ctx, payment); saveErr != nil {
			s.log.Error("Failed to record charge failure", zap.Error(saveErr))
		}
		telemetry.PaymentsTotal.WithLabelValues(string(domain.PaymentStatusFailed)).Inc()

		s.log.Error("Charge failed",
			zap.String("payment_id", payment.ID),
			zap.String("customer_id", req.CustomerID),
			zap.Error(err),
		)
		return nil, err
	}

	payment.ProviderID = intent.ID
	payment.UpdatedAt = time.Now()

	if intent.ClientSecret != "" && intent.Status != string(domain.PaymentStatusSucceeded) {
		payment.Status = domain.PaymentStatusRequiresAction
		if err := s.payments.Save(ctx, payment); err != nil {
			s.log.Error("Failed to update payment record", zap.Error(err))
		}
		telemetry.PaymentsTotal.WithLabelValues(string(domain.PaymentStatusRequiresAction)).Inc()

		s.log.Info("Charge requires authentication",
			zap.String("payment_id", payment.ID),
			zap.String("provider_id", intent.ID),
		)
		return &domain.ChargeOutcome{
			ClientSecret: intent.ClientSecret,
			Message:      "additional authentication required",
		}, nil
	}

	s.markSucceeded(ctx, payment)

	return &domain.ChargeOutcome{
		PaymentIntentID: intent.ID,
		Message:         "charge successful",
	}, nil
}

// resolvePaymentMethod picks the method to charge: the requested one, the
// customer's default, or the first saved card.
func (s *Service) resolvePaymentMethod(ctx context.Context, req domain.ChargeRequest) (string, error) {
	if req.PaymentMethodID != nil && *req.PaymentMethodID != "" {
		return *req.PaymentMethodID, nil
	}

	defaultPM, err := s.provider.DefaultPaymentMethod(ctx, req.CustomerID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve default payment method: %w", err)
	}
	if defaultPM != "" {
		return defaultPM, nil
	}

	cards, err := s.provider.ListCards(ctx, req.CustomerID)
	if err != nil {
		return "", fmt.Errorf("failed to list payment methods: %w", err)
	}
	if len(cards) == 0 {
		return "", &domain.PreconditionError{Msg: "no payment method on file for customer"}
	}
	return cards[0].ID, nil
}

// CreatePaymentIntent opens a one-time payment to be confirmed client-side.
func (s *Service) CreatePaymentIntent(ctx context.Context, amount int64, currency, description string) (*domain.PaymentIntent, error) {
	if amount <= 0 {
		return nil, &domain.ValidationError{Msg: "amount must be greater than zero"}
	}
	if currency == "" {
		currency = s.config.DefaultCurrency
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, amount, currency, description)
	if err != nil {
		s.log.Error("Failed to create payment intent",
			zap.Int64("amount", amount),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	payment := &domain.Payment{
		ID:          uuid.New().String(),
		ProviderID:  intent.ID,
		Status:      domain.PaymentStatusPending,
		Amount:      amount,
		Currency:    currency,
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		s.log.Error("Failed to save payment record",
			zap.String("provider_id", intent.ID),
			zap.Error(err),
		)
	}

	return intent, nil
}

// ConfirmPayment checks a client-confirmed intent with the provider and
// settles the local record when it succeeded.
func (s *Service) ConfirmPayment(ctx context.Context, paymentIntentID string) error {
	if paymentIntentID == "" {
		return &domain.ValidationError{Msg: "payment intent ID is required"}
	}

	intent, err := s.provider.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return fmt.Errorf("failed to retrieve payment intent: %w", err)
	}
	if intent.Status != string(domain.PaymentStatusSucceeded) {
		return &domain.PreconditionError{Msg: fmt.Sprintf("payment not succeeded: %s", intent.Status)}
	}

	payment, err := s.payments.FindByProviderID(ctx, paymentIntentID)
	if err != nil {
		s.log.Warn("No payment record for confirmed intent",
			zap.String("provider_id", paymentIntentID),
		)
		return nil
	}

	s.markSucceeded(ctx, payment)
	return nil
}

// markSucceeded settles the record, publishes the completion event and
// sends the receipt. Queue and receipt failures are logged only.
func (s *Service) markSucceeded(ctx context.Context, payment *domain.Payment) {
	now := time.Now()
	payment.Status = domain.PaymentStatusSucceeded
	payment.CompletedAt = &now
	payment.UpdatedAt = now

	if err := s.payments.Save(ctx, payment); err != nil {
		s.log.Error("Failed to update payment record",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
	}

	telemetry.PaymentsTotal.WithLabelValues(string(domain.PaymentStatusSucceeded)).Inc()
	telemetry.ChargedCentsTotal.Add(float64(payment.Amount))

	if s.queue != nil {
		event := fmt.Sprintf(`{"payment_id":%q,"provider_id":%q,"amount":%d,"currency":%q}`,
			payment.ID, payment.ProviderID, payment.Amount, payment.Currency)
		if err := s.queue.Publish("payments.succeeded", []byte(event)); err != nil {
			s.log.Error("Failed to publish payment event",
				zap.String("payment_id", payment.ID),
				zap.Error(err),
			)
		}
	}

	s.sendReceipt(ctx, payment)

	s.log.Info("Payment succeeded",
		zap.String("payment_id", payment.ID),
		zap.String("provider_id", payment.ProviderID),
		zap.Int64("amount", payment.Amount),
	)
}

func (s *Service) sendReceipt(ctx context.Context, payment *domain.Payment) {
	if s.receipts == nil || payment.CustomerID == "" {
		return
	}
	user, err := s.users.FindByCustomerID(ctx, payment.CustomerID)
	if err != nil || user == nil || user.Email == "" {
		return
	}
	if err := s.receipts.SendPaymentReceipt(ctx, user.Email, payment); err != nil {
		s.log.Error("Failed to send payment receipt",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
	}
}

// HandleWebhook verifies and applies a provider webhook.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if err := s.provider.VerifyWebhook(payload, signature); err != nil {
		s.log.Warn("Invalid webhook signature", zap.Error(err))
		return &domain.ValidationError{Msg: "invalid webhook signature"}
	}

	event, err := s.provider.ParseWebhook(payload)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	telemetry.WebhookEventsTotal.WithLabelValues(event.Type).Inc()

	s.log.Info("Webhook received",
		zap.String("type", event.Type),
		zap.String("intent_id", event.IntentID),
	)

	if event.IntentID == "" {
		return nil
	}

	payment, err := s.payments.FindByProviderID(ctx, event.IntentID)
	if err != nil {
		// Unknown intents are fine, e.g. dashboard test events.
		s.log.Warn("Payment not found for webhook",
			zap.String("intent_id", event.IntentID),
		)
		return nil
	}

	switch event.Status {
	case domain.PaymentStatusSucceeded:
		if payment.Status != domain.PaymentStatusSucceeded {
			s.markSucceeded(ctx, payment)
		}
	case domain.PaymentStatusFailed:
		payment.Status = domain.PaymentStatusFailed
		payment.UpdatedAt = time.Now()
		if err := s.payments.Save(ctx, payment); err != nil {
			s.log.Error("Failed to update payment from webhook", zap.Error(err))
			return err
		}
		telemetry.PaymentsTotal.WithLabelValues(string(domain.PaymentStatusFailed)).Inc()
	}

	return nil
}
