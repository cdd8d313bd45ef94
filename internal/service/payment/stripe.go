package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/paymentmethod"
	"github.com/stripe/stripe-go/v76/setupintent"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/seu-repo/payvault/internal/domain"
)

// StripeProvider implements the Provider interface for Stripe
type StripeProvider struct {
	secretKey     string
	webhookSecret string
}

// NewStripeProvider creates a new Stripe provider
func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
	}
}

// Name returns the provider name
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreateCustomer creates a Stripe customer
func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx

	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe customer error: %w", err)
	}
	return c.ID, nil
}

// CreateSetupIntent opens a card-saving session for the customer
func (p *StripeProvider) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	params := &stripe.SetupIntentParams{
		Customer: stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{
			string(stripe.PaymentMethodTypeCard),
		}),
	}
	params.Context = ctx

	si, err := setupintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe setup intent error: %w", err)
	}
	return si.ClientSecret, nil
}

// ListCards lists the customer's saved card payment methods
func (p *StripeProvider) ListCards(ctx context.Context, customerID string) ([]domain.SavedCard, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	cards := []domain.SavedCard{}
	iter := paymentmethod.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		if pm.Card == nil {
			continue
		}
		cards = append(cards, domain.SavedCard{
			ID:       pm.ID,
			Brand:    string(pm.Card.Brand),
			Last4:    pm.Card.Last4,
			ExpMonth: pm.Card.ExpMonth,
			ExpYear:  pm.Card.ExpYear,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("stripe list payment methods error: %w", err)
	}
	return cards, nil
}

// DetachPaymentMethod removes a saved card
func (p *StripeProvider) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx

	if _, err := paymentmethod.Detach(paymentMethodID, params); err != nil {
		return fmt.Errorf("stripe detach error: %w", err)
	}
	return nil
}

// DefaultPaymentMethod returns the customer's default payment method ID,
// or "" when none is configured
func (p *StripeProvider) DefaultPaymentMethod(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	c, err := customer.Get(customerID, params)
	if err != nil {
		return "", fmt.Errorf("stripe customer error: %w", err)
	}
	if c.InvoiceSettings != nil && c.InvoiceSettings.DefaultPaymentMethod != nil {
		return c.InvoiceSettings.DefaultPaymentMethod.ID, nil
	}
	return "", nil
}

// ChargeSavedCard confirms an off-session payment against a saved card.
// When the issuer demands authentication, Stripe rejects the confirmation
// with authentication_required; the declined intent still carries the
// client secret the cardholder needs, so that case comes back as a
// requires_action intent rather than an error.
func (p *StripeProvider) ChargeSavedCard(ctx context.Context, chargeParams ChargeParams) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(chargeParams.Amount),
		Currency:      stripe.String(chargeParams.Currency),
		Customer:      stripe.String(chargeParams.CustomerID),
		PaymentMethod: stripe.String(chargeParams.PaymentMethodID),
		OffSession:    stripe.Bool(true),
		Confirm:       stripe.Bool(true),
	}
	if chargeParams.Description != "" {
		params.Description = stripe.String(chargeParams.Description)
	}
	if chargeParams.IdempotencyKey != "" {
		params.SetIdempotencyKey(chargeParams.IdempotencyKey)
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) &&
			stripeErr.Code == stripe.ErrorCodeAuthenticationRequired &&
			stripeErr.PaymentIntent != nil {
			return toDomainIntent(stripeErr.PaymentIntent), nil
		}
		return nil, fmt.Errorf("stripe charge error: %w", err)
	}

	return toDomainIntent(pi), nil
}

// CreatePaymentIntent opens a fresh one-time payment
func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, amount int64, currency, description string) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{
			string(stripe.PaymentMethodTypeCard),
		}),
	}
	if description != "" {
		params.Description = stripe.String(description)
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent error: %w", err)
	}
	return toDomainIntent(pi), nil
}

// GetPaymentIntent retrieves the current state of an intent
func (p *StripeProvider) GetPaymentIntent(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get payment intent error: %w", err)
	}
	return toDomainIntent(pi), nil
}

// VerifyWebhook validates a Stripe webhook signature
func (p *StripeProvider) VerifyWebhook(payload []byte, signature string) error {
	_, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	return err
}

// ParseWebhook parses a Stripe webhook payload
func (p *StripeProvider) ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook: %w", err)
	}

	webhookEvent := &WebhookEvent{Type: string(event.Type)}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, err
		}
		webhookEvent.IntentID = pi.ID
		webhookEvent.Amount = pi.Amount
		if event.Type == "payment_intent.succeeded" {
			webhookEvent.Status = domain.PaymentStatusSucceeded
		} else {
			webhookEvent.Status = domain.PaymentStatusFailed
		}

	case "setup_intent.succeeded":
		webhookEvent.Status = domain.PaymentStatusSucceeded

	default:
		webhookEvent.Status = domain.PaymentStatusPending
	}

	return webhookEvent, nil
}

func toDomainIntent(pi *stripe.PaymentIntent) *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
}
