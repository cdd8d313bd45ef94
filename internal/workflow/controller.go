package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/observability/telemetry"
	"github.com/seu-repo/payvault/internal/ports"
)

// Currency is fixed at the controller; the backend applies it to every
// charge and payment intent.
const Currency = "usd"

// Controller owns the payment sagas and their shared current-customer
// context. Each saga is a strictly sequential chain of backend and provider
// round-trips; its triggering control is disabled for the whole chain and
// re-enabled on every exit path. Secrets obtained mid-saga never outlive
// the saga that requested them.
type Controller struct {
	gateway   ports.BackendGateway
	confirmer ports.CardConfirmer
	session   *Session
	gate      *Gate
	render    RenderFunc
	log       *zap.Logger
}

func NewController(gateway ports.BackendGateway, confirmer ports.CardConfirmer, session *Session, log *zap.Logger) *Controller {
	return &Controller{
		gateway:   gateway,
		confirmer: confirmer,
		session:   session,
		gate:      NewGate(),
		log:       log,
	}
}

// SetRenderer registers the sink for card list snapshots.
func (c *Controller) SetRenderer(fn RenderFunc) {
	c.render = fn
}

// Session exposes the current-customer context, read-only for callers.
func (c *Controller) Session() *Session {
	return c.session
}

// Gate exposes control state so a UI layer can mirror disabled controls.
func (c *Controller) Gate() *Gate {
	return c.gate
}

// run executes one saga under its control gate. The deferred release and
// panic recovery together guarantee the control is re-enabled exactly once
// no matter where the saga fails.
func (c *Controller) run(control Control, fn func() Result) (res Result) {
	if !c.gate.TryAcquire(control) {
		return Result{Status: StatusFailed, Message: "Operation already in progress.", Recoverable: true}
	}
	defer c.gate.Release(control)
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Saga panicked",
				zap.String("control", string(control)),
				zap.Any("panic", r),
			)
			res = Result{Status: StatusFailed, Message: msgTryAgain}
		}
		telemetry.SagasTotal.WithLabelValues(string(control), string(res.Status)).Inc()
	}()
	return fn()
}

// CreateCustomer creates a backend customer and adopts it as the current
// reference, then refreshes the card list for the new customer.
func (c *Controller) CreateCustomer(ctx context.Context, email, name string) Result {
	return c.run(ControlCreateCustomer, func() Result {
		if email == "" || name == "" {
			return failure(&domain.ValidationError{Msg: "Email and Name are required."})
		}

		customer, err := c.gateway.CreateCustomer(ctx, email, name)
		if err != nil {
			return failure(err)
		}

		c.session.Adopt(ctx, customer.ID)
		c.refreshCards(ctx)
		return Result{Status: StatusSucceeded, Message: "Customer created: " + customer.ID}
	})
}

// SaveCard requests a setup secret scoped to the current customer and hands
// it with the card input to the provider's setup confirmation. Only a
// "succeeded" terminal status counts as success; other non-error statuses
// are surfaced verbatim without failing the card.
func (c *Controller) SaveCard(ctx context.Context, card ports.CardInput) Result {
	return c.run(ControlSaveCard, func() Result {
		customerID := c.session.Customer()
		if customerID == "" {
			return failure(&domain.PreconditionError{Msg: "Please create a customer first."})
		}

		clientSecret, err := c.gateway.CreateSetupIntent(ctx, customerID)
		if err != nil {
			return failure(err)
		}

		confirmation, err := c.confirmer.ConfirmCardSetup(ctx, clientSecret, card)
		if err != nil {
			var unexpected *domain.ProviderUnexpectedError
			if errors.As(err, &unexpected) {
				c.log.Error("Card setup confirmation failed", zap.Error(err))
			}
			return failure(err)
		}

		if confirmation.Status != "succeeded" {
			return Result{
				Status:          StatusPending,
				Message:         "Setup status: " + confirmation.Status,
				Recoverable:     true,
				PaymentMethodID: confirmation.PaymentMethodID,
			}
		}

		c.refreshCards(ctx)
		return Result{
			Status:          StatusSucceeded,
			Message:         "Card saved successfully.",
			PaymentMethodID: confirmation.PaymentMethodID,
		}
	})
}

// ListCards fetches a fresh snapshot and renders it. The list is always a
// full replace of whatever was rendered before.
func (c *Controller) ListCards(ctx context.Context) CardListView {
	if !c.gate.TryAcquire(ControlListCards) {
		return CardListView{State: ListStateError, Message: "Operation already in progress."}
	}
	defer c.gate.Release(ControlListCards)

	view := c.buildCardList(ctx)
	c.emit(view)
	telemetry.SagasTotal.WithLabelValues(string(ControlListCards), string(view.State)).Inc()
	return view
}

// DeleteCard detaches a saved payment method after explicit user
// confirmation. The row is never removed optimistically: a fresh list fetch
// confirms the deletion.
func (c *Controller) DeleteCard(ctx context.Context, paymentMethodID string, confirm func() bool) Result {
	return c.run(ControlDeleteCard, func() Result {
		if confirm == nil || !confirm() {
			return Result{Status: StatusPending, Message: "Deletion cancelled.", Recoverable: true}
		}

		if err := c.gateway.DeletePaymentMethod(ctx, paymentMethodID); err != nil {
			c.log.Error("Failed to delete payment method",
				zap.String("payment_method_id", paymentMethodID),
				zap.Error(err),
			)
			return failure(err)
		}

		c.refreshCards(ctx)
		return Result{
			Status:          StatusSucceeded,
			Message:         "Payment method removed.",
			PaymentMethodID: paymentMethodID,
		}
	})
}

// ChargeCustomer charges the current customer. A nil paymentMethodID lets
// the backend choose a saved method. The backend response's clientSecret
// presence is the sole discriminator between a terminal charge and one
// needing further client-side authentication.
func (c *Controller) ChargeCustomer(ctx context.Context, paymentMethodID *string, amount int64, description string) Result {
	return c.run(ControlCharge, func() Result {
		customerID := c.session.Customer()
		if customerID == "" {
			return failure(&domain.PreconditionError{Msg: "Please create a customer and save a card first."})
		}
		if amount <= 0 {
			return failure(&domain.ValidationError{Msg: "Please enter a valid amount to charge."})
		}

		outcome, err := c.gateway.ChargeCustomer(ctx, domain.ChargeRequest{
			CustomerID:      customerID,
			PaymentMethodID: paymentMethodID,
			Amount:          amount,
			Currency:        Currency,
			Description:     description,
		})
		if err != nil {
			return failure(err)
		}

		if outcome.ClientSecret == "" {
			return Result{
				Status:        StatusSucceeded,
				Message:       "Charge successful.",
				TransactionID: outcome.PaymentIntentID,
			}
		}

		confirmation, err := c.confirmer.ConfirmCardPayment(ctx, outcome.ClientSecret, nil)
		if err != nil {
			var unexpected *domain.ProviderUnexpectedError
			if errors.As(err, &unexpected) {
				c.log.Error("Charge authentication failed", zap.Error(err))
			}
			res := failure(err)
			res.Message = "Authentication failed: " + res.Message
			return res
		}

		return Result{
			Status:        StatusSucceeded,
			Message:       "Payment authenticated and succeeded.",
			TransactionID: confirmation.PaymentIntentID,
		}
	})
}

// PayOnce is the legacy one-time payment: a payment intent without a
// customer, confirmed with raw tokenized card input, with a best-effort
// reconciliation notice to the backend on success.
func (c *Controller) PayOnce(ctx context.Context, card ports.CardInput, amount int64, description string) Result {
	return c.run(ControlPayOnce, func() Result {
		if amount <= 0 {
			return failure(&domain.ValidationError{Msg: "Please enter a valid amount."})
		}

		clientSecret, err := c.gateway.CreatePaymentIntent(ctx, amount, Currency, description)
		if err != nil {
			return failure(err)
		}

		confirmation, err := c.confirmer.ConfirmCardPayment(ctx, clientSecret, &card)
		if err != nil {
			var unexpected *domain.ProviderUnexpectedError
			if errors.As(err, &unexpected) {
				c.log.Error("Payment confirmation failed", zap.Error(err))
			}
			return failure(err)
		}

		if confirmation.Status != "succeeded" {
			return Result{
				Status:        StatusPending,
				Message:       "Payment status: " + confirmation.Status,
				Recoverable:   true,
				TransactionID: confirmation.PaymentIntentID,
			}
		}

		if err := c.gateway.ConfirmPayment(ctx, confirmation.PaymentIntentID); err != nil {
			// Reconciliation notice only; the payment itself already settled.
			c.log.Warn("Post-payment confirmation notice failed",
				zap.String("payment_intent_id", confirmation.PaymentIntentID),
				zap.Error(err),
			)
		}

		return Result{
			Status:        StatusSucceeded,
			Message:       "Payment succeeded.",
			TransactionID: confirmation.PaymentIntentID,
		}
	})
}
