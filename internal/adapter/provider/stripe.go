package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/paymentmethod"
	"github.com/stripe/stripe-go/v76/setupintent"
	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/observability/telemetry"
	"github.com/seu-repo/payvault/internal/ports"
)

// StripeConfirmer implements the client-side confirmation surface of the
// provider SDK: it turns card input into a payment method and confirms the
// setup or payment intent the client secret was minted for. The intent ID
// is derived from the secret; the secret itself never leaves the call.
type StripeConfirmer struct {
	log *zap.Logger
}

var _ ports.CardConfirmer = (*StripeConfirmer)(nil)

func NewStripeConfirmer(apiKey string, log *zap.Logger) *StripeConfirmer {
	stripe.Key = apiKey
	return &StripeConfirmer{log: log}
}

func (p *StripeConfirmer) ConfirmCardSetup(ctx context.Context, clientSecret string, card ports.CardInput) (*ports.SetupConfirmation, error) {
	start := time.Now()
	defer func() {
		telemetry.ProviderRequestDuration.Observe(time.Since(start).Seconds())
	}()

	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	pm, err := p.createPaymentMethod(ctx, card)
	if err != nil {
		return nil, err
	}

	params := &stripe.SetupIntentConfirmParams{
		PaymentMethod: stripe.String(pm.ID),
	}
	params.Context = ctx

	si, err := setupintent.Confirm(intentID, params)
	if err != nil {
		return nil, classifyError(err)
	}

	confirmation := &ports.SetupConfirmation{Status: string(si.Status)}
	if si.PaymentMethod != nil {
		confirmation.PaymentMethodID = si.PaymentMethod.ID
	}
	return confirmation, nil
}

func (p *StripeConfirmer) ConfirmCardPayment(ctx context.Context, clientSecret string, card *ports.CardInput) (*ports.PaymentConfirmation, error) {
	start := time.Now()
	defer func() {
		telemetry.ProviderRequestDuration.Observe(time.Since(start).Seconds())
	}()

	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx

	// A saved-method charge authenticates without collecting the card
	// again; only fresh payments attach a new payment method.
	if card != nil {
		pm, err := p.createPaymentMethod(ctx, *card)
		if err != nil {
			return nil, err
		}
		params.PaymentMethod = stripe.String(pm.ID)
	}

	pi, err := paymentintent.Confirm(intentID, params)
	if err != nil {
		return nil, classifyError(err)
	}

	return &ports.PaymentConfirmation{
		Status:          string(pi.Status),
		PaymentIntentID: pi.ID,
	}, nil
}

func (p *StripeConfirmer) createPaymentMethod(ctx context.Context, card ports.CardInput) (*stripe.PaymentMethod, error) {
	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.Int64(card.ExpMonth),
			ExpYear:  stripe.Int64(card.ExpYear),
			CVC:      stripe.String(card.CVC),
		},
	}
	params.Context = ctx

	pm, err := paymentmethod.New(params)
	if err != nil {
		return nil, classifyError(err)
	}
	return pm, nil
}

// intentIDFromSecret recovers the intent identifier a client secret was
// minted for ("pi_..._secret_..." or "seti_..._secret_...").
func intentIDFromSecret(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret_")
	if !found || id == "" {
		return "", &domain.ProviderUnexpectedError{Err: fmt.Errorf("malformed client secret")}
	}
	return id, nil
}

// classifyError separates card/validation errors, whose message is shown
// to the user verbatim, from every other provider failure.
func classifyError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeCard {
			return &domain.ProviderCardError{Msg: stripeErr.Msg}
		}
		return &domain.ProviderUnexpectedError{Err: err}
	}
	return &domain.NetworkError{Err: err}
}
