package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/payvault/internal/observability/telemetry"
	"github.com/seu-repo/payvault/internal/ports"
)

// Client is the workflow controller's HTTP client for the payments API.
// Outbound calls run through a circuit breaker; transport failures map to
// NetworkError and non-2xx responses to BackendError with the backend's
// own message when it sent one.
type Client struct {
	baseURL string
	http    *circuitbreaker.HTTPClient
	log     *zap.Logger
}

var _ ports.BackendGateway = (*Client)(nil)

func NewClient(baseURL string, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    circuitbreaker.NewHTTPClientWithSettings(circuitbreaker.DefaultHTTPClientSettings("payments-api"), log),
		log:     log,
	}
}

func (c *Client) Config(ctx context.Context) (string, error) {
	var out struct {
		PublishableKey string `json:"publishableKey"`
	}
	if err := c.do(ctx, "config", http.MethodGet, "/api/payments/config", nil, &out); err != nil {
		return "", err
	}
	return out.PublishableKey, nil
}

func (c *Client) CreateCustomer(ctx context.Context, email, name string) (*domain.Customer, error) {
	body := map[string]string{"email": email, "name": name}
	var out domain.Customer
	if err := c.do(ctx, "create_customer", http.MethodPost, "/api/payments/customers", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	var out struct {
		ClientSecret string `json:"clientSecret"`
	}
	path := "/api/payments/customers/" + customerID + "/setup-intent"
	if err := c.do(ctx, "create_setup_intent", http.MethodPost, path, nil, &out); err != nil {
		return "", err
	}
	return out.ClientSecret, nil
}

func (c *Client) ListPaymentMethods(ctx context.Context, customerID string) ([]domain.SavedCard, error) {
	var out []domain.SavedCard
	path := "/api/payments/customers/" + customerID + "/payment-methods"
	if err := c.do(ctx, "list_payment_methods", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeletePaymentMethod(ctx context.Context, paymentMethodID string) error {
	path := "/api/payments/payment-methods/" + paymentMethodID
	return c.do(ctx, "delete_payment_method", http.MethodDelete, path, nil, nil)
}

func (c *Client) ChargeCustomer(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeOutcome, error) {
	var out domain.ChargeOutcome
	if err := c.do(ctx, "charge_customer", http.MethodPost, "/api/payments/charge-customer", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency, description string) (string, error) {
	body := map[string]interface{}{
		"amount":      amount,
		"currency":    currency,
		"description": description,
	}
	var out struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := c.do(ctx, "create_payment_intent", http.MethodPost, "/api/payments/create-payment-intent", body, &out); err != nil {
		return "", err
	}
	return out.ClientSecret, nil
}

func (c *Client) ConfirmPayment(ctx context.Context, paymentIntentID string) error {
	body := map[string]string{"paymentIntentId": paymentIntentID}
	return c.do(ctx, "confirm_payment", http.MethodPost, "/api/payments/confirm-payment", body, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out interface{}) error {
	start := time.Now()
	defer func() {
		telemetry.BackendRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if resp == nil {
		return &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return &domain.NetworkError{Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.BackendError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &domain.BackendError{
				StatusCode: resp.StatusCode,
				Message:    "malformed backend response",
			}
		}
	}
	return nil
}

// errorMessage extracts the backend's error detail. Handlers answer with a
// "message" field; the generic fiber error handler uses "error".
func errorMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
