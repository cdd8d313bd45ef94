package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/domain"
)

func TestClientConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/payments/config" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"publishableKey": "pk_test_123"})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	key, err := client.Config(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "pk_test_123" {
		t.Errorf("expected pk_test_123, got %q", key)
	}
}

func TestClientCreateCustomer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/payments/customers" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ana@example.com" || body["name"] != "Ana" {
			t.Errorf("unexpected body: %v", body)
		}

		json.NewEncoder(w).Encode(domain.Customer{ID: "cus_1", Email: body["email"], Name: body["name"]})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	customer, err := client.CreateCustomer(context.Background(), "ana@example.com", "Ana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID != "cus_1" {
		t.Errorf("expected cus_1, got %q", customer.ID)
	}
}

func TestClientBackendErrorMessage(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"handler message field", http.StatusConflict, `{"message":"no payment method on file for customer"}`, "no payment method on file for customer"},
		{"generic error field", http.StatusBadRequest, `{"error":"invalid request body"}`, "invalid request body"},
		{"unparseable body", http.StatusInternalServerError, `<html>oops</html>`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, zap.NewNop())

			_, err := client.ChargeCustomer(context.Background(), domain.ChargeRequest{CustomerID: "cus_1", Amount: 100})

			var backendErr *domain.BackendError
			if !errors.As(err, &backendErr) {
				t.Fatalf("expected BackendError, got %T: %v", err, err)
			}
			if backendErr.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, backendErr.StatusCode)
			}
			if backendErr.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, backendErr.Message)
			}
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, zap.NewNop())

	_, err := client.ListPaymentMethods(context.Background(), "cus_1")

	var networkErr *domain.NetworkError
	if !errors.As(err, &networkErr) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
}

func TestClientChargeOutcomePassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ChargeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.PaymentMethodID == nil || *req.PaymentMethodID != "pm_1" {
			t.Errorf("payment method not forwarded: %v", req.PaymentMethodID)
		}
		json.NewEncoder(w).Encode(domain.ChargeOutcome{
			ClientSecret: "pi_1_secret_xyz",
			Message:      "additional authentication required",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	pm := "pm_1"
	outcome, err := client.ChargeCustomer(context.Background(), domain.ChargeRequest{
		CustomerID:      "cus_1",
		PaymentMethodID: &pm,
		Amount:          2500,
		Currency:        "usd",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ClientSecret != "pi_1_secret_xyz" {
		t.Errorf("client secret not passed through, got %q", outcome.ClientSecret)
	}
}

func TestClientDeletePaymentMethod(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewEncoder(w).Encode(map[string]string{"message": "payment method deleted"})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	if err := client.DeletePaymentMethod(context.Background(), "pm_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/payments/payment-methods/pm_1" {
		t.Errorf("unexpected request: %s %s", gotMethod, gotPath)
	}
}

func TestClientListDecodesCards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.SavedCard{
			{ID: "pm_a", Brand: "visa", Last4: "4242", ExpMonth: 12, ExpYear: 2030},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	cards, err := client.ListPaymentMethods(context.Background(), "cus_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 || cards[0].Brand != "visa" || cards[0].Last4 != "4242" {
		t.Errorf("unexpected cards: %+v", cards)
	}
}

func TestClientMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	_, err := client.Config(context.Background())

	var backendErr *domain.BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %T: %v", err, err)
	}
	if backendErr.Message != "malformed backend response" {
		t.Errorf("unexpected message: %q", backendErr.Message)
	}
}
