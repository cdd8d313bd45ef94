package email

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/domain"
)

// MockProvider is a mock email provider for testing
type MockProvider struct {
	SentEmails []MockEmail
	ShouldFail bool
	FailError  error
}

type MockEmail struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
}

func (m *MockProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	if m.ShouldFail {
		if m.FailError != nil {
			return m.FailError
		}
		return errors.New("mock send failed")
	}

	m.SentEmails = append(m.SentEmails, MockEmail{
		To:      to,
		Subject: subject,
		Body:    body,
		IsHTML:  isHTML,
	})
	return nil
}

func newTestService(provider *MockProvider) *Service {
	return &Service{
		config: &Config{
			Provider:  "mock",
			FromEmail: "test@payvault.dev",
			FromName:  "PayVault Test",
			BaseURL:   "http://localhost:3000",
		},
		provider:  provider,
		templates: make(map[string]*template.Template),
		log:       zap.NewNop(),
	}
}

func TestService_Send_Success(t *testing.T) {
	mockProvider := &MockProvider{}
	service := newTestService(mockProvider)

	err := service.Send(context.Background(), "user@example.com", "Test Subject", "Test Body")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mockProvider.SentEmails) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(mockProvider.SentEmails))
	}
	email := mockProvider.SentEmails[0]
	if email.To != "user@example.com" {
		t.Errorf("expected to 'user@example.com', got '%s'", email.To)
	}
	if email.IsHTML {
		t.Error("expected plain text email, got HTML")
	}
}

func TestService_Send_Failure(t *testing.T) {
	mockProvider := &MockProvider{
		ShouldFail: true,
		FailError:  errors.New("SMTP connection failed"),
	}
	service := newTestService(mockProvider)

	err := service.Send(context.Background(), "user@example.com", "Test Subject", "Test Body")

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "SMTP connection failed") {
		t.Errorf("expected error to contain 'SMTP connection failed', got '%s'", err.Error())
	}
}

func TestService_SendPaymentReceipt_Success(t *testing.T) {
	mockProvider := &MockProvider{}
	service := newTestService(mockProvider)
	service.loadTemplates()

	completed := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	payment := &domain.Payment{
		ID:          "pay-123",
		Amount:      2550,
		Currency:    "usd",
		Description: "One-time payment",
		Status:      domain.PaymentStatusSucceeded,
		CompletedAt: &completed,
	}

	err := service.SendPaymentReceipt(context.Background(), "jane@example.com", payment)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mockProvider.SentEmails) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(mockProvider.SentEmails))
	}
	email := mockProvider.SentEmails[0]
	if email.To != "jane@example.com" {
		t.Errorf("expected to 'jane@example.com', got '%s'", email.To)
	}
	if !strings.Contains(email.Body, "pay-123") {
		t.Error("expected body to contain payment ID")
	}
	if !strings.Contains(email.Body, "USD 25.50") {
		t.Error("expected body to contain formatted amount")
	}
	if !strings.Contains(email.Body, "One-time payment") {
		t.Error("expected body to contain description")
	}
}

func TestService_SendWelcome_Success(t *testing.T) {
	mockProvider := &MockProvider{}
	service := newTestService(mockProvider)
	service.loadTemplates()

	user := &domain.User{
		ID:    "user-123",
		Name:  "Jane Doe",
		Email: "jane@example.com",
	}

	err := service.SendWelcome(context.Background(), user)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mockProvider.SentEmails) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(mockProvider.SentEmails))
	}
	email := mockProvider.SentEmails[0]
	if !strings.Contains(email.Body, "Jane Doe") {
		t.Error("expected body to contain user name")
	}
	if !strings.Contains(email.Body, "Welcome") {
		t.Error("expected body to contain welcome message")
	}
}

func TestNewService_SendGridProvider(t *testing.T) {
	config := &Config{
		Provider:       "sendgrid",
		SendGridAPIKey: "test-api-key",
		FromEmail:      "test@example.com",
		FromName:       "Test",
	}

	service, err := NewService(config, zap.NewNop())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := service.provider.(*SendGridProvider); !ok {
		t.Error("expected SendGridProvider")
	}
}

func TestNewService_SMTPProvider(t *testing.T) {
	config := &Config{
		Provider:  "smtp",
		SMTPHost:  "localhost",
		SMTPPort:  1025,
		FromEmail: "test@example.com",
		FromName:  "Test",
	}

	service, err := NewService(config, zap.NewNop())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := service.provider.(*SMTPProvider); !ok {
		t.Error("expected SMTPProvider")
	}
}

func TestNewService_UnknownProvider(t *testing.T) {
	_, err := NewService(&Config{Provider: "unknown"}, zap.NewNop())

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unknown email provider") {
		t.Errorf("expected 'unknown email provider' error, got '%s'", err.Error())
	}
}

func TestNewService_SendGridMissingAPIKey(t *testing.T) {
	_, err := NewService(&Config{Provider: "sendgrid"}, zap.NewNop())

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "API key is required") {
		t.Errorf("expected 'API key is required' error, got '%s'", err.Error())
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{2550, "25.50"},
		{100, "1.00"},
		{5, "0.05"},
		{999999, "9999.99"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.cents); got != tc.want {
			t.Errorf("formatAmount(%d) = %s, want %s", tc.cents, got, tc.want)
		}
	}
}
