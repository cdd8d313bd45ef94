package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/ports"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	// From email address
	FromEmail string
	FromName  string

	// SendGrid configuration
	SendGridAPIKey string

	// SMTP configuration (for Mailhog or other SMTP servers)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	// Base URL for links in emails
	BaseURL string
}

// DefaultConfig returns a default configuration for development (Mailhog)
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "noreply@payvault.dev",
		FromName:   "PayVault",
		SMTPHost:   "localhost",
		SMTPPort:   1025, // Mailhog default port
		SMTPUseTLS: false,
		BaseURL:    "http://localhost:3000",
	}
}

// Service sends transactional emails: payment receipts and account
// welcomes. It implements ports.ReceiptService.
type Service struct {
	config    *Config
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

var _ ports.ReceiptService = (*Service)(nil)

// NewService creates a new email service
func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
		log:       log,
	}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	s.loadTemplates()

	return s, nil
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {
	s.templates["receipt"] = template.Must(template.New("receipt").Parse(receiptTemplate))
	s.templates["welcome"] = template.Must(template.New("welcome").Parse(welcomeTemplate))
}

// Send sends a generic email
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("Sending email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, body, false); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendHTML sends an HTML email
func (s *Service) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	s.log.Info("Sending HTML email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, htmlBody, true); err != nil {
		s.log.Error("Failed to send HTML email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

// SendTemplate sends an email using a template
func (s *Service) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	data["BaseURL"] = s.config.BaseURL

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject, ok := data["Subject"].(string)
	if !ok {
		subject = "Notification from PayVault"
	}

	return s.SendHTML(ctx, to, subject, buf.String())
}

// SendPaymentReceipt sends a receipt for a settled payment.
func (s *Service) SendPaymentReceipt(ctx context.Context, toEmail string, payment *domain.Payment) error {
	date := payment.UpdatedAt
	if payment.CompletedAt != nil {
		date = *payment.CompletedAt
	}

	data := map[string]interface{}{
		"Subject":   "Your Payment Receipt",
		"PaymentID": payment.ID,
		"Amount":    formatAmount(payment.Amount),
		"Currency":  strings.ToUpper(payment.Currency),
		"Date":      date.Format("2006-01-02 15:04:05"),
	}
	if payment.Description != "" {
		data["Description"] = payment.Description
	}

	return s.SendTemplate(ctx, toEmail, "receipt", data)
}

// SendWelcome sends a welcome email to a new user
func (s *Service) SendWelcome(ctx context.Context, user *domain.User) error {
	data := map[string]interface{}{
		"Subject":  "Welcome to PayVault!",
		"UserName": user.Name,
		"Email":    user.Email,
	}

	return s.SendTemplate(ctx, user.Email, "welcome", data)
}

// formatAmount renders minor currency units as a decimal amount.
func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
