package domain

import (
	"time"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusProcessing     PaymentStatus = "processing"
	PaymentStatusRequiresAction PaymentStatus = "requires_action"
	PaymentStatusSucceeded      PaymentStatus = "succeeded"
	PaymentStatusFailed         PaymentStatus = "failed"
	PaymentStatusCanceled       PaymentStatus = "canceled"
)

// Customer is a billing customer held by the payment provider.
type Customer struct {
	ID    string `json:"customerId"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SavedCard is a read-only snapshot of a tokenized card on file for a
// customer. The provider owns the record; snapshots are refetched after
// any mutation and never cached beyond one render cycle.
type SavedCard struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"expMonth"`
	ExpYear  int64  `json:"expYear"`
}

// PaymentIntent represents a pending or settled charge at the provider.
// ClientSecret is single-use and scoped to this intent only.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// ChargeRequest is a request to charge a customer using a saved card.
// PaymentMethodID nil means the backend picks the default method.
type ChargeRequest struct {
	CustomerID      string  `json:"customerId"`
	PaymentMethodID *string `json:"paymentMethodId"`
	Amount          int64   `json:"amount"`
	Currency        string  `json:"currency"`
	Description     string  `json:"description"`
}

// ChargeOutcome is the backend's answer to a charge request. The presence
// of ClientSecret is the discriminator: non-empty means the charge needs
// further client-side authentication, empty means it is terminal.
type ChargeOutcome struct {
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	ClientSecret    string `json:"clientSecret,omitempty"`
	Message         string `json:"message,omitempty"`
}

// Payment is the persisted record of a charge attempt.
type Payment struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	CustomerID    string        `json:"customer_id" gorm:"index"`
	ProviderID    string        `json:"provider_id" gorm:"index"` // PaymentIntent ID
	Method        string        `json:"method,omitempty"`
	Status        PaymentStatus `json:"status"`
	Amount        int64         `json:"amount"` // minor currency units
	Currency      string        `json:"currency"`
	Description   string        `json:"description,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}
