package workflow

import (
	"errors"

	"github.com/seu-repo/payvault/internal/domain"
)

// Status is the terminal classification of a saga.
type Status string

const (
	StatusPending        Status = "pending"
	StatusRequiresAction Status = "requires_action"
	StatusSucceeded      Status = "succeeded"
	StatusFailed         Status = "failed"
)

// Result is the terminal outcome a saga resolves to. Recoverable steers
// presentation: true means the user can fix the input and retry.
type Result struct {
	Status          Status
	Message         string
	Recoverable     bool
	TransactionID   string
	PaymentMethodID string
}

const (
	msgUnexpected = "An unexpected error occurred."
	msgTryAgain   = "An error occurred. Please try again."
)

// failure maps an error from anywhere in a saga to a terminal result.
// Card and input errors surface their message verbatim; unexpected provider
// and transport errors surface a generic message only.
func failure(err error) Result {
	var (
		validationErr   *domain.ValidationError
		preconditionErr *domain.PreconditionError
		backendErr      *domain.BackendError
		cardErr         *domain.ProviderCardError
		providerErr     *domain.ProviderUnexpectedError
		networkErr      *domain.NetworkError
	)

	switch {
	case errors.As(err, &validationErr):
		return Result{Status: StatusFailed, Message: validationErr.Msg, Recoverable: true}
	case errors.As(err, &preconditionErr):
		return Result{Status: StatusFailed, Message: preconditionErr.Msg, Recoverable: true}
	case errors.As(err, &cardErr):
		return Result{Status: StatusFailed, Message: cardErr.Msg, Recoverable: true}
	case errors.As(err, &backendErr):
		return Result{Status: StatusFailed, Message: backendErr.Error(), Recoverable: true}
	case errors.As(err, &providerErr):
		return Result{Status: StatusFailed, Message: msgUnexpected, Recoverable: false}
	case errors.As(err, &networkErr):
		return Result{Status: StatusFailed, Message: msgTryAgain, Recoverable: false}
	default:
		return Result{Status: StatusFailed, Message: msgTryAgain, Recoverable: false}
	}
}
