package domain

import "fmt"

// ValidationError reports bad or missing user input, caught before any
// network call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PreconditionError reports an operation that requires prior state not yet
// established, e.g. no current customer.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// BackendError reports a non-2xx or malformed backend response. Message is
// the backend-provided detail when one was present.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// ProviderCardError is a card or validation class error from the payment
// provider. The message is safe to show to the user verbatim.
type ProviderCardError struct {
	Msg string
}

func (e *ProviderCardError) Error() string { return e.Msg }

// ProviderUnexpectedError is any other provider error class. Only a generic
// message is shown; the wrapped detail is logged.
type ProviderUnexpectedError struct {
	Err error
}

func (e *ProviderUnexpectedError) Error() string {
	return fmt.Sprintf("unexpected provider error: %v", e.Err)
}

func (e *ProviderUnexpectedError) Unwrap() error { return e.Err }

// NetworkError is a transport-level failure on either a backend or a
// provider call.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
