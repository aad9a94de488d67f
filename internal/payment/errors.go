package payment

import "fmt"

// ValidationError carries field-level errors for a rejected checkout
// attempt. Nothing was sent to a provider when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkout request: %d field error(s)", len(e.Fields))
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ProviderError wraps a provider rejection or network failure. The attempt
// is abandoned; the user may retry manually.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
