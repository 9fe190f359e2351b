package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Decoding errors (DECODING_*)
	ErrorCodeDecoding          ErrorCode = "DECODING_FAILED"
	ErrorCodeMalformedResponse ErrorCode = "DECODING_MALFORMED_RESPONSE"

	// Action errors (ACTION_*)
	ErrorCodeUnsupportedAction ErrorCode = "ACTION_UNSUPPORTED"

	// Transport errors (NETWORK_*)
	ErrorCodeNetwork ErrorCode = "NETWORK_ERROR"

	// Partial payment errors (ORDER_*, BALANCE_*)
	ErrorCodeNoBalance                ErrorCode = "BALANCE_UNAVAILABLE"
	ErrorCodeOrderCancellationWarning ErrorCode = "ORDER_CANCELLATION_WARNING"

	// Polling errors (POLLING_*)
	ErrorCodePollingTimeout ErrorCode = "POLLING_TIMEOUT"

	// Validation errors (VALIDATION_*)
	ErrorCodeValidation       ErrorCode = "VALIDATION_FAILED"
	ErrorCodeCurrencyMismatch ErrorCode = "VALIDATION_CURRENCY_MISMATCH"
)

// CheckoutError represents a structured checkout error with error code and context
type CheckoutError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *CheckoutError) WithDetail(key string, value interface{}) *CheckoutError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewCheckoutError creates a new checkout error
func NewCheckoutError(code ErrorCode, message string) *CheckoutError {
	return &CheckoutError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a checkout error code
func WrapError(code ErrorCode, message string, err error) *CheckoutError {
	return &CheckoutError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsCheckoutError checks if an error is a CheckoutError with the given code
func IsCheckoutError(err error, code ErrorCode) bool {
	var checkoutErr *CheckoutError
	if errors.As(err, &checkoutErr) {
		return checkoutErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if
// not a CheckoutError
func GetErrorCode(err error) ErrorCode {
	var checkoutErr *CheckoutError
	if errors.As(err, &checkoutErr) {
		return checkoutErr.Code
	}
	return ""
}

// IsDecodingError checks if an error came from decoding a server payload
func IsDecodingError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeDecoding || code == ErrorCodeMalformedResponse
}

// IsNetworkError checks if an error is a transport failure the caller may
// retry by resubmitting
func IsNetworkError(err error) bool {
	return GetErrorCode(err) == ErrorCodeNetwork
}

// IsOrderCancellationWarning checks if an error is the non-fatal warning
// surfaced when an order cancellation did not come back as received
func IsOrderCancellationWarning(err error) bool {
	return GetErrorCode(err) == ErrorCodeOrderCancellationWarning
}

// Structured error instances
var (
	ErrNoBalance         = NewCheckoutError(ErrorCodeNoBalance, "no usable balance on payment instrument")
	ErrPollingTimeout    = NewCheckoutError(ErrorCodePollingTimeout, "payment status polling timed out")
	ErrMalformedResponse = NewCheckoutError(ErrorCodeMalformedResponse, "server response is malformed")
)

// Common domain errors
var (
	ErrMissingActionType   = errors.New("action is missing its type discriminant")
	ErrMissingMethodType   = errors.New("payment method is missing its type")
	ErrMissingMethodName   = errors.New("payment method is missing its name")
	ErrNoActiveOrder       = errors.New("no active order for this session")
	ErrOrderAlreadyCreated = errors.New("an order was already created for this session")
)
