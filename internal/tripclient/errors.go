package tripclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of a transport-level failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeCanceled indicates the caller canceled the request
	ErrTypeCanceled
	// ErrTypeParse indicates the response body could not be parsed
	ErrTypeParse
	// ErrTypeRequest indicates the request itself could not be built
	ErrTypeRequest
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeCanceled:
		return "Canceled"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeRequest:
		return "Request Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ClientError is a failure to complete the exchange with the server.
type ClientError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ClientError) Unwrap() error {
	return e.Err
}

// APIError is a failure reported by the server: a non-2xx status with a
// decodable JSON body. Message is the body's "error" field and may be empty.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned HTTP %d: %s", e.StatusCode, e.Message)
}

// classify maps an error from http.Client.Do onto an ErrorType
func classify(err error) ErrorType {
	if errors.Is(err, context.Canceled) {
		return ErrTypeCanceled
	}

	if os.IsTimeout(err) {
		return ErrTypeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrTypeDNS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return ErrTypeConnectionRefused
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return classify(urlErr.Err)
	}

	return ErrTypeNetwork
}

// NewNetworkError creates a transport error with automatic classification
func NewNetworkError(message string, err error) *ClientError {
	return &ClientError{Type: classify(err), Message: message, Err: err}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *ClientError {
	return &ClientError{Type: ErrTypeParse, Message: message, Err: err}
}

// NewRequestError creates an error for a request that could not be built
func NewRequestError(message string, err error) *ClientError {
	return &ClientError{Type: ErrTypeRequest, Message: message, Err: err}
}

// IsAPIError checks if an error was reported by the server
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsTransportError checks if an error is a transport or parse failure
func IsTransportError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeParse
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return false
	}
	switch clientErr.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
		return true
	default:
		return false
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message for CLI output
func GetShortErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Server error (HTTP %d)", apiErr.StatusCode)
	}

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return err.Error()
	}

	switch clientErr.Type {
	case ErrTypeTimeout:
		return "Ledger server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Ledger server refused connection - is it running?"
	case ErrTypeDNS:
		return "Cannot resolve ledger server hostname"
	case ErrTypeCanceled:
		return "Request canceled"
	case ErrTypeParse:
		return "Failed to parse server response"
	case ErrTypeRequest:
		return clientErr.Message
	default:
		return "Network error - check connection"
	}
}
