package tripclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
	"testing"
)

func asClientError(err error, target **ClientError) bool {
	return errors.As(err, target)
}

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeTimeout, "Timeout"},
		{ErrTypeConnectionRefused, "Connection Refused"},
		{ErrTypeDNS, "DNS Error"},
		{ErrTypeCanceled, "Canceled"},
		{ErrTypeParse, "Parse Error"},
		{ErrTypeRequest, "Request Error"},
		{ErrorType(99), "ErrorType(99)"},
	}

	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", tt.et, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"canceled", &url.Error{Op: "Post", URL: "http://x", Err: context.Canceled}, ErrTypeCanceled},
		{"deadline", &url.Error{Op: "Post", URL: "http://x", Err: context.DeadlineExceeded}, ErrTypeTimeout},
		{"dns", &url.Error{Op: "Post", URL: "http://x", Err: &net.DNSError{Name: "nowhere.invalid", Err: "no such host"}}, ErrTypeDNS},
		{"refused", &url.Error{Op: "Post", URL: "http://x", Err: refused}, ErrTypeConnectionRefused},
		{"generic", errors.New("connection reset"), ErrTypeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClientError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewNetworkError("POST request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("ClientError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "caused by: boom") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestPredicates(t *testing.T) {
	apiErr := error(&APIError{StatusCode: 400, Message: "user_name is required"})
	wrapped := fmt.Errorf("submit: %w", apiErr)
	parseErr := NewParseError("bad body", errors.New("invalid character"))
	netErr := NewNetworkError("down", errors.New("reset"))

	if !IsAPIError(wrapped) || IsTransportError(wrapped) {
		t.Error("wrapped APIError should be an API error only")
	}
	if !IsTransportError(parseErr) || !IsParseError(parseErr) || IsNetworkError(parseErr) {
		t.Error("parse error classification is wrong")
	}
	if !IsNetworkError(netErr) || IsParseError(netErr) {
		t.Error("network error classification is wrong")
	}
	if IsAPIError(errors.New("plain")) || IsTransportError(errors.New("plain")) {
		t.Error("plain errors belong to neither family")
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&APIError{StatusCode: 400, Message: "end_km must be greater than start_km"}, "end_km must be greater than start_km"},
		{&APIError{StatusCode: 500}, "Server error (HTTP 500)"},
		{&ClientError{Type: ErrTypeTimeout}, "Ledger server not responding (timeout)"},
		{&ClientError{Type: ErrTypeConnectionRefused}, "Ledger server refused connection - is it running?"},
		{&ClientError{Type: ErrTypeParse}, "Failed to parse server response"},
		{&ClientError{Type: ErrTypeNetwork}, "Network error - check connection"},
		{errors.New("other"), "other"},
	}

	for _, tt := range tests {
		if got := GetShortErrorMessage(tt.err); got != tt.want {
			t.Errorf("GetShortErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
