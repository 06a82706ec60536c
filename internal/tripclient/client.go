package tripclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Stigz/eigernordvan/internal/logging"
	"github.com/Stigz/eigernordvan/internal/trip"
	"github.com/Stigz/eigernordvan/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes = 1 << 20
)

// Client represents an HTTP client for the ledger API
type Client struct {
	// BaseURL is the API base URL (e.g., "https://api.example.ch/prod")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the API at baseURL.
// The value is used as an opaque prefix; a trailing slash is dropped.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// errorBody is the failure payload of every endpoint
type errorBody struct {
	Error string `json:"error"`
}

// LogTrip posts one trip to the ledger and returns the server's receipt.
// A single request is sent; failures are never retried.
func (c *Client) LogTrip(ctx context.Context, req trip.Request) (*trip.Receipt, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, NewRequestError("failed to encode trip", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/trip", bytes.NewReader(payload))
	if err != nil {
		return nil, NewRequestError("failed to create POST request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	// Failure and success bodies must both be JSON; anything else is a transport problem
	if status < 200 || status > 299 {
		var failure errorBody
		if err := json.Unmarshal(body, &failure); err != nil {
			return nil, NewParseError(fmt.Sprintf("failed to parse error response (HTTP %d)", status), err)
		}
		return nil, &APIError{StatusCode: status, Message: failure.Error}
	}

	var receipt trip.Receipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return nil, NewParseError("failed to parse trip receipt", err)
	}
	if err := receipt.Validate(); err != nil {
		return nil, NewParseError("incomplete trip receipt", err)
	}

	return &receipt, nil
}

// ListTrips returns the newest ledger entries, optionally for one user.
// limit <= 0 uses the server default.
func (c *Client) ListTrips(ctx context.Context, userName string, limit int) ([]trip.Entry, error) {
	query := url.Values{}
	if userName != "" {
		query.Set("user", userName)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	endpoint := c.BaseURL + "/trips"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewRequestError("failed to create GET request", err)
	}

	status, body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		var failure errorBody
		if err := json.Unmarshal(body, &failure); err != nil {
			return nil, NewParseError(fmt.Sprintf("failed to parse error response (HTTP %d)", status), err)
		}
		return nil, &APIError{StatusCode: status, Message: failure.Error}
	}

	var list struct {
		Trips []trip.Entry `json:"trips"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, NewParseError("failed to parse trip list", err)
	}

	return list.Trips, nil
}

// Ping performs a simple health check on the server
// Returns nil if the server is reachable and healthy
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return NewRequestError("failed to create ping request", err)
	}

	status, _, err := c.do(httpReq)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return &APIError{StatusCode: status, Message: fmt.Sprintf("unexpected status code: %d", status)}
	}

	return nil
}

// do sends the request and reads the whole body
func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, NewNetworkError(req.Method+" request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, NewNetworkError("failed to read response body", err)
	}

	logging.LogHTTPResponse(req.Method, req.URL.String(), resp.StatusCode, body)

	return resp.StatusCode, body, nil
}
