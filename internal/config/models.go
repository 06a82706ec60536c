package config

import "time"

const currentVersion = 1

// Client represents the client configuration file.
type Client struct {
	Version        int    `yaml:"version"`
	APIURL         string `yaml:"api_url,omitempty"`         // Ledger API base URL, used as an opaque prefix
	UserName       string `yaml:"user_name,omitempty"`       // Prefilled into the form's name field
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"` // Request timeout; 0 means the client default

	// source records where APIURL came from; not persisted
	source string
}

// NewClient creates a Client with default values.
func NewClient() *Client {
	return &Client{Version: currentVersion}
}

// Timeout returns the configured request timeout, or 0 for the default.
func (c *Client) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HasAPIURL reports whether an API URL is configured.
func (c *Client) HasAPIURL() bool {
	return c.APIURL != ""
}

// APIURLSource describes where the API URL was read from ("env", the file
// path, or "" when unset).
func (c *Client) APIURLSource() string {
	return c.source
}
