package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Endpoint represents a discovered ledger server
type Endpoint struct {
	// Instance is the advertised service instance name (e.g., "vanlog on camper")
	Instance string

	// Hostname is the mDNS hostname (e.g., "camper.local.")
	Hostname string

	// IP is the address clients should connect to
	IP string

	// Port is the HTTP port
	Port int

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the endpoint was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the endpoint
func (e *Endpoint) String() string {
	return fmt.Sprintf("%s (%s) at %s", e.Instance, e.Hostname, e.BaseURL())
}

// BaseURL returns the HTTP API base URL, including the advertised path
func (e *Endpoint) BaseURL() string {
	host := net.JoinHostPort(e.IP, strconv.Itoa(e.Port))
	path := strings.TrimRight(e.GetMetadata("path"), "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + host + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (e *Endpoint) GetMetadata(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}
