package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type advertised by ledger servers
	ServiceType = "_vanlog._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 8080
)

// ErrNoEndpoint is returned by FindFirst when nothing answered in time.
var ErrNoEndpoint = errors.New("no vanlog server found on the local network")

// Scanner handles mDNS discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration

	// browseFn feeds service entries until ctx is done, then closes entries.
	// nil uses zeroconf.
	browseFn func(ctx context.Context, entries chan<- *zeroconf.ServiceEntry) error
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses until the timeout (or ctx) expires and returns every distinct
// endpoint seen.
func (s *Scanner) Scan(ctx context.Context) ([]*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu        sync.Mutex
		endpoints []*Endpoint
		seen      = make(map[string]bool)
	)

	err := s.browse(ctx, func(ep *Endpoint) bool {
		mu.Lock()
		defer mu.Unlock()
		if key := ep.BaseURL(); !seen[key] {
			seen[key] = true
			endpoints = append(endpoints, ep)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return endpoints, nil
}

// FindFirst returns the first endpoint that answers, or ErrNoEndpoint after the
// timeout.
func (s *Scanner) FindFirst(ctx context.Context) (*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Endpoint, 1)
	err := s.browse(ctx, func(ep *Endpoint) bool {
		select {
		case found <- ep:
		default:
		}
		cancel()
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case ep := <-found:
		return ep, nil
	default:
		return nil, ErrNoEndpoint
	}
}

// browse runs the resolver until ctx is done, calling fn for every parsed
// entry until fn returns false. It returns once the entry loop has drained.
func (s *Scanner) browse(ctx context.Context, fn func(*Endpoint) bool) error {
	browseFn := s.browseFn
	if browseFn == nil {
		browseFn = zeroconfBrowse
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	go func() {
		defer close(done)
		wanted := true
		for entry := range entries {
			if !wanted {
				continue
			}
			if ep := parseServiceEntry(entry); ep != nil {
				wanted = fn(ep)
			}
		}
	}()

	if err := browseFn(ctx, entries); err != nil {
		return err
	}

	<-ctx.Done()

	// entries is closed once the browse context is done
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

func zeroconfBrowse(ctx context.Context, entries chan<- *zeroconf.ServiceEntry) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}
	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// parseServiceEntry converts a zeroconf service entry to an Endpoint
// Returns nil if the entry has no usable address
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Endpoint {
	if entry == nil {
		return nil
	}

	// Prefer IPv4
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Endpoint{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
