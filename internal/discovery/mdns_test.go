package discovery

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
	}{
		{
			name: "IPv4 server",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "vanlog on camper"},
				HostName:      "camper.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
				Text:          []string{"path=/", "version=1.0.0"},
			},
			wantIP:   "192.168.4.16",
			wantPort: 8080,
		},
		{
			name: "no port specified (should default)",
			entry: &zeroconf.ServiceEntry{
				HostName: "camper.local.",
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				HostName: "camper.local.",
				Port:     8080,
			},
			wantNil: true,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				HostName: "camper.local.",
				Port:     8080,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantIP:   "fe80::1",
			wantPort: 8080,
		},
		{
			name: "both IPv4 and IPv6 (should prefer IPv4)",
			entry: &zeroconf.ServiceEntry{
				HostName: "camper.local.",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantIP:   "192.168.1.50",
			wantPort: 8080,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if ep != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", ep)
				}
				return
			}

			if ep == nil {
				t.Fatal("parseServiceEntry() = nil, want endpoint")
			}
			if ep.IP != tt.wantIP {
				t.Errorf("ep.IP = %v, want %v", ep.IP, tt.wantIP)
			}
			if ep.Port != tt.wantPort {
				t.Errorf("ep.Port = %v, want %v", ep.Port, tt.wantPort)
			}
			if ep.Instance != tt.entry.Instance {
				t.Errorf("ep.Instance = %v, want %v", ep.Instance, tt.entry.Instance)
			}
			if time.Since(ep.DiscoveredAt) > time.Second {
				t.Errorf("ep.DiscoveredAt is not recent: %v", ep.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "camper.local.",
		Port:     8080,
		AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
		Text:     []string{"path=/api", "flag", "version=1.0"},
	}

	ep := parseServiceEntry(entry)
	if ep == nil {
		t.Fatal("parseServiceEntry() = nil, want endpoint")
	}

	expectedMetadata := map[string]string{
		"path":    "/api",
		"flag":    "", // Key without value
		"version": "1.0",
	}

	if len(ep.Metadata) != len(expectedMetadata) {
		t.Errorf("ep.Metadata has %d entries, want %d", len(ep.Metadata), len(expectedMetadata))
	}
	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := ep.Metadata[key]; !ok {
			t.Errorf("ep.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("ep.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}

	if ep.BaseURL() != "http://192.168.4.16:8080/api" {
		t.Errorf("ep.BaseURL() = %v", ep.BaseURL())
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

// fakeBrowse mimics the zeroconf resolver: it sends entries, then closes the
// channel once ctx is done.
func fakeBrowse(entries ...*zeroconf.ServiceEntry) func(context.Context, chan<- *zeroconf.ServiceEntry) error {
	return func(ctx context.Context, ch chan<- *zeroconf.ServiceEntry) error {
		go func() {
			defer close(ch)
			for _, e := range entries {
				select {
				case ch <- e:
				case <-ctx.Done():
					return
				}
			}
			<-ctx.Done()
		}()
		return nil
	}
}

func ledgerEntry(ip string) *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		HostName: "camper.local.",
		Port:     8080,
		AddrIPv4: []net.IP{net.ParseIP(ip)},
	}
}

func TestScanner_FindFirst(t *testing.T) {
	noAddress := &zeroconf.ServiceEntry{HostName: "broken.local.", Port: 8080}
	scanner := &Scanner{
		Timeout:  5 * time.Second,
		browseFn: fakeBrowse(noAddress, ledgerEntry("192.168.4.16"), ledgerEntry("192.168.4.17")),
	}

	start := time.Now()
	ep, err := scanner.FindFirst(context.Background())
	if err != nil {
		t.Fatalf("FindFirst() error = %v", err)
	}
	if ep.IP != "192.168.4.16" {
		t.Errorf("FindFirst() IP = %v, want the first usable entry", ep.IP)
	}
	if elapsed := time.Since(start); elapsed >= scanner.Timeout {
		t.Errorf("FindFirst() took %v, want it to stop at the first answer", elapsed)
	}
}

func TestScanner_FindFirstNothingFound(t *testing.T) {
	scanner := &Scanner{Timeout: 50 * time.Millisecond, browseFn: fakeBrowse()}

	if _, err := scanner.FindFirst(context.Background()); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("FindFirst() error = %v, want ErrNoEndpoint", err)
	}
}

func TestScanner_BrowseError(t *testing.T) {
	boom := errors.New("no multicast interface")
	scanner := &Scanner{
		Timeout: time.Second,
		browseFn: func(context.Context, chan<- *zeroconf.ServiceEntry) error {
			return boom
		},
	}

	if _, err := scanner.FindFirst(context.Background()); !errors.Is(err, boom) {
		t.Errorf("FindFirst() error = %v, want %v", err, boom)
	}
	if _, err := scanner.Scan(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Scan() error = %v, want %v", err, boom)
	}
}

func TestScanner_ScanDeduplicates(t *testing.T) {
	scanner := &Scanner{
		Timeout:  100 * time.Millisecond,
		browseFn: fakeBrowse(ledgerEntry("192.168.4.16"), ledgerEntry("192.168.4.16"), ledgerEntry("192.168.4.17")),
	}

	endpoints, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(endpoints) != 2 {
		t.Fatalf("Scan() found %d endpoints, want 2", len(endpoints))
	}
	if endpoints[0].IP != "192.168.4.16" || endpoints[1].IP != "192.168.4.17" {
		t.Errorf("Scan() order = %v, %v", endpoints[0].IP, endpoints[1].IP)
	}
}

func TestDefaultInstance(t *testing.T) {
	if got := DefaultInstance(); !strings.HasPrefix(got, "vanlog") {
		t.Errorf("DefaultInstance() = %q, want vanlog prefix", got)
	}
}

func TestAdvertisement_ShutdownNil(t *testing.T) {
	var a *Advertisement
	a.Shutdown()
}

// Live mDNS discovery needs multicast on the host network and is exercised
// manually with `vanlog-server serve` and `vanlog scan`.
