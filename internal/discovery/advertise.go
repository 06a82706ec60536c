package discovery

import (
	"fmt"
	"os"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/Stigz/eigernordvan/internal/logging"
	"github.com/Stigz/eigernordvan/internal/version"
)

// Advertisement is a running mDNS registration.
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise registers the ledger API on port in the local domain until
// Shutdown is called. An empty instance uses "vanlog on <hostname>".
func Advertise(instance string, port int) (*Advertisement, error) {
	if instance == "" {
		instance = DefaultInstance()
	}

	txt := []string{"path=/", "version=" + version.Version}
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising ledger via mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertisement{server: server}, nil
}

// DefaultInstance returns the instance name used when none is configured.
func DefaultInstance() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "vanlog"
	}
	return "vanlog on " + host
}

// Shutdown withdraws the registration.
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
}
