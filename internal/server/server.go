package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Stigz/eigernordvan/internal/discovery"
	"github.com/Stigz/eigernordvan/internal/ledger"
	"github.com/Stigz/eigernordvan/internal/logging"
)

// DefaultMaxBodyBytes caps request bodies
const DefaultMaxBodyBytes = 1 << 20

// Config holds the server configuration
type Config struct {
	Host         string
	Port         int
	CORSOrigins  []string
	MaxBodyBytes int64
	Advertise    bool   // Register the API via mDNS
	Instance     string // mDNS instance name (empty = "vanlog on <hostname>")
}

// Server represents the ledger HTTP server
type Server struct {
	config     Config
	service    *ledger.Service
	hub        *ledger.Hub
	httpServer *http.Server
	listener   net.Listener
	advert     *discovery.Advertisement
}

// New creates a new Server. hub may be nil when the live feed is disabled.
func New(config Config, service *ledger.Service, hub *ledger.Hub) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		config:  config,
		service: service,
		hub:     hub,
	}
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
}

// Listen binds the listen address. It is called by Start when needed.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	s.listener = listener
	return nil
}

// Start serves until a shutdown signal arrives or serving fails
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logging.Info("Starting vanlog ledger server",
		zap.String("addr", s.listener.Addr().String()),
		zap.Strings("cors_origins", s.config.CORSOrigins),
	)

	if s.config.Advertise {
		port := s.listener.Addr().(*net.TCPAddr).Port
		advert, err := discovery.Advertise(s.config.Instance, port)
		if err != nil {
			// Discovery is a convenience; the API works without it
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
		s.advert = advert
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Serve accepts connections on the bound listener until Shutdown
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.advert.Shutdown()

	// Hijacked feed connections are not tracked by http.Server
	if s.hub != nil {
		s.hub.Close()
	}

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	} else {
		logging.Info("All connections closed gracefully")
	}

	logging.Sync()
	return err
}
