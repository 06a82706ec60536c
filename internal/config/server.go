package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends accepted in VANLOG_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Server holds all configuration values for the ledger API server.
// Values are populated by LoadServer from environment variables.
type Server struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// Store selects the ledger backend: memory, postgres or redis.
	Store string

	// DatabaseURL is the Postgres connection string. Required for the postgres store.
	DatabaseURL string

	// RedisAddr is the Redis address. Required for the redis store.
	RedisAddr string

	// KafkaBrokers enables the trip.logged publisher when non-empty.
	KafkaBrokers []string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	CORSOrigins []string

	// CostPerKM is the CHF rate applied to each kilometre. Defaults to 0.50.
	CostPerKM float64

	// Advertise enables the mDNS advertisement. Defaults to true.
	Advertise bool

	// LogLevel is the zap level name; empty keeps logging silent.
	LogLevel string
}

// LoadServer reads configuration from environment variables and returns a Server.
// Returns an error listing any required variables that are not set.
func LoadServer() (Server, error) {
	cfg := Server{
		Port:         getEnv("VANLOG_PORT", "8080"),
		Store:        strings.ToLower(getEnv("VANLOG_STORE", StoreMemory)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		KafkaBrokers: splitCSV(os.Getenv("VANLOG_KAFKA_BROKERS")),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LogLevel:     os.Getenv("VANLOG_LOG_LEVEL"),
	}

	rate, err := strconv.ParseFloat(getEnv("VANLOG_COST_PER_KM", "0.50"), 64)
	if err != nil || rate < 0 {
		return Server{}, fmt.Errorf("VANLOG_COST_PER_KM must be a non-negative number: %q", os.Getenv("VANLOG_COST_PER_KM"))
	}
	cfg.CostPerKM = rate

	advertise, err := strconv.ParseBool(getEnv("VANLOG_ADVERTISE", "true"))
	if err != nil {
		return Server{}, fmt.Errorf("VANLOG_ADVERTISE must be a boolean: %w", err)
	}
	cfg.Advertise = advertise

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}

	return cfg, nil
}

// Validate checks the store selection and its required settings.
func (s Server) Validate() error {
	var missing []string

	switch s.Store {
	case StoreMemory:
	case StorePostgres:
		if s.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case StoreRedis:
		if s.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown store %q (expected memory, postgres or redis)", s.Store)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Addr returns the listen address for Port.
func (s Server) Addr() string {
	return ":" + s.Port
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
