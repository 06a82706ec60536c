package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Stigz/eigernordvan/internal/logging"
	"github.com/Stigz/eigernordvan/internal/trip"
)

const (
	// DefaultCostPerKM is the CHF rate charged per kilometre.
	DefaultCostPerKM = 0.50

	// DefaultLimit and MaxLimit bound List results.
	DefaultLimit = 20
	MaxLimit     = 100

	// Confirmation is returned with every logged trip.
	Confirmation = "Trip logged. Thanks for keeping the habit simple."

	// entryComment is stored with every entry.
	entryComment = "Append-only MVP entry. Corrections are new events."
)

// ErrValidation is wrapped by every error caused by a bad submission.
var ErrValidation = errors.New("invalid trip")

// ValidationError carries the message returned to the client verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Submission is the decoded POST /trip body. Missing or null odometer values
// stay nil.
type Submission struct {
	UserName string   `json:"user_name"`
	StartKM  *float64 `json:"start_km"`
	EndKM    *float64 `json:"end_km"`
}

// Validate checks the submission and returns a *ValidationError on failure.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.UserName) == "" {
		return &ValidationError{Message: "user_name is required"}
	}
	if !finite(s.StartKM) {
		return &ValidationError{Message: "start_km must be a number"}
	}
	if !finite(s.EndKM) {
		return &ValidationError{Message: "end_km must be a number"}
	}
	if *s.StartKM < 0 {
		return &ValidationError{Message: "start_km must not be negative"}
	}
	if *s.EndKM <= *s.StartKM {
		return &ValidationError{Message: "end_km must be greater than start_km"}
	}
	return nil
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Query selects ledger entries, newest first.
type Query struct {
	UserName string
	Limit    int
}

// normalized clamps Limit into [1, MaxLimit], using DefaultLimit for <= 0.
func (q Query) normalized() Query {
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	q.UserName = strings.TrimSpace(q.UserName)
	return q
}

// Store is an append-only entry log.
type Store interface {
	Append(ctx context.Context, entry trip.Entry) error
	List(ctx context.Context, q Query) ([]trip.Entry, error)
	Close() error
}

// Publisher is notified after an entry has been stored.
type Publisher interface {
	Publish(ctx context.Context, entry trip.Entry) error
}

// Service logs trips to a Store and fans them out to Publishers.
type Service struct {
	store      Store
	publishers []Publisher
	costPerKM  float64

	now   func() time.Time
	newID func() string
}

// NewService creates a Service. A non-positive costPerKM uses DefaultCostPerKM.
func NewService(store Store, costPerKM float64, publishers ...Publisher) *Service {
	if costPerKM <= 0 {
		costPerKM = DefaultCostPerKM
	}
	return &Service{
		store:      store,
		publishers: publishers,
		costPerKM:  costPerKM,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// Log validates sub, appends the computed entry and publishes it.
// Publish failures are logged and do not fail the call.
func (s *Service) Log(ctx context.Context, sub Submission) (trip.Entry, error) {
	if err := sub.Validate(); err != nil {
		return trip.Entry{}, err
	}

	delta := *sub.EndKM - *sub.StartKM
	entry := trip.Entry{
		ID:          s.newID(),
		LoggedAt:    s.now().Truncate(time.Second),
		UserName:    strings.TrimSpace(sub.UserName),
		StartKM:     roundCents(*sub.StartKM),
		EndKM:       roundCents(*sub.EndKM),
		DeltaKM:     roundCents(delta),
		TripCostCHF: roundCents(delta * s.costPerKM),
		EventType:   trip.EventTypeManual,
		Comment:     entryComment,
	}

	if err := s.store.Append(ctx, entry); err != nil {
		return trip.Entry{}, fmt.Errorf("ledger.Service.Log: %w", err)
	}

	logging.Info("Trip logged",
		zap.String("id", entry.ID),
		zap.String("user", entry.UserName),
		zap.Float64("delta_km", entry.DeltaKM),
		zap.Float64("cost_chf", entry.TripCostCHF),
	)

	for _, p := range s.publishers {
		if err := p.Publish(ctx, entry); err != nil {
			logging.Warn("Failed to publish trip",
				zap.String("id", entry.ID),
				zap.String("publisher", fmt.Sprintf("%T", p)),
				zap.Error(err),
			)
		}
	}

	return entry, nil
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, q Query) ([]trip.Entry, error) {
	entries, err := s.store.List(ctx, q.normalized())
	if err != nil {
		return nil, fmt.Errorf("ledger.Service.List: %w", err)
	}
	if entries == nil {
		entries = []trip.Entry{}
	}
	return entries, nil
}

// ReceiptFor builds the POST /trip success body for an entry.
func ReceiptFor(entry trip.Entry) trip.Receipt {
	delta, cost := entry.DeltaKM, entry.TripCostCHF
	return trip.Receipt{
		ID:           entry.ID,
		DeltaKM:      &delta,
		TripCostCHF:  &cost,
		EventType:    entry.EventType,
		Timestamp:    entry.LoggedAt.Format(time.RFC3339),
		Confirmation: Confirmation,
	}
}

// roundCents rounds to two decimals, the precision the ledger stores
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
