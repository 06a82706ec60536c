package submission

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Stigz/eigernordvan/internal/logging"
	"github.com/Stigz/eigernordvan/internal/trip"
	"github.com/Stigz/eigernordvan/internal/tripclient"
)

// ErrSubmissionInFlight is returned by Begin while an attempt is loading.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// TripLogger sends one trip to the ledger. *tripclient.Client satisfies it.
type TripLogger interface {
	LogTrip(ctx context.Context, req trip.Request) (*trip.Receipt, error)
}

// Attempt is one submission between Begin and Resolve.
type Attempt struct {
	ID      uint64
	Request trip.Request
}

// Outcome is what Execute observed: a receipt or an error.
type Outcome struct {
	Receipt *trip.Receipt
	Err     error
}

// Controller owns the submission status and resets the form on success.
type Controller struct {
	logger TripLogger
	form   *trip.Form

	mu        sync.Mutex
	status    Status
	seq       uint64
	inFlight  uint64
	observers []func(Status)
}

// Option configures a Controller built by New
type Option func(*tripclient.Client)

// WithTimeout overrides the request timeout of the underlying client
func WithTimeout(timeout time.Duration) Option {
	return func(c *tripclient.Client) {
		if timeout > 0 {
			c.SetTimeout(timeout)
		}
	}
}

// New creates a controller that logs trips to the API at baseURL.
// baseURL is taken as given; it is never read from the environment here.
func New(baseURL string, form *trip.Form, opts ...Option) *Controller {
	client := tripclient.NewClient(baseURL)
	for _, opt := range opts {
		opt(client)
	}
	return NewWithLogger(client, form)
}

// NewWithLogger creates a controller around an existing TripLogger.
func NewWithLogger(logger TripLogger, form *trip.Form) *Controller {
	if form == nil {
		form = trip.NewForm()
	}
	return &Controller{
		logger: logger,
		form:   form,
		status: idle(),
	}
}

// Form returns the form state holder the controller resets.
func (c *Controller) Form() *trip.Form {
	return c.form
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Observe registers fn to be called after every status transition.
// fn runs on the goroutine that caused the transition, outside the lock.
func (c *Controller) Observe(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Begin starts an attempt for draft. On return the status is loading.
// While another attempt is in flight it returns ErrSubmissionInFlight and
// changes nothing.
func (c *Controller) Begin(draft trip.Draft) (Attempt, error) {
	c.mu.Lock()
	if c.inFlight != 0 {
		c.mu.Unlock()
		return Attempt{}, ErrSubmissionInFlight
	}

	c.seq++
	attempt := Attempt{ID: c.seq, Request: trip.Normalize(draft)}
	c.inFlight = attempt.ID
	c.status = loading()
	status, observers := c.status, c.observers
	c.mu.Unlock()

	c.notify(attempt.ID, status, observers)
	return attempt, nil
}

// Execute sends the attempt's request. It does not touch controller state and
// may run on any goroutine.
func (c *Controller) Execute(ctx context.Context, attempt Attempt) Outcome {
	receipt, err := c.logger.LogTrip(ctx, attempt.Request)
	if err == nil {
		// Guard against loggers that return neither
		err = receipt.Validate()
	}
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Receipt: receipt}
}

// Resolve applies an outcome. It returns false, and changes nothing, when the
// attempt is not the one in flight (stale or already resolved).
func (c *Controller) Resolve(attempt Attempt, outcome Outcome) (Status, bool) {
	c.mu.Lock()
	if attempt.ID == 0 || attempt.ID != c.inFlight {
		status, inFlight := c.status, c.inFlight
		c.mu.Unlock()
		logging.Warn("Ignoring stale submission result",
			zap.Uint64("attempt", attempt.ID),
			zap.Uint64("in_flight", inFlight),
		)
		return status, false
	}

	c.inFlight = 0
	c.status = interpret(outcome)
	if c.status.Phase == PhaseSuccess {
		c.form.Reset()
	}
	status, observers := c.status, c.observers
	c.mu.Unlock()

	c.notify(attempt.ID, status, observers)
	return status, true
}

// Submit runs a whole attempt for the form's current draft and blocks until
// it resolves.
func (c *Controller) Submit(ctx context.Context) (Status, error) {
	attempt, err := c.Begin(c.form.Draft())
	if err != nil {
		return c.Status(), err
	}
	status, _ := c.Resolve(attempt, c.Execute(ctx, attempt))
	return status, nil
}

// interpret maps an outcome to the status shown to the user
func interpret(outcome Outcome) Status {
	if outcome.Err == nil {
		return succeeded(outcome.Receipt.Distance(), outcome.Receipt.Cost())
	}

	var apiErr *tripclient.APIError
	if errors.As(outcome.Err, &apiErr) {
		if apiErr.Message != "" {
			return failed(apiErr.Message, outcome.Err)
		}
		return failed(MessageFallbackError, outcome.Err)
	}

	return failed(MessageNetworkError, outcome.Err)
}

func (c *Controller) notify(attemptID uint64, status Status, observers []func(Status)) {
	logging.LogSubmission(attemptID, status.Phase.String(), status.Message)
	for _, fn := range observers {
		fn(status)
	}
}
