package submission

import "fmt"

// Phase is the lifecycle position of the most recent submission.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// User-facing status messages.
const (
	MessageLoading       = "Logging trip..."
	MessageFallbackError = "Something went wrong."
	MessageNetworkError  = "Network error. Please try again."
)

// Status is the outcome of the most recent submission attempt.
type Status struct {
	Phase   Phase
	Message string
	// Err is the failure behind PhaseError, nil otherwise.
	Err error
}

// IsLoading reports whether an attempt is in flight.
func (s Status) IsLoading() bool {
	return s.Phase == PhaseLoading
}

// SuccessMessage formats the confirmation shown after a trip is logged.
func SuccessMessage(deltaKM, costCHF float64) string {
	return fmt.Sprintf("Trip logged. Distance: %.1f km · Cost: CHF %.2f", deltaKM, costCHF)
}

func idle() Status {
	return Status{Phase: PhaseIdle}
}

func loading() Status {
	return Status{Phase: PhaseLoading, Message: MessageLoading}
}

func succeeded(deltaKM, costCHF float64) Status {
	return Status{Phase: PhaseSuccess, Message: SuccessMessage(deltaKM, costCHF)}
}

func failed(message string, err error) Status {
	return Status{Phase: PhaseError, Message: message, Err: err}
}
