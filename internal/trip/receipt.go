package trip

import (
	"errors"
	"time"
)

// EventTypeManual marks a trip typed in by hand.
const EventTypeManual = "trip_manual"

// ErrIncompleteReceipt is returned when a success response lacks the
// server-computed distance or cost.
var ErrIncompleteReceipt = errors.New("receipt missing delta_km or trip_cost_chf")

// Receipt is the success body of POST /trip. Distance and cost are computed by
// the server; the client only displays them.
type Receipt struct {
	ID           string   `json:"id,omitempty"`
	DeltaKM      *float64 `json:"delta_km"`
	TripCostCHF  *float64 `json:"trip_cost_chf"`
	EventType    string   `json:"event_type,omitempty"`
	Timestamp    string   `json:"timestamp,omitempty"`
	Confirmation string   `json:"confirmation,omitempty"`
}

// Validate checks that both computed amounts are present.
func (r *Receipt) Validate() error {
	if r == nil || r.DeltaKM == nil || r.TripCostCHF == nil {
		return ErrIncompleteReceipt
	}
	return nil
}

// Distance returns delta_km, or 0 when absent.
func (r *Receipt) Distance() float64 {
	if r == nil || r.DeltaKM == nil {
		return 0
	}
	return *r.DeltaKM
}

// Cost returns trip_cost_chf, or 0 when absent.
func (r *Receipt) Cost() float64 {
	if r == nil || r.TripCostCHF == nil {
		return 0
	}
	return *r.TripCostCHF
}

// Entry is one record of the trip history as listed by GET /trips and pushed
// over the live feed.
type Entry struct {
	ID          string    `json:"id"`
	LoggedAt    time.Time `json:"timestamp"`
	UserName    string    `json:"user_name"`
	StartKM     float64   `json:"start_km"`
	EndKM       float64   `json:"end_km"`
	DeltaKM     float64   `json:"delta_km"`
	TripCostCHF float64   `json:"trip_cost_chf"`
	EventType   string    `json:"event_type"`
	Comment     string    `json:"ledger_comment,omitempty"`
}
