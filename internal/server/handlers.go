package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Stigz/eigernordvan/internal/ledger"
	"github.com/Stigz/eigernordvan/internal/logging"
	"github.com/Stigz/eigernordvan/internal/trip"
)

// Error messages returned to clients.
const (
	msgInvalidJSON  = "invalid json payload"
	msgStoreFailed  = "failed to store trip"
	msgListFailed   = "failed to list trips"
	msgBodyTooLarge = "request body too large"
	msgBadLimit     = "limit must be a positive integer"
)

// errTrailingData rejects bodies with anything but whitespace after the object.
var errTrailingData = errors.New("unexpected data after JSON object")

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	Trips []trip.Entry `json:"trips"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeSubmission reads exactly one JSON object from body.
func decodeSubmission(body io.Reader, sub *ledger.Submission) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(sub); err != nil {
		return err
	}
	switch _, err := dec.Token(); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return errTrailingData
	}
}

// handleLogTrip serves POST /trip
func (s *Server) handleLogTrip(w http.ResponseWriter, r *http.Request) {
	var sub ledger.Submission
	if err := decodeSubmission(r.Body, &sub); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	entry, err := s.service.Log(r.Context(), sub)
	if err != nil {
		var invalid *ledger.ValidationError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Message)
			return
		}
		logging.Error("Failed to store trip", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgStoreFailed)
		return
	}

	writeJSON(w, http.StatusOK, ledger.ReceiptFor(entry))
}

// handleListTrips serves GET /trips
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	q := ledger.Query{UserName: r.URL.Query().Get("user")}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, msgBadLimit)
			return
		}
		q.Limit = limit
	}

	entries, err := s.service.List(r.Context(), q)
	if err != nil {
		logging.Error("Failed to list trips", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgListFailed)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Trips: entries})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
