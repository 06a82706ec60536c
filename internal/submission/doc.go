// Package submission drives one trip submission from the form to the ledger
// API and back.
//
// The Controller owns a four-phase status (idle, loading, success, error).
// A submission is split at its only suspension point, the HTTP request, so an
// event loop can run the request elsewhere and apply the result on its own
// goroutine:
//
//	attempt, err := ctrl.Begin(form.Draft()) // status is loading on return
//	if errors.Is(err, submission.ErrSubmissionInFlight) {
//	    return
//	}
//	outcome := ctrl.Execute(ctx, attempt)   // the request; no state change
//	status, applied := ctrl.Resolve(attempt, outcome)
//
// Synchronous callers use Submit, which does all three.
//
// Each attempt carries a sequence id. Resolve ignores any outcome that does
// not belong to the attempt currently in flight, so a late or duplicated
// resolution can never overwrite newer state or reset the form twice.
//
// Nothing is retried. On error the form is left as it was so the user can
// correct it and submit again; on success the form is reset exactly once.
package submission
