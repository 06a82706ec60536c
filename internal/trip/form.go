package trip

import "sync"

// Form is the form state holder. It owns the current draft and hands out
// copies; it performs no validation and no I/O.
type Form struct {
	mu    sync.RWMutex
	draft Draft
}

// NewForm returns a form holding an empty draft.
func NewForm() *Form {
	return &Form{}
}

// NewFormWith returns a form prefilled with draft (e.g. a remembered user name).
func NewFormWith(draft Draft) *Form {
	return &Form{draft: draft}
}

// UpdateField replaces one field of the draft. The other fields are untouched.
// An unknown field leaves the draft unchanged and returns ErrUnknownField.
func (f *Form) UpdateField(field Field, raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := f.draft.With(field, raw)
	if err != nil {
		return err
	}
	f.draft = next
	return nil
}

// Reset restores the empty draft. Only the submission controller calls this,
// and only after the server confirmed the trip.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = Draft{}
}

// Draft returns the current draft.
func (f *Form) Draft() Draft {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.draft
}
