package trip

import (
	"errors"
	"fmt"
)

// Field names a draft input. The values double as the JSON keys of the request.
type Field string

const (
	FieldUserName Field = "user_name"
	FieldStartKM  Field = "start_km"
	FieldEndKM    Field = "end_km"
)

// Fields lists the draft inputs in display order.
var Fields = []Field{FieldUserName, FieldStartKM, FieldEndKM}

// ErrUnknownField is returned when an edit names a field outside Fields.
var ErrUnknownField = errors.New("unknown trip field")

// Draft is the unsubmitted trip exactly as typed.
// It is a value: edits produce a new Draft and leave the receiver untouched.
type Draft struct {
	UserName string
	StartKM  string
	EndKM    string
}

// With returns a copy of d with field set to value. Any string is accepted,
// including partial numbers like "12." or "-".
func (d Draft) With(field Field, value string) (Draft, error) {
	switch field {
	case FieldUserName:
		d.UserName = value
	case FieldStartKM:
		d.StartKM = value
	case FieldEndKM:
		d.EndKM = value
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	return d, nil
}

// Get returns the raw value of field, or "" for an unknown field.
func (d Draft) Get(field Field) string {
	switch field {
	case FieldUserName:
		return d.UserName
	case FieldStartKM:
		return d.StartKM
	case FieldEndKM:
		return d.EndKM
	default:
		return ""
	}
}

// IsEmpty reports whether every field is the empty string.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}
