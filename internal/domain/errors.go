package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrNetwork            = errors.New("network error")
	ErrServer             = errors.New("unexpected server response")
)

// Error is a classified failure of a client operation or a form check.
type Error struct {
	// Op names the operation, e.g. "login" or "book tickets".
	Op string
	// Kind is one of the sentinel errors above.
	Kind error
	// Status is the HTTP status when the failure came from the backend.
	Status int
	// Message is the server's (or validator's) human readable message.
	Message string
	// Fields maps field names to a single message each.
	Fields map[string]string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		b.WriteString(" [")
		b.WriteString(strings.Join(parts, "; "))
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is matches the error kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FieldErrors extracts per-field messages from err, if it carries any.
func FieldErrors(err error) map[string]string {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Fields
	}
	return nil
}
