package fault

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

type Kind int

const (
	Unknown Kind = iota
	Validation
	Unauthorized
	Forbidden
	Upstream
	Transport
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case Upstream:
		return "upstream"
	case Transport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the one error shape handlers reason about. Status and Body are set
// for Upstream faults, Fields for Validation faults.
type Error struct {
	Kind   Kind
	Status int
	Body   []byte
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case Upstream:
		return fmt.Sprintf("external api responded %d", e.Status)
	case Validation:
		return fmt.Sprintf("invalid input: %v", e.Fields)
	}
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Details returns the upstream body as JSON when it is JSON, as text when it
// is not, and nil when it is empty.
func (e *Error) Details() any {
	trimmed := strings.TrimSpace(string(e.Body))
	if trimmed == "" {
		return nil
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	return trimmed
}

func NewUpstream(status int, body []byte) *Error {
	return &Error{Kind: Upstream, Status: status, Body: body}
}

func NewTransport(err error) *Error {
	return &Error{Kind: Transport, Status: http.StatusServiceUnavailable, Err: err}
}

func NewValidation(fields map[string]string) *Error {
	return &Error{Kind: Validation, Status: http.StatusBadRequest, Fields: fields}
}

func NewUnauthorized() *Error {
	return &Error{Kind: Unauthorized, Status: http.StatusUnauthorized}
}

func NewForbidden() *Error {
	return &Error{Kind: Forbidden, Status: http.StatusForbidden}
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	if target, ok := As(err); ok {
		return target.Kind
	}
	return Unknown
}

// StatusOf reports the upstream status of err, or 0 if err is not an upstream fault.
func StatusOf(err error) int {
	if target, ok := As(err); ok && target.Kind == Upstream {
		return target.Status
	}
	return 0
}
