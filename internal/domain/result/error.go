package result

import (
	"encoding/json"

	"github.com/jsamuelsen/api-integration/internal/domain"
)

// Error is an immutable description of a failure: a machine-readable code, a
// human-readable description and a kind.
//
// Error is comparable. Two constructed errors are equal iff their code,
// description and kind are equal. None is distinguished by an unexported
// marker, so it never equals a constructed error even when both have empty
// fields.
type Error struct {
	code        string
	description string
	kind        Kind
	set         bool
}

var (
	// None is the "no error" sentinel carried by successful results.
	// It is the zero value of Error.
	None = Error{}

	// NullValue is used when an operation that must produce a value got nil instead.
	NullValue = Failure("Error.NullValue", "Null value was provided")
)

func newError(code, description string, kind Kind) Error {
	return Error{code: code, description: description, kind: kind, set: true}
}

// Validation creates an error of KindValidation.
func Validation(code, description string) Error {
	return newError(code, description, KindValidation)
}

// NotFound creates an error of KindNotFound.
func NotFound(code, description string) Error {
	return newError(code, description, KindNotFound)
}

// Conflict creates an error of KindConflict.
func Conflict(code, description string) Error {
	return newError(code, description, KindConflict)
}

// RateLimit creates an error of KindRateLimit.
func RateLimit(code, description string) Error {
	return newError(code, description, KindRateLimit)
}

// Unauthorized creates an error of KindUnauthorized.
func Unauthorized(code, description string) Error {
	return newError(code, description, KindUnauthorized)
}

// Failure creates an error of KindFailure.
func Failure(code, description string) Error {
	return newError(code, description, KindFailure)
}

// Code returns the stable machine identifier.
func (e Error) Code() string {
	return e.code
}

// Description returns the human-readable description. Never nil; "" when absent.
func (e Error) Description() string {
	return e.description
}

// Kind returns the taxonomy entry.
func (e Error) Kind() Kind {
	return e.kind
}

// IsNone reports whether e is the None sentinel.
func (e Error) IsNone() bool {
	return e == None
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.IsNone() {
		return "no error"
	}

	if e.description == "" {
		return e.code
	}

	return e.code + ": " + e.description
}

// Unwrap returns the domain sentinel for the error's kind, enabling
// errors.Is(err, domain.ErrNotFound) and friends.
func (e Error) Unwrap() error {
	if e.IsNone() {
		return nil
	}

	switch e.kind {
	case KindValidation:
		return domain.ErrValidation
	case KindNotFound:
		return domain.ErrNotFound
	case KindConflict:
		return domain.ErrConflict
	case KindRateLimit:
		return domain.ErrRateLimited
	case KindUnauthorized:
		return domain.ErrUnauthorized
	default:
		return domain.ErrFailure
	}
}

// errorJSON is the wire shape of an Error.
type errorJSON struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
}

// MarshalJSON encodes the error as {"code","description","kind"}.
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorJSON{
		Code:        e.code,
		Description: e.description,
		Kind:        e.kind,
	})
}

// UnmarshalJSON decodes a constructed error from its wire shape.
func (e *Error) UnmarshalJSON(data []byte) error {
	var raw errorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = newError(raw.Code, raw.Description, raw.Kind)

	return nil
}
