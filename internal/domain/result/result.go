// Package result provides the success/failure container used to carry domain
// outcomes across layers without panics or bare error strings.
//
// A Result is either a success, carrying the None error, or a failure,
// carrying a real Error. Of[T] adds a value that is present only on success.
// Constructors enforce the invariant; violating it is a programming error and
// panics.
package result

import (
	"errors"
	"reflect"
)

// Programming-error signals. These are panicked, never returned: they mean the
// caller misused the API, not that a domain operation failed.
var (
	// ErrSuccessWithError is panicked when a success is built with a real error.
	ErrSuccessWithError = errors.New("a successful result cannot have an error")

	// ErrFailureWithoutError is panicked when a failure is built with None.
	ErrFailureWithoutError = errors.New("a failure result must have an error")

	// ErrValueOfFailure is panicked when Value is called on a failure.
	ErrValueOfFailure = errors.New("the value of a failure result can't be accessed")
)

// Outcome is implemented by Result and every Of[T]. Failure-handling code
// accepts an Outcome so it works on typed and untyped results alike.
type Outcome interface {
	IsSuccess() bool
	IsFailure() bool
	Err() Error
}

// Result is an untyped outcome. The zero Result is a success.
type Result struct {
	failed bool
	err    Error
}

var _ Outcome = Result{}

func newResult(success bool, err Error) Result {
	if success && !err.IsNone() {
		panic(ErrSuccessWithError)
	}

	if !success && err.IsNone() {
		panic(ErrFailureWithoutError)
	}

	return Result{failed: !success, err: err}
}

// Success returns a successful Result.
func Success() Result {
	return newResult(true, None)
}

// Failed returns a failed Result. Panics if err is None.
func Failed(err Error) Result {
	return newResult(false, err)
}

// FromError coerces a raw error into a failed Result. Panics if err is None.
func FromError(err Error) Result {
	return Failed(err)
}

// IsSuccess reports whether the result is a success.
func (r Result) IsSuccess() bool {
	return !r.failed
}

// IsFailure reports whether the result is a failure.
func (r Result) IsFailure() bool {
	return r.failed
}

// Err returns the failure's error, or None on success.
func (r Result) Err() Error {
	return r.err
}

// Of is a typed outcome. It embeds Result, so it is usable wherever an
// Outcome is expected. The zero Of[T] is a success holding the zero T.
type Of[T any] struct {
	Result

	value T
}

var _ Outcome = Of[int]{}

// Ok returns a successful typed result holding v. A nil v is allowed here;
// use FromNullable to treat nil as a failure.
func Ok[T any](v T) Of[T] {
	return Of[T]{Result: newResult(true, None), value: v}
}

// Fail returns a failed typed result. Panics if err is None.
func Fail[T any](err Error) Of[T] {
	return Of[T]{Result: newResult(false, err)}
}

// FromNullable returns Ok(v), unless v is nil, in which case it returns
// Fail(NullValue). Non-nilable types always succeed.
func FromNullable[T any](v T) Of[T] {
	if isNil(v) {
		return Fail[T](NullValue)
	}

	return Ok(v)
}

// Value returns the held value. Panics with ErrValueOfFailure on a failure;
// branch on IsSuccess or use Get first.
func (r Of[T]) Value() T {
	if r.failed {
		panic(ErrValueOfFailure)
	}

	return r.value
}

// Get returns the value and true on success, or the zero T and false on failure.
func (r Of[T]) Get() (T, bool) {
	if r.failed {
		var zero T
		return zero, false
	}

	return r.value, true
}

// Untyped drops the value and returns the underlying Result.
func (r Of[T]) Untyped() Result {
	return r.Result
}

// Match calls onSuccess with the value or onFailure with the error.
func Match[T, R any](r Of[T], onSuccess func(T) R, onFailure func(Error) R) R {
	if r.failed {
		return onFailure(r.err)
	}

	return onSuccess(r.value)
}

// Map transforms the value of a success and passes failures through unchanged.
func Map[T, U any](r Of[T], fn func(T) U) Of[U] {
	if r.failed {
		return Fail[U](r.err)
	}

	return Ok(fn(r.value))
}

// isNil reports whether v holds a nil of a nilable kind.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func,
		reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
