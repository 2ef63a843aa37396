package dto

// Envelope is the success payload. It mirrors the failure payload's
// isSuccess/isFailure members so clients see one shape.
type Envelope[T any] struct {
	IsSuccess bool `json:"isSuccess"`
	IsFailure bool `json:"isFailure"`
	Value     T    `json:"value"`
}

// NewEnvelope wraps a successful value.
func NewEnvelope[T any](value T) Envelope[T] {
	return Envelope[T]{IsSuccess: true, IsFailure: false, Value: value}
}
