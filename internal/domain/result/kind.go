package result

import "fmt"

// Kind classifies an Error. The set is closed; adapters map each kind to exactly
// one transport status.
type Kind int

const (
	// KindFailure is a generic or unclassified failure. It is the zero value.
	KindFailure Kind = iota

	// KindValidation means client input was malformed.
	KindValidation

	// KindNotFound means the requested resource is absent.
	KindNotFound

	// KindConflict means the request conflicts with current state.
	KindConflict

	// KindRateLimit means the request was throttled.
	KindRateLimit

	// KindUnauthorized means authentication was rejected.
	KindUnauthorized
)

var kindNames = map[Kind]string{
	KindFailure:      "Failure",
	KindValidation:   "Validation",
	KindNotFound:     "NotFound",
	KindConflict:     "Conflict",
	KindRateLimit:    "RateLimit",
	KindUnauthorized: "Unauthorized",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindFailure, KindValidation, KindNotFound, KindConflict, KindRateLimit, KindUnauthorized}
}

// String returns the kind name used in logs and JSON payloads.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind as its name.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown error kind %d", int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}

	return fmt.Errorf("unknown error kind %q", string(text))
}
