package acl

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/api-integration/internal/adapters/clients"
	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
	"github.com/jsamuelsen/api-integration/internal/domain/result"
)

// errNullPayload is returned by decodeJSON for a literal JSON null.
var errNullPayload = errors.New("upstream returned a null payload")

// MapStatus maps a non-2xx upstream status to a catalog error. Only the
// statuses the upstream documents get their own error.
func MapStatus(status int) result.Error {
	switch status {
	case http.StatusNotFound:
		return dataset.DatasetNotFound
	case http.StatusUnauthorized:
		return dataset.UnauthorizedAccess
	case http.StatusTooManyRequests:
		return dataset.RateLimitExceeded
	default:
		return dataset.ExternalAPIError
	}
}

// MapTransportError maps an error raised before a usable response body was
// in hand. Order matters: a timed-out dial is both a net.Error and a
// deadline, and must surface as a timeout.
func MapTransportError(err error) result.Error {
	var (
		netErr    net.Error
		urlErr    *url.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dataset.RequestTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return dataset.RequestTimeout
	case errors.Is(err, errNullPayload),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		return dataset.DeserializationFailure
	case errors.As(err, &urlErr):
		return dataset.NetworkError(urlErr.Err.Error())
	case errors.As(err, &netErr):
		return dataset.NetworkError(netErr.Error())
	default:
		// Circuit open, request construction and anything unforeseen.
		return dataset.ExternalAPIException
	}
}

// isCircuitOpen reports whether err is the client's breaker rejection.
func isCircuitOpen(err error) bool {
	return errors.Is(err, clients.ErrCircuitOpen)
}
