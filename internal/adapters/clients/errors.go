// Package clients provides the instrumented HTTP client used to reach the
// upstream Fingrid API.
package clients

import "errors"

// ErrCircuitOpen is returned by Client.Do when the breaker rejects a request
// without contacting the upstream.
var ErrCircuitOpen = errors.New("circuit breaker open")
