// Package acl is the anti-corruption layer in front of the Fingrid open-data
// API. The upstream dataset document is decoded into unexported types and
// translated to dataset.Metadata; upstream statuses and transport failures
// become catalog errors from package dataset:
//
//   - 404 → DatasetNotFound
//   - 401 → UnauthorizedAccess
//   - 429 → RateLimitExceeded
//   - other non-2xx → ExternalAPIError
//   - malformed or null body → DeserializationFailure
//   - deadline, cancellation or net timeout → RequestTimeout
//   - other connectivity failures → NetworkError
//   - anything else, including an open circuit → ExternalAPIException
//
// Nothing upstream-shaped crosses the package boundary.
package acl
