// Package dataset holds the dataset metadata entity and the errors raised
// while fetching it from the upstream open-data API.
package dataset

import "github.com/jsamuelsen/api-integration/internal/domain/result"

// Catalog of upstream integration errors. These are process-wide values and
// must not be modified.
//
// InvalidFormat and ZeroOrNegative share a code on purpose: both report a bad
// dataset ID, and clients key on the code.
var (
	DatasetNotFound = result.NotFound("Dataset.NotFound",
		"The requested dataset was not found.")

	InvalidFormat = result.Validation("Dataset.InvalidFormat",
		"The requested dataset ID has an invalid format.")

	ZeroOrNegative = result.Validation("Dataset.InvalidFormat",
		"The dataset ID can't be 0 or smaller.")

	DatasetIDRequired = result.Validation("Dataset.IdRequired",
		"Dataset ID is required. Please provide a valid dataset ID in the URL.")

	ExternalAPIError = result.Failure("ExternalApi.Error",
		"External API returned an error.")

	DeserializationFailure = result.Failure("Deserialization.Failure",
		"Failed to deserialize response from external API.")

	ExternalAPIException = result.Failure("ExternalApi.Exception",
		"An exception occurred while calling the external API.")

	// UnauthorizedAccess is a Failure, not KindUnauthorized: an upstream key
	// rejection is our misconfiguration, not the caller's.
	UnauthorizedAccess = result.Failure("ExternalApi.Unauthorized",
		"Unauthorized access to the external API.")

	RateLimitExceeded = result.RateLimit("ExternalApi.RateLimitExceeded",
		"Rate limit exceeded when accessing the external API.")

	RequestTimeout = result.Failure("ExternalApi.RequestTimeout",
		"The request to the external API timed out.")
)

// NetworkErrorCode is the code of every error built by NetworkError.
const NetworkErrorCode = "ExternalApi.NetworkError"

// NetworkError reports a transport-level failure talking to the upstream API.
func NetworkError(message string) result.Error {
	return result.Failure(NetworkErrorCode, "Network error occurred: "+message)
}

// Catalog returns the named catalog errors in declaration order.
func Catalog() []result.Error {
	return []result.Error{
		DatasetNotFound,
		InvalidFormat,
		ZeroOrNegative,
		DatasetIDRequired,
		ExternalAPIError,
		DeserializationFailure,
		ExternalAPIException,
		UnauthorizedAccess,
		RateLimitExceeded,
		RequestTimeout,
	}
}
