// Package ports defines the contracts between the application layer and the
// adapters that implement them. Ports take a context first and speak domain
// types only; upstream DTOs never cross them.
package ports

import (
	"context"

	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
	"github.com/jsamuelsen/api-integration/internal/domain/result"
)

// MetadataClient fetches dataset metadata from the upstream open-data API.
//
// Implementations never return a bare error: every upstream, transport and
// decoding failure is folded into a failed Result carrying a catalog error
// from package dataset.
type MetadataClient interface {
	FetchByID(ctx context.Context, id int) result.Of[*dataset.Metadata]
}
