package driven

import (
	"context"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// AssetAPI is the backend asset-lookup service
type AssetAPI interface {
	// Search looks up asset records. Transport failures are returned as
	// domain.ErrTimeout or domain.ErrServiceUnavailable.
	Search(ctx context.Context, query domain.AssetQuery) (*domain.AssetSearchResponse, error)
}
