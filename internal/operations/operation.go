package operations

import (
	"context"

	"momo-engine/internal/loyalty"
	"momo-engine/internal/model"
)

// OperationHandler defines the contract for all calculation operations.
// Validate reports problems without producing output; Apply runs only when
// Validate returned no CRITICAL message.
type OperationHandler interface {
	Validate(ctx context.Context, op *model.Operation) []model.Message
	Apply(ctx context.Context, op *model.Operation) (any, []model.Message)
}

// Prefetcher is implemented by handlers that can load remote data for a whole
// batch before it is processed.
type Prefetcher interface {
	Prefetch(ctx context.Context, ops []model.Operation)
}

// TierSource provides business tier lists.
type TierSource interface {
	TiersOrDefault(ctx context.Context, businessID string) ([]loyalty.Tier, bool)
	Prefetch(ctx context.Context, businessIDs []string) map[string]error
}
