package importrepo

import (
	"context"

	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
)

// Repository stores import batches. An import is written once and never updated.
//
// Result ordering expectations:
// - List returns newest first (CreatedAt descending, then ID ascending).
// - ListSubscriptions returns rows in source file order.
type Repository interface {
	Save(ctx context.Context, imp domain.Import) error

	Get(ctx context.Context, id domain.ImportID) (domain.Import, error)
	List(ctx context.Context) ([]domain.ImportSummary, error)
	ListSubscriptions(ctx context.Context, id domain.ImportID) ([]domain.Subscription, error)
}
