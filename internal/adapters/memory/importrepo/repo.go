package importrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
	"github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/importrepo"
)

// Repo is an in-memory implementation of importrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.ImportID]domain.Import
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ImportID]domain.Import),
	}
}

func (r *Repo) Save(ctx context.Context, imp domain.Import) error {
	_ = ctx
	if imp.ID == "" {
		return importrepo.ErrAlreadyExists // treat empty ID as invalid; the service always assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[imp.ID]; ok {
		return importrepo.ErrAlreadyExists
	}
	r.byID[imp.ID] = cloneImport(imp)
	return nil
}

func (r *Repo) Get(ctx context.Context, id domain.ImportID) (domain.Import, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	imp, ok := r.byID[id]
	if !ok {
		return domain.Import{}, importrepo.ErrNotFound
	}
	return cloneImport(imp), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.ImportSummary, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ImportSummary, 0, len(r.byID))
	for _, imp := range r.byID {
		out = append(out, imp.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repo) ListSubscriptions(ctx context.Context, id domain.ImportID) ([]domain.Subscription, error) {
	imp, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return imp.Subscriptions, nil
}

// cloneImport copies the row slice; Subscription values themselves share nothing.
func cloneImport(imp domain.Import) domain.Import {
	out := imp
	out.Subscriptions = make([]domain.Subscription, len(imp.Subscriptions))
	copy(out.Subscriptions, imp.Subscriptions)
	return out
}
