package memory

import (
	"context"
	"sync"

	"github.com/folioview/folioview/internal/domain"
)

// AssetRepository is an in-memory domain.AssetRepository. FindAll
// returns assets in insertion order, which is the store-defined feed
// order.
type AssetRepository struct {
	mu     sync.RWMutex
	order  []string
	assets map[string]domain.Holding
}

func NewAssetRepository() *AssetRepository {
	return &AssetRepository{
		assets: make(map[string]domain.Holding),
	}
}

func (r *AssetRepository) Save(ctx context.Context, asset domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := asset.Base().ID
	if _, exists := r.assets[id]; !exists {
		r.order = append(r.order, id)
	}
	r.assets[id] = asset
	return nil
}

func (r *AssetRepository) FindByID(ctx context.Context, id string) (domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, domain.ErrAssetNotFound
	}
	return asset, nil
}

func (r *AssetRepository) FindAll(ctx context.Context) ([]domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := make([]domain.Holding, 0, len(r.order))
	for _, id := range r.order {
		assets = append(assets, r.assets[id])
	}
	return assets, nil
}

func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[id]; !exists {
		return domain.ErrAssetNotFound
	}

	delete(r.assets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
