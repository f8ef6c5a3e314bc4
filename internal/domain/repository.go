package domain

import "context"

// AssetRepository defines the interface for asset persistence. The feed
// treats the backing collection as owned by the store: it is re-read
// wholesale on each reload and written back only through the explicit
// mutation paths. FindAll returns assets in a stable store-defined
// order. All methods accept context.Context for timeout handling and
// cancellation propagation.
type AssetRepository interface {
	Save(ctx context.Context, asset Holding) error
	FindByID(ctx context.Context, id string) (Holding, error)
	FindAll(ctx context.Context) ([]Holding, error)
	Delete(ctx context.Context, id string) error
}
