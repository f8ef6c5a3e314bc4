package sqldb

import (
	"context"
	"database/sql"
)

// Dialect covers the statements that differ between backends: schema
// migration and the asset upsert. Everything else goes through rebind.
type Dialect interface {
	Name() string
	Migrate(ctx context.Context, db *sql.DB) error
	UpsertAsset(ctx context.Context, tx *sql.Tx, rec *assetRecord) error
}
