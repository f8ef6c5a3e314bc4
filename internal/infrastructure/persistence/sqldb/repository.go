package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/folioview/folioview/internal/domain"
)

// Repository is a SQL-backed domain.AssetRepository. FindAll returns
// assets in creation order, which is the store-defined feed order.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.Dialect.Migrate(context.Background(), r.db.DB)
}

func (r *Repository) Save(ctx context.Context, asset domain.Holding) error {
	rec, points := encodeAsset(asset)
	rec.CreatedAt = time.Now()

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.db.Dialect.UpsertAsset(ctx, tx, rec); err != nil {
			slog.Error("Failed to save asset", "asset_id", rec.ID, "error", err)
			return fmt.Errorf("upsert asset: %w", err)
		}

		// Chart history is replaced wholesale on each save.
		q := r.rebind("DELETE FROM asset_price_points WHERE asset_id = $1")
		if _, err := tx.ExecContext(ctx, q, rec.ID); err != nil {
			return fmt.Errorf("delete price points: %w", err)
		}

		q = r.rebind("INSERT INTO asset_price_points (asset_id, observed_at, price) VALUES ($1, $2, $3)")
		for _, pt := range points {
			if _, err := tx.ExecContext(ctx, q, rec.ID, pt.Time, pt.Price); err != nil {
				return fmt.Errorf("insert price point: %w", err)
			}
		}
		return nil
	})
}

func (r *Repository) FindByID(ctx context.Context, id string) (domain.Holding, error) {
	query := r.rebind(`SELECT ` + assetColumns + ` FROM assets WHERE id = $1`)

	var rec assetRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(rec.scanDest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAssetNotFound
	}
	if err != nil {
		slog.Error("Failed to find asset", "id", id, "error", err)
		return nil, fmt.Errorf("querying asset: %w", err)
	}

	points, err := r.loadPricePoints(ctx, id)
	if err != nil {
		return nil, err
	}

	return decodeAsset(&rec, points), nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Holding, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			slog.Error("Failed to close rows", "error", err)
		}
	}(rows)

	var records []*assetRecord
	for rows.Next() {
		var rec assetRecord
		if err := rows.Scan(rec.scanDest()...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pointsByAsset, err := r.loadAllPricePoints(ctx)
	if err != nil {
		return nil, err
	}

	assets := make([]domain.Holding, 0, len(records))
	for _, rec := range records {
		assets = append(assets, decodeAsset(rec, pointsByAsset[rec.ID]))
	}
	return assets, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := r.rebind("DELETE FROM asset_price_points WHERE asset_id = $1")
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete price points: %w", err)
		}

		q = r.rebind("DELETE FROM assets WHERE id = $1")
		res, err := tx.ExecContext(ctx, q, id)
		if err != nil {
			return fmt.Errorf("delete asset: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete asset: %w", err)
		}
		if affected == 0 {
			return domain.ErrAssetNotFound
		}
		return nil
	})
}

func (r *Repository) loadPricePoints(ctx context.Context, assetID string) ([]domain.PricePoint, error) {
	query := r.rebind("SELECT observed_at, price FROM asset_price_points WHERE asset_id = $1 ORDER BY observed_at")

	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("querying price points: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			slog.Error("Failed to close rows", "error", err)
		}
	}(rows)

	var points []domain.PricePoint
	for rows.Next() {
		var pt domain.PricePoint
		if err := rows.Scan(&pt.Time, &pt.Price); err != nil {
			return nil, fmt.Errorf("scanning price point: %w", err)
		}
		points = append(points, pt)
	}
	return points, rows.Err()
}

func (r *Repository) loadAllPricePoints(ctx context.Context) (map[string][]domain.PricePoint, error) {
	query := "SELECT asset_id, observed_at, price FROM asset_price_points ORDER BY asset_id, observed_at"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying price points: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			slog.Error("Failed to close rows", "error", err)
		}
	}(rows)

	byAsset := make(map[string][]domain.PricePoint)
	for rows.Next() {
		var assetID string
		var pt domain.PricePoint
		if err := rows.Scan(&assetID, &pt.Time, &pt.Price); err != nil {
			return nil, fmt.Errorf("scanning price point: %w", err)
		}
		byAsset[assetID] = append(byAsset[assetID], pt)
	}
	return byAsset, rows.Err()
}

func (r *Repository) rebind(query string) string {
	if r.db.Dialect.Name() == "oracle" {
		for i := 1; i <= 10; i++ {
			query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), fmt.Sprintf(":%d", i))
		}
	}
	return query
}
