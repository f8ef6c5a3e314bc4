package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/folioview/folioview/internal/infrastructure/persistence/sqldb/migrations"
	"github.com/pressly/goose/v3"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.PostgresFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (d *PostgresDialect) UpsertAsset(ctx context.Context, tx *sql.Tx, rec *assetRecord) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			quantity = EXCLUDED.quantity,
			last_updated = EXCLUDED.last_updated,
			current_price = EXCLUDED.current_price,
			daily_change = EXCLUDED.daily_change,
			daily_change_percent = EXCLUDED.daily_change_percent,
			market_cap = EXCLUDED.market_cap,
			dividend_yield = EXCLUDED.dividend_yield,
			current_market_price = EXCLUDED.current_market_price,
			manual_price = EXCLUDED.manual_price
	`
	_, err := tx.ExecContext(ctx, query, rec.insertArgs()...)
	return err
}
