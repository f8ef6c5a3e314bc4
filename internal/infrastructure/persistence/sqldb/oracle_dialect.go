package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/folioview/folioview/internal/infrastructure/persistence/sqldb/migrations"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) Migrate(ctx context.Context, db *sql.DB) error {
	// Goose does not support Oracle natively in a way that is easy to
	// cross-compile with go-ora, so the schema ships as a plain script.
	content, err := migrations.OracleFS.ReadFile("oracle/20240101000000_init.sql")
	if err != nil {
		return fmt.Errorf("reading migration file: %w", err)
	}

	// Statements are separated by '/' as in standard Oracle scripts.
	statements := strings.Split(string(content), "/")

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// ORA-00955: name is already used by an existing object
			if !strings.Contains(err.Error(), "ORA-00955") {
				return fmt.Errorf("migrating: %s: %w", stmt, err)
			}
		}
	}
	return nil
}

func (d *OracleDialect) UpsertAsset(ctx context.Context, tx *sql.Tx, rec *assetRecord) error {
	query := `MERGE INTO assets a
             USING (SELECT :1 as id_val FROM dual) s
             ON (a.id = s.id_val)
             WHEN MATCHED THEN
               UPDATE SET
                 name = :2,
                 quantity = :3,
                 last_updated = :4,
                 current_price = :5,
                 daily_change = :6,
                 daily_change_percent = :7,
                 market_cap = :8,
                 dividend_yield = :9,
                 current_market_price = :10,
                 manual_price = :11
             WHEN NOT MATCHED THEN
               INSERT (` + assetColumns + `)
               VALUES (:12, :13, :14, :15, :16, :17, :18, :19, :20, :21, :22, :23, :24, :25, :26, :27, :28, :29, :30, :31, :32, :33, :34, :35, :36)`

	args := make([]interface{}, 0, 36)
	args = append(args, rec.ID)              // 1 (s.id_val)
	args = append(args, rec.updateArgs()...) // 2-11 (UPDATE)
	args = append(args, rec.insertArgs()...) // 12-36 (INSERT)

	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
