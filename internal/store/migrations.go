package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			fy_start   TEXT,
			fy_end     TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,

		// Amounts are decimal strings; arithmetic happens in Go, never in SQL.
		`CREATE TABLE IF NOT EXISTS ledgers (
			id                   TEXT PRIMARY KEY,
			company_id           TEXT NOT NULL REFERENCES companies(id),
			name                 TEXT NOT NULL,
			group_name           TEXT NOT NULL,
			sub_group            TEXT NOT NULL DEFAULT '',
			opening_balance      TEXT NOT NULL DEFAULT '0',
			current_balance      TEXT NOT NULL DEFAULT '0',
			assigned_operator_id TEXT NOT NULL DEFAULT '',
			created_at           TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledgers_company ON ledgers(company_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ledgers_company_name ON ledgers(company_id, name)`,

		// The unique index is the backstop against two concurrent creates
		// allocating the same sequential number.
		`CREATE TABLE IF NOT EXISTS vouchers (
			id             TEXT PRIMARY KEY,
			company_id     TEXT NOT NULL REFERENCES companies(id),
			voucher_type   TEXT NOT NULL,
			voucher_number TEXT NOT NULL,
			date           TEXT NOT NULL,
			narration      TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','cancelled')),
			created_by     TEXT NOT NULL DEFAULT '',
			created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			UNIQUE (company_id, voucher_type, voucher_number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vouchers_company_date ON vouchers(company_id, date)`,

		`CREATE TABLE IF NOT EXISTS voucher_entries (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			voucher_id TEXT NOT NULL REFERENCES vouchers(id),
			ledger_id  TEXT NOT NULL REFERENCES ledgers(id),
			debit      TEXT NOT NULL DEFAULT '0',
			credit     TEXT NOT NULL DEFAULT '0'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_voucher ON voucher_entries(voucher_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_ledger ON voucher_entries(ledger_id)`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec statement %d: %w", i, err)
		}
	}

	return nil
}
