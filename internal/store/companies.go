package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kmehta/bahikhata/internal/ledger"
)

func (s *Store) CreateCompany(ctx context.Context, c *ledger.Company) error {
	if c.Name == "" {
		return fmt.Errorf("company name is required")
	}
	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV7()).String()
	}

	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO companies (id, name, fy_start, fy_end) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, fyString(c.FYStart), fyString(c.FYEnd),
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (s *Store) GetCompany(ctx context.Context, id string) (*ledger.Company, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, name, fy_start, fy_end, created_at FROM companies WHERE id = ?`, id)
	return scanCompany(row)
}

func (s *Store) ListCompanies(ctx context.Context) ([]ledger.Company, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, name, fy_start, fy_end, created_at FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []ledger.Company
	for rows.Next() {
		var c ledger.Company
		var fyStart, fyEnd sql.NullString
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &fyStart, &fyEnd, &createdAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.FYStart = fyTime(fyStart)
		c.FYEnd = fyTime(fyEnd)
		c.CreatedAt = parseTimestamp(createdAt)
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// UpdateCompany changes the name and financial-year bounds.
func (s *Store) UpdateCompany(ctx context.Context, c *ledger.Company) error {
	res, err := s.writer.ExecContext(ctx,
		`UPDATE companies SET name = ?, fy_start = ?, fy_end = ? WHERE id = ?`,
		c.Name, fyString(c.FYStart), fyString(c.FYEnd), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ledger.ErrCompanyNotFound
	}
	return nil
}

// DeleteCompany removes a company and everything under it.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM voucher_entries WHERE voucher_id IN (SELECT id FROM vouchers WHERE company_id = ?)`, id); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vouchers WHERE company_id = ?`, id); err != nil {
		return fmt.Errorf("delete vouchers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ledgers WHERE company_id = ?`, id); err != nil {
		return fmt.Errorf("delete ledgers: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ledger.ErrCompanyNotFound
	}

	return tx.Commit()
}

func scanCompany(row *sql.Row) (*ledger.Company, error) {
	var c ledger.Company
	var fyStart, fyEnd sql.NullString
	var createdAt string
	err := row.Scan(&c.ID, &c.Name, &fyStart, &fyEnd, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan company: %w", err)
	}
	c.FYStart = fyTime(fyStart)
	c.FYEnd = fyTime(fyEnd)
	c.CreatedAt = parseTimestamp(createdAt)
	return &c, nil
}

func fyString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(ledger.DateLayout)
}

func fyTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(ledger.DateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}
