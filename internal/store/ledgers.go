package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/shopspring/decimal"
)

// CreateLedger inserts a ledger with current balance equal to its
// opening balance.
func (s *Store) CreateLedger(ctx context.Context, l *ledger.Ledger) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.Must(uuid.NewV7()).String()
	}
	l.CurrentBalance = l.OpeningBalance

	if _, err := s.GetCompany(ctx, l.CompanyID); err != nil {
		return err
	}

	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO ledgers (id, company_id, name, group_name, sub_group, opening_balance, current_balance, assigned_operator_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.CompanyID, l.Name, string(l.Group), l.SubGroup,
		l.OpeningBalance.String(), l.CurrentBalance.String(), l.AssignedOperatorID,
	)
	if err != nil {
		return fmt.Errorf("insert ledger: %w", err)
	}
	return nil
}

func (s *Store) GetLedger(ctx context.Context, id string) (*ledger.Ledger, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, company_id, name, group_name, sub_group, opening_balance, current_balance, assigned_operator_id, created_at
		 FROM ledgers WHERE id = ?`, id)
	return scanLedger(row.Scan)
}

func (s *Store) ListLedgers(ctx context.Context, companyID string, filter LedgerFilter) ([]ledger.Ledger, error) {
	query := `SELECT id, company_id, name, group_name, sub_group, opening_balance, current_balance, assigned_operator_id, created_at
		FROM ledgers WHERE company_id = ?`
	args := []any{companyID}

	if filter.Group != "" {
		query += ` AND group_name = ?`
		args = append(args, string(filter.Group))
	}

	query += ` ORDER BY name`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
		}
	}

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []ledger.Ledger
	for rows.Next() {
		l, err := scanLedger(rows.Scan)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, *l)
	}
	return ledgers, rows.Err()
}

// DeleteLedger removes a ledger that has never been posted to. Any
// referencing entry, even a zeroed one on a cancelled voucher, blocks
// deletion.
func (s *Store) DeleteLedger(ctx context.Context, id string) error {
	if _, err := s.GetLedger(ctx, id); err != nil {
		return err
	}

	var count int
	err := s.reader.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM voucher_entries WHERE ledger_id = ?`, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("check entries: %w", err)
	}
	if count > 0 {
		return ledger.ErrLedgerHasTransactions
	}

	_, err = s.writer.ExecContext(ctx, `DELETE FROM ledgers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ledger: %w", err)
	}
	return nil
}

// RecomputeBalances folds every active entry per ledger and compares
// the result against the cached balance. With repair set, drifted
// caches are rewritten to the computed value.
func (s *Store) RecomputeBalances(ctx context.Context, companyID string, repair bool) ([]ledger.BalanceDrift, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, group_name, opening_balance, current_balance FROM ledgers WHERE company_id = ? ORDER BY name`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}

	type ledgerRow struct {
		id, name string
		group    ledger.Group
		opening  decimal.Decimal
		stored   decimal.Decimal
	}
	var all []ledgerRow
	for rows.Next() {
		var lr ledgerRow
		var group, opening, stored string
		if err := rows.Scan(&lr.id, &lr.name, &group, &opening, &stored); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		lr.group = ledger.Group(group)
		if lr.opening, err = parseAmount(opening); err != nil {
			rows.Close()
			return nil, err
		}
		if lr.stored, err = parseAmount(stored); err != nil {
			rows.Close()
			return nil, err
		}
		all = append(all, lr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var drifts []ledger.BalanceDrift
	for _, lr := range all {
		entryRows, err := tx.QueryContext(ctx,
			`SELECT e.debit, e.credit FROM voucher_entries e
			 JOIN vouchers v ON v.id = e.voucher_id
			 WHERE e.ledger_id = ? AND v.status = 'active'`, lr.id)
		if err != nil {
			return nil, fmt.Errorf("load entries: %w", err)
		}

		nature := ledger.NatureOf(lr.group)
		computed := lr.opening
		for entryRows.Next() {
			var debitStr, creditStr string
			if err := entryRows.Scan(&debitStr, &creditStr); err != nil {
				entryRows.Close()
				return nil, fmt.Errorf("scan entry: %w", err)
			}
			debit, err := parseAmount(debitStr)
			if err != nil {
				entryRows.Close()
				return nil, err
			}
			credit, err := parseAmount(creditStr)
			if err != nil {
				entryRows.Close()
				return nil, err
			}
			computed = computed.Add(ledger.EntryDelta(nature, debit, credit))
		}
		if err := entryRows.Err(); err != nil {
			entryRows.Close()
			return nil, err
		}
		entryRows.Close()

		if !computed.Equal(lr.stored) {
			drifts = append(drifts, ledger.BalanceDrift{
				LedgerID:   lr.id,
				LedgerName: lr.name,
				Stored:     lr.stored,
				Computed:   computed,
			})
			if repair {
				if _, err := tx.ExecContext(ctx,
					`UPDATE ledgers SET current_balance = ? WHERE id = ?`,
					computed.String(), lr.id); err != nil {
					return nil, fmt.Errorf("repair balance: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return drifts, nil
}

func scanLedger(scan func(...any) error) (*ledger.Ledger, error) {
	var l ledger.Ledger
	var group, opening, current, createdAt string
	err := scan(&l.ID, &l.CompanyID, &l.Name, &group, &l.SubGroup, &opening, &current, &l.AssignedOperatorID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrLedgerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	l.Group = ledger.Group(group)
	if l.OpeningBalance, err = parseAmount(opening); err != nil {
		return nil, err
	}
	if l.CurrentBalance, err = parseAmount(current); err != nil {
		return nil, err
	}
	l.CreatedAt = parseTimestamp(createdAt)
	return &l, nil
}
