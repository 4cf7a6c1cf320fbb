package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kmehta/bahikhata/internal/ledger"
)

// LedgerStatement builds the activity statement for one ledger over
// [from, to]. The stored opening balance is folded forward over the
// active entries dated before the period, then each in-period entry
// extends the running balance by its nature-aware delta. Cancelled
// vouchers are excluded entirely; their zeroed entries never appear.
func (s *Store) LedgerStatement(ctx context.Context, ledgerID string, from, to time.Time) (*ledger.Statement, error) {
	l, err := s.GetLedger(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	if to.IsZero() {
		to = time.Now().UTC()
	}
	nature := l.Nature()

	opening := l.OpeningBalance
	rows, err := s.reader.QueryContext(ctx,
		`SELECT e.debit, e.credit FROM voucher_entries e
		 JOIN vouchers v ON v.id = e.voucher_id
		 WHERE e.ledger_id = ? AND v.status = 'active' AND v.date < ?`,
		ledgerID, from.Format(ledger.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("fold opening: %w", err)
	}
	for rows.Next() {
		var debitStr, creditStr string
		if err := rows.Scan(&debitStr, &creditStr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		debit, err := parseAmount(debitStr)
		if err != nil {
			rows.Close()
			return nil, err
		}
		credit, err := parseAmount(creditStr)
		if err != nil {
			rows.Close()
			return nil, err
		}
		opening = opening.Add(ledger.EntryDelta(nature, debit, credit))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	stmt := &ledger.Statement{
		LedgerID:       l.ID,
		LedgerName:     l.Name,
		Group:          l.Group,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		ClosingBalance: opening,
	}

	entryRows, err := s.reader.QueryContext(ctx,
		`SELECT e.id, v.id, v.voucher_number, v.voucher_type, v.date, e.debit, e.credit
		 FROM voucher_entries e
		 JOIN vouchers v ON v.id = e.voucher_id
		 WHERE e.ledger_id = ? AND v.status = 'active' AND v.date >= ? AND v.date <= ?
		 ORDER BY v.date, v.created_at, e.id`,
		ledgerID, from.Format(ledger.DateLayout), to.Format(ledger.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("statement rows: %w", err)
	}
	defer entryRows.Close()

	balance := opening
	particulars := map[string]string{}
	for entryRows.Next() {
		var row ledger.StatementRow
		var typ, date, debitStr, creditStr string
		if err := entryRows.Scan(&row.EntryID, &row.VoucherID, &row.VoucherNumber, &typ, &date, &debitStr, &creditStr); err != nil {
			return nil, fmt.Errorf("scan statement row: %w", err)
		}
		row.VoucherType = ledger.VoucherType(typ)
		if row.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if row.Debit, err = parseAmount(debitStr); err != nil {
			return nil, err
		}
		if row.Credit, err = parseAmount(creditStr); err != nil {
			return nil, err
		}

		counterparty, ok := particulars[row.VoucherID]
		if !ok {
			counterparty, err = s.counterpartyNames(ctx, row.VoucherID, ledgerID)
			if err != nil {
				return nil, err
			}
			particulars[row.VoucherID] = counterparty
		}
		if row.Debit.IsPositive() {
			row.Particulars = "To " + counterparty
		} else {
			row.Particulars = "By " + counterparty
		}

		balance = balance.Add(ledger.EntryDelta(nature, row.Debit, row.Credit))
		row.Balance = balance
		stmt.Rows = append(stmt.Rows, row)
	}
	if err := entryRows.Err(); err != nil {
		return nil, err
	}

	stmt.ClosingBalance = balance
	return stmt, nil
}

// counterpartyNames joins the names of the other ledgers on a voucher.
// A voucher whose only entries touch this ledger reads as "Self".
func (s *Store) counterpartyNames(ctx context.Context, voucherID, ledgerID string) (string, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT DISTINCT l.name FROM voucher_entries e
		 JOIN ledgers l ON l.id = e.ledger_id
		 WHERE e.voucher_id = ? AND e.ledger_id != ?
		 ORDER BY l.name`, voucherID, ledgerID)
	if err != nil {
		return "", fmt.Errorf("counterparty names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "Self", nil
	}
	return strings.Join(names, ", "), nil
}

// DayBook lists every voucher of the company dated within [from, to],
// entries included, in posting order. Cancelled vouchers stay visible
// here; the day book is the audit view.
func (s *Store) DayBook(ctx context.Context, companyID string, from, to time.Time) ([]ledger.Voucher, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}

	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, company_id, voucher_type, voucher_number, date, narration, status, created_by, created_at
		 FROM vouchers
		 WHERE company_id = ? AND date >= ? AND date <= ?
		 ORDER BY date, created_at`,
		companyID, from.Format(ledger.DateLayout), to.Format(ledger.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("day book: %w", err)
	}
	defer rows.Close()

	var vouchers []ledger.Voucher
	for rows.Next() {
		var v ledger.Voucher
		var typ, status, date, createdAt string
		if err := rows.Scan(&v.ID, &v.CompanyID, &typ, &v.Number, &date, &v.Narration, &status, &v.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		v.Type = ledger.VoucherType(typ)
		v.Status = ledger.Status(status)
		if v.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		v.CreatedAt = parseTimestamp(createdAt)
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range vouchers {
		entries, err := s.entriesForVoucher(ctx, vouchers[i].ID)
		if err != nil {
			return nil, err
		}
		vouchers[i].Entries = entries
	}
	return vouchers, nil
}

// ListVouchers returns the company's vouchers without entries, newest
// first, optionally filtered by type.
func (s *Store) ListVouchers(ctx context.Context, companyID string, typ ledger.VoucherType, limit int) ([]ledger.Voucher, error) {
	query := `SELECT id, company_id, voucher_type, voucher_number, date, narration, status, created_by, created_at
		FROM vouchers WHERE company_id = ?`
	args := []any{companyID}
	if typ != "" {
		query += ` AND voucher_type = ?`
		args = append(args, string(typ))
	}
	query += ` ORDER BY date DESC, created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []ledger.Voucher
	for rows.Next() {
		var v ledger.Voucher
		var vtyp, status, date, createdAt string
		if err := rows.Scan(&v.ID, &v.CompanyID, &vtyp, &v.Number, &date, &v.Narration, &status, &v.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		v.Type = ledger.VoucherType(vtyp)
		v.Status = ledger.Status(status)
		if v.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		v.CreatedAt = parseTimestamp(createdAt)
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}
