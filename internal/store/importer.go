package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kmehta/bahikhata/internal/ledger"
)

// ImportResult counts what a bulk import created.
type ImportResult struct {
	Ledgers  int `json:"ledgers"`
	Vouchers int `json:"vouchers"`
	Entries  int `json:"entries"`
}

// BulkImport replaces the company's books with the contents of an
// exported trial balance and transaction feed, in one transaction.
// Existing ledgers and vouchers are wiped first. Trial-balance rows
// become ledgers whose opening balances are authoritative: imported
// vouchers keep their source numbers and are NOT replayed through
// balance propagation, so current balances equal opening balances until
// RecomputeBalances or new postings move them. A row that cannot be
// mapped aborts the whole import.
func (s *Store) BulkImport(ctx context.Context, companyID string, tbRows []ledger.TrialBalanceRow, txnRows []ledger.TransactionRow) (*ImportResult, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := companyExists(ctx, tx, companyID); err != nil {
		return nil, err
	}

	for _, stmt := range []string{
		`DELETE FROM voucher_entries WHERE voucher_id IN (SELECT id FROM vouchers WHERE company_id = ?)`,
		`DELETE FROM vouchers WHERE company_id = ?`,
		`DELETE FROM ledgers WHERE company_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, companyID); err != nil {
			return nil, fmt.Errorf("wipe existing books: %w", err)
		}
	}

	res := &ImportResult{}
	nameToID := make(map[string]string)

	insertLedger := func(name string, group ledger.Group, opening string) (string, error) {
		id := uuid.Must(uuid.NewV7()).String()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ledgers (id, company_id, name, group_name, opening_balance, current_balance)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, companyID, name, string(group), opening, opening)
		if err != nil {
			return "", fmt.Errorf("insert ledger %q: %w", name, err)
		}
		nameToID[ledgerKey(name)] = id
		res.Ledgers++
		return id, nil
	}

	for i, row := range tbRows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			return nil, &ledger.ImportRowError{Row: i + 1, Name: row.Name, Reason: ledger.ErrLedgerNameRequired}
		}
		if _, dup := nameToID[ledgerKey(name)]; dup {
			continue
		}
		group, err := ledger.MapSourceGroup(row.Group, name)
		if err != nil {
			return nil, &ledger.ImportRowError{Row: i + 1, Name: name, Reason: err}
		}
		opening := ledger.SignedOpening(group, row.Debit, row.Credit)
		if _, err := insertLedger(name, group, opening.String()); err != nil {
			return nil, err
		}
	}

	// Feed rows naming an unknown ledger post to Suspense so the import
	// stays balanced and the mismatch stays visible.
	suspenseID, ok := nameToID[ledgerKey(ledger.SuspenseLedgerName)]
	if !ok {
		suspenseID, err = insertLedger(ledger.SuspenseLedgerName, ledger.GroupSuspense, "0")
		if err != nil {
			return nil, err
		}
	}

	type voucherGroup struct {
		number string
		rows   []ledger.TransactionRow
	}
	var groups []voucherGroup
	for i, row := range txnRows {
		number := strings.TrimSpace(row.VoucherNumber)
		if number == "" {
			if len(groups) == 0 {
				return nil, &ledger.ImportRowError{Row: i + 1, Name: row.LedgerName, Reason: ledger.ErrNoEntries}
			}
			last := &groups[len(groups)-1]
			last.rows = append(last.rows, row)
			continue
		}
		groups = append(groups, voucherGroup{number: number, rows: []ledger.TransactionRow{row}})
	}

	for _, g := range groups {
		head := g.rows[0]
		typ := ledger.MapSourceType(head.Type)
		narration := ""
		for _, r := range g.rows {
			if n := strings.TrimSpace(r.Narration); n != "" {
				narration = n
				break
			}
		}

		voucherID := uuid.Must(uuid.NewV7()).String()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO vouchers (id, company_id, voucher_type, voucher_number, date, narration, status, created_by)
			 VALUES (?, ?, ?, ?, ?, ?, 'active', 'import')`,
			voucherID, companyID, string(typ), g.number,
			head.Date.Format(ledger.DateLayout), narration)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, &ledger.ImportRowError{Row: 0, Name: g.number, Reason: ledger.ErrDuplicateVoucherNumber}
			}
			return nil, fmt.Errorf("insert voucher %s: %w", g.number, err)
		}
		res.Vouchers++

		for _, r := range g.rows {
			ledgerID, ok := nameToID[ledgerKey(r.LedgerName)]
			if !ok {
				ledgerID = suspenseID
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO voucher_entries (voucher_id, ledger_id, debit, credit) VALUES (?, ?, ?, ?)`,
				voucherID, ledgerID, r.Debit.String(), r.Credit.String()); err != nil {
				return nil, fmt.Errorf("insert entry on %s: %w", g.number, err)
			}
			res.Entries++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

func ledgerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
