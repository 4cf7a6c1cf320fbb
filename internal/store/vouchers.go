package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/shopspring/decimal"
)

// VoucherUpdate carries the replacement header fields and entry lines
// for an update. Type and company are immutable once a voucher is
// numbered.
type VoucherUpdate struct {
	Date      time.Time
	Narration string
	Lines     []ledger.EntryLine
}

// txLedger is a ledger's balance state loaded inside an engine
// transaction. Deltas accumulate on balance; dirty ledgers are written
// back once before commit.
type txLedger struct {
	id      string
	company string
	name    string
	group   ledger.Group
	balance decimal.Decimal
	dirty   bool
}

type rawEntry struct {
	ledgerID string
	debit    decimal.Decimal
	credit   decimal.Decimal
}

// CreateVoucher validates, numbers, and persists a voucher and applies
// its balance deltas, all in one transaction.
func (s *Store) CreateVoucher(ctx context.Context, draft ledger.Draft) (*ledger.Voucher, error) {
	if !ledger.ValidVoucherType(draft.Type) {
		return nil, ledger.ErrInvalidVoucherType
	}
	if err := ledger.ValidateLines(draft.Lines); err != nil {
		return nil, err
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := companyExists(ctx, tx, draft.CompanyID); err != nil {
		return nil, err
	}

	ledgers, err := loadTxLedgers(ctx, tx, ledgerIDsOf(draft.Lines))
	if err != nil {
		return nil, err
	}
	for _, l := range ledgers {
		if l.company != draft.CompanyID {
			return nil, ledger.ErrWrongCompany
		}
	}

	// Negative-cash guard: the projection aggregates every line touching
	// the same cash ledger, and runs before any write.
	if err := checkCashProjection(ledgers, nil, draft.Lines); err != nil {
		return nil, err
	}

	number, err := nextVoucherNumber(ctx, tx, draft.CompanyID, draft.Type)
	if err != nil {
		return nil, err
	}

	v := &ledger.Voucher{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CompanyID: draft.CompanyID,
		Type:      draft.Type,
		Number:    number,
		Date:      draft.Date,
		Narration: draft.Narration,
		Status:    ledger.StatusActive,
		CreatedBy: draft.CreatedBy,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO vouchers (id, company_id, voucher_type, voucher_number, date, narration, status, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.CompanyID, string(v.Type), v.Number,
		v.Date.Format(ledger.DateLayout), v.Narration, string(v.Status), v.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ledger.ErrDuplicateVoucherNumber
		}
		return nil, fmt.Errorf("insert voucher: %w", err)
	}

	if err := insertEntries(ctx, tx, v.ID, draft.Lines); err != nil {
		return nil, err
	}

	applyLines(ledgers, draft.Lines, false)
	if err := writeBalances(ctx, tx, ledgers); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.GetVoucher(ctx, v.ID)
}

// UpdateVoucher atomically reverses the old entries, replaces header
// and entries, and reapplies the new ones. Updating a cancelled voucher
// reactivates it with the fresh entries.
func (s *Store) UpdateVoucher(ctx context.Context, voucherID string, upd VoucherUpdate) error {
	if err := ledger.ValidateLines(upd.Lines); err != nil {
		return err
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var companyID string
	err = tx.QueryRowContext(ctx,
		`SELECT company_id FROM vouchers WHERE id = ?`, voucherID).Scan(&companyID)
	if err == sql.ErrNoRows {
		return ledger.ErrVoucherNotFound
	}
	if err != nil {
		return fmt.Errorf("load voucher: %w", err)
	}

	if err := checkFinancialYear(ctx, tx, companyID, upd.Date); err != nil {
		return err
	}

	oldEntries, err := loadRawEntries(ctx, tx, voucherID)
	if err != nil {
		return err
	}

	ids := ledgerIDsOf(upd.Lines)
	for _, e := range oldEntries {
		ids = append(ids, e.ledgerID)
	}
	ledgers, err := loadTxLedgers(ctx, tx, ids)
	if err != nil {
		return err
	}
	for _, l := range ledgers {
		if l.company != companyID {
			return ledger.ErrWrongCompany
		}
	}

	// Projection over the union of old and new ledgers: a cash ledger
	// only present in the old entries must not go negative either once
	// its old effect is removed.
	if err := checkCashProjection(ledgers, oldEntries, upd.Lines); err != nil {
		return err
	}

	// Reverse, replace, reapply.
	for _, e := range oldEntries {
		l := ledgers[e.ledgerID]
		l.balance = l.balance.Sub(ledger.EntryDelta(ledger.NatureOf(l.group), e.debit, e.credit))
		l.dirty = true
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM voucher_entries WHERE voucher_id = ?`, voucherID); err != nil {
		return fmt.Errorf("delete old entries: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE vouchers SET date = ?, narration = ?, status = 'active' WHERE id = ?`,
		upd.Date.Format(ledger.DateLayout), upd.Narration, voucherID); err != nil {
		return fmt.Errorf("update voucher header: %w", err)
	}

	if err := insertEntries(ctx, tx, voucherID, upd.Lines); err != nil {
		return err
	}

	applyLines(ledgers, upd.Lines, false)
	if err := writeBalances(ctx, tx, ledgers); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CancelVoucher reverses the voucher's effect, zeroes its entries, and
// flips its status. The entries stay behind as an audit trail. A
// cancelled voucher cannot be cancelled again.
func (s *Store) CancelVoucher(ctx context.Context, voucherID, actor string) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var status, narration string
	err = tx.QueryRowContext(ctx,
		`SELECT status, narration FROM vouchers WHERE id = ?`, voucherID).Scan(&status, &narration)
	if err == sql.ErrNoRows {
		return ledger.ErrVoucherNotFound
	}
	if err != nil {
		return fmt.Errorf("load voucher: %w", err)
	}
	if ledger.Status(status) == ledger.StatusCancelled {
		return ledger.ErrVoucherCancelled
	}

	entries, err := loadRawEntries(ctx, tx, voucherID)
	if err != nil {
		return err
	}

	if err := reverseEntries(ctx, tx, entries); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE voucher_entries SET debit = '0', credit = '0' WHERE voucher_id = ?`, voucherID); err != nil {
		return fmt.Errorf("zero entries: %w", err)
	}

	note := fmt.Sprintf(" [cancelled by %s on %s]", actor, time.Now().UTC().Format(ledger.DateLayout))
	if _, err := tx.ExecContext(ctx,
		`UPDATE vouchers SET status = 'cancelled', narration = ? WHERE id = ?`,
		narration+note, voucherID); err != nil {
		return fmt.Errorf("mark cancelled: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteVoucher is the irreversible path: reverse, then remove entries
// and header outright.
func (s *Store) DeleteVoucher(ctx context.Context, voucherID string) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM vouchers WHERE id = ?`, voucherID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ledger.ErrVoucherNotFound
	}
	if err != nil {
		return fmt.Errorf("load voucher: %w", err)
	}

	entries, err := loadRawEntries(ctx, tx, voucherID)
	if err != nil {
		return err
	}

	// Cancelled vouchers carry zeroed entries, so the reversal is a
	// no-op for them.
	if err := reverseEntries(ctx, tx, entries); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM voucher_entries WHERE voucher_id = ?`, voucherID); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vouchers WHERE id = ?`, voucherID); err != nil {
		return fmt.Errorf("delete voucher: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// TransferCash records a cash movement between two ledgers of the same
// company as a contra voucher, going through the normal create path so
// the transfer is numbered and cash-checked like any other voucher.
func (s *Store) TransferCash(ctx context.Context, companyID, fromLedgerID, toLedgerID string, amount decimal.Decimal, actor string) (*ledger.Voucher, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrNegativeAmount
	}
	return s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: companyID,
		Type:      ledger.TypeContra,
		Date:      time.Now().UTC().Truncate(24 * time.Hour),
		Narration: "Cash transfer",
		CreatedBy: actor,
		Lines: []ledger.EntryLine{
			{LedgerID: toLedgerID, Debit: amount},
			{LedgerID: fromLedgerID, Credit: amount},
		},
	})
}

func (s *Store) GetVoucher(ctx context.Context, id string) (*ledger.Voucher, error) {
	var v ledger.Voucher
	var typ, status, date, createdAt string
	err := s.reader.QueryRowContext(ctx,
		`SELECT id, company_id, voucher_type, voucher_number, date, narration, status, created_by, created_at
		 FROM vouchers WHERE id = ?`, id,
	).Scan(&v.ID, &v.CompanyID, &typ, &v.Number, &date, &v.Narration, &status, &v.CreatedBy, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrVoucherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	v.Type = ledger.VoucherType(typ)
	v.Status = ledger.Status(status)
	if v.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	v.CreatedAt = parseTimestamp(createdAt)

	entries, err := s.entriesForVoucher(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Entries = entries
	return &v, nil
}

func (s *Store) entriesForVoucher(ctx context.Context, voucherID string) ([]ledger.VoucherEntry, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT e.id, e.voucher_id, e.ledger_id, l.name, e.debit, e.credit
		 FROM voucher_entries e
		 JOIN ledgers l ON l.id = e.ledger_id
		 WHERE e.voucher_id = ? ORDER BY e.id`, voucherID)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	defer rows.Close()
	return scanVoucherEntries(rows)
}

func scanVoucherEntries(rows *sql.Rows) ([]ledger.VoucherEntry, error) {
	var entries []ledger.VoucherEntry
	for rows.Next() {
		var e ledger.VoucherEntry
		var debit, credit string
		if err := rows.Scan(&e.ID, &e.VoucherID, &e.LedgerID, &e.LedgerName, &debit, &credit); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		var err error
		if e.Debit, err = parseAmount(debit); err != nil {
			return nil, err
		}
		if e.Credit, err = parseAmount(credit); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// nextVoucherNumber scans the numbers already issued for this company
// and type and takes one past the highest numeric suffix. Runs inside
// the engine transaction; the unique index backs it up.
func nextVoucherNumber(ctx context.Context, tx *sql.Tx, companyID string, typ ledger.VoucherType) (string, error) {
	prefix := typ.Prefix()
	rows, err := tx.QueryContext(ctx,
		`SELECT voucher_number FROM vouchers
		 WHERE company_id = ? AND voucher_type = ? AND voucher_number LIKE ? || '%'`,
		companyID, string(typ), prefix)
	if err != nil {
		return "", fmt.Errorf("scan voucher numbers: %w", err)
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var num string
		if err := rows.Scan(&num); err != nil {
			return "", fmt.Errorf("scan voucher number: %w", err)
		}
		existing = append(existing, num)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return ledger.NextNumber(prefix, existing), nil
}

func companyExists(ctx context.Context, tx *sql.Tx, companyID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM companies WHERE id = ?`, companyID).Scan(&one)
	if err == sql.ErrNoRows {
		return ledger.ErrCompanyNotFound
	}
	if err != nil {
		return fmt.Errorf("check company: %w", err)
	}
	return nil
}

func checkFinancialYear(ctx context.Context, tx *sql.Tx, companyID string, date time.Time) error {
	var fyStart, fyEnd sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT fy_start, fy_end FROM companies WHERE id = ?`, companyID).Scan(&fyStart, &fyEnd)
	if err == sql.ErrNoRows {
		return ledger.ErrCompanyNotFound
	}
	if err != nil {
		return fmt.Errorf("load company: %w", err)
	}
	c := ledger.Company{FYStart: fyTime(fyStart), FYEnd: fyTime(fyEnd)}
	if !c.WithinFY(date) {
		return ledger.ErrDateOutsideFY
	}
	return nil
}

func ledgerIDsOf(lines []ledger.EntryLine) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.LedgerID)
	}
	return ids
}

func loadTxLedgers(ctx context.Context, tx *sql.Tx, ids []string) (map[string]*txLedger, error) {
	out := make(map[string]*txLedger)
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		var l txLedger
		var group, balance string
		err := tx.QueryRowContext(ctx,
			`SELECT id, company_id, name, group_name, current_balance FROM ledgers WHERE id = ?`, id,
		).Scan(&l.id, &l.company, &l.name, &group, &balance)
		if err == sql.ErrNoRows {
			return nil, ledger.ErrLedgerNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load ledger %s: %w", id, err)
		}
		l.group = ledger.Group(group)
		if l.balance, err = parseAmount(balance); err != nil {
			return nil, err
		}
		out[id] = &l
	}
	return out, nil
}

// checkCashProjection rejects the operation if any Cash-in-hand ledger
// would end up below zero after removing the old entries' effect and
// applying the new lines. Cash is debit-natured, so the effect is
// simply debit minus credit.
func checkCashProjection(ledgers map[string]*txLedger, oldEntries []rawEntry, lines []ledger.EntryLine) error {
	for id, l := range ledgers {
		if l.group != ledger.GroupCashInHand {
			continue
		}
		projected := l.balance
		for _, e := range oldEntries {
			if e.ledgerID == id {
				projected = projected.Sub(e.debit.Sub(e.credit))
			}
		}
		for _, line := range lines {
			if line.LedgerID == id {
				projected = projected.Add(line.Debit.Sub(line.Credit))
			}
		}
		if projected.IsNegative() {
			return &ledger.NegativeCashError{LedgerID: id, LedgerName: l.name, Projected: projected}
		}
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, voucherID string, lines []ledger.EntryLine) error {
	for i, line := range lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO voucher_entries (voucher_id, ledger_id, debit, credit) VALUES (?, ?, ?, ?)`,
			voucherID, line.LedgerID, line.Debit.String(), line.Credit.String())
		if err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}
	return nil
}

// applyLines folds the nature-aware delta of each line into the loaded
// balances. With reverse set it subtracts instead.
func applyLines(ledgers map[string]*txLedger, lines []ledger.EntryLine, reverse bool) {
	for _, line := range lines {
		l := ledgers[line.LedgerID]
		delta := ledger.EntryDelta(ledger.NatureOf(l.group), line.Debit, line.Credit)
		if reverse {
			l.balance = l.balance.Sub(delta)
		} else {
			l.balance = l.balance.Add(delta)
		}
		l.dirty = true
	}
}

func writeBalances(ctx context.Context, tx *sql.Tx, ledgers map[string]*txLedger) error {
	for _, l := range ledgers {
		if !l.dirty {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE ledgers SET current_balance = ? WHERE id = ?`,
			l.balance.String(), l.id); err != nil {
			return fmt.Errorf("update balance for %s: %w", l.name, err)
		}
	}
	return nil
}

func loadRawEntries(ctx context.Context, tx *sql.Tx, voucherID string) ([]rawEntry, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT ledger_id, debit, credit FROM voucher_entries WHERE voucher_id = ? ORDER BY id`, voucherID)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	var entries []rawEntry
	for rows.Next() {
		var e rawEntry
		var debit, credit string
		if err := rows.Scan(&e.ledgerID, &debit, &credit); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.debit, err = parseAmount(debit); err != nil {
			return nil, err
		}
		if e.credit, err = parseAmount(credit); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// reverseEntries subtracts each entry's effect from its ledger and
// writes the balances back.
func reverseEntries(ctx context.Context, tx *sql.Tx, entries []rawEntry) error {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ledgerID)
	}
	ledgers, err := loadTxLedgers(ctx, tx, ids)
	if err != nil {
		return err
	}
	for _, e := range entries {
		l := ledgers[e.ledgerID]
		l.balance = l.balance.Sub(ledger.EntryDelta(ledger.NatureOf(l.group), e.debit, e.credit))
		l.dirty = true
	}
	return writeBalances(ctx, tx, ledgers)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
