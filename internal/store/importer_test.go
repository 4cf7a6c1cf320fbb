package store

import (
	"context"
	"testing"

	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkImport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)

	tb := []ledger.TrialBalanceRow{
		{Name: "Axis Bank", Group: "CASH/Bank", Debit: dec("10000")},
		{Name: "Cash", Group: "CASH/Bank", Debit: dec("2500")},
		{Name: "Capital", Group: "Capital A/c", Credit: dec("12500")},
	}
	feed := []ledger.TransactionRow{
		{VoucherNumber: "RC-101", Date: day(t, "2026-04-02"), Type: "Receipt Voucher", LedgerName: "Cash", Debit: dec("500"), Narration: "Advance received"},
		{LedgerName: "Capital", Credit: dec("500")},
		{VoucherNumber: "PV-17", Date: day(t, "2026-04-03"), Type: "Payment", LedgerName: "Unknown Party", Debit: dec("200")},
		{LedgerName: "Axis Bank", Credit: dec("200")},
	}

	res, err := s.BulkImport(ctx, c.ID, tb, feed)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Ledgers, "trial balance plus the Suspense fallback")
	assert.Equal(t, 2, res.Vouchers)
	assert.Equal(t, 4, res.Entries)

	ledgers, err := s.ListLedgers(ctx, c.ID, LedgerFilter{})
	require.NoError(t, err)
	byName := map[string]ledger.Ledger{}
	for _, l := range ledgers {
		byName[l.Name] = l
	}

	// The ambiguous CASH/Bank label splits on the ledger name.
	assert.Equal(t, ledger.GroupBankAccounts, byName["Axis Bank"].Group)
	assert.Equal(t, ledger.GroupCashInHand, byName["Cash"].Group)
	assert.Equal(t, ledger.GroupCapitalAccount, byName["Capital"].Group)
	assert.Equal(t, ledger.GroupSuspense, byName["Suspense"].Group)

	// Openings are signed in each group's own nature.
	assert.True(t, byName["Axis Bank"].OpeningBalance.Equal(dec("10000")))
	assert.True(t, byName["Capital"].OpeningBalance.Equal(dec("12500")))

	// Imported vouchers are not replayed: opening balances stand.
	assert.True(t, byName["Cash"].CurrentBalance.Equal(dec("2500")))

	// Source numbers survive; types map through contains-matching.
	book, err := s.DayBook(ctx, c.ID, day(t, "2026-04-01"), day(t, "2026-04-30"))
	require.NoError(t, err)
	require.Len(t, book, 2)
	assert.Equal(t, "RC-101", book[0].Number)
	assert.Equal(t, ledger.TypeReceipt, book[0].Type)
	assert.Equal(t, "Advance received", book[0].Narration)
	assert.Equal(t, "PV-17", book[1].Number)
	assert.Equal(t, ledger.TypePayment, book[1].Type)

	// The row naming an unknown ledger landed in Suspense.
	require.Len(t, book[1].Entries, 2)
	assert.Equal(t, "Suspense", book[1].Entries[0].LedgerName)

	// Reconciliation closes the gap between openings and the feed.
	drifts, err := s.RecomputeBalances(ctx, c.ID, true)
	require.NoError(t, err)
	assert.NotEmpty(t, drifts)
	cash, err := s.GetLedger(ctx, byName["Cash"].ID)
	require.NoError(t, err)
	assert.True(t, cash.CurrentBalance.Equal(dec("3000")))
}

func TestBulkImportReplacesExistingBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Old Cash", ledger.GroupCashInHand, "100")
	sales := seedLedger(t, s, c.ID, "Old Sales", ledger.GroupSalesAccounts, "0")
	_, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypeReceipt,
		Date:      day(t, "2026-04-01"),
		Lines: []ledger.EntryLine{
			{LedgerID: cash.ID, Debit: dec("10")},
			{LedgerID: sales.ID, Credit: dec("10")},
		},
	})
	require.NoError(t, err)

	_, err = s.BulkImport(ctx, c.ID, []ledger.TrialBalanceRow{
		{Name: "Cash", Group: "CASH/Bank", Debit: dec("50")},
		{Name: "Capital", Group: "Capital A/c", Credit: dec("50")},
	}, nil)
	require.NoError(t, err)

	ledgers, err := s.ListLedgers(ctx, c.ID, LedgerFilter{})
	require.NoError(t, err)
	names := make([]string, 0, len(ledgers))
	for _, l := range ledgers {
		names = append(names, l.Name)
	}
	assert.ElementsMatch(t, []string{"Cash", "Capital", "Suspense"}, names)

	book, err := s.DayBook(ctx, c.ID, day(t, "2026-01-01"), day(t, "2026-12-31"))
	require.NoError(t, err)
	assert.Empty(t, book, "old vouchers wiped")
}

func TestBulkImportAbortsOnBadRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)

	_, err := s.BulkImport(ctx, c.ID, []ledger.TrialBalanceRow{
		{Name: "Cash", Group: "CASH/Bank", Debit: dec("100")},
		{Name: "Mystery", Group: "No Such Group", Debit: dec("50")},
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInvalidGroup)

	var rowErr *ledger.ImportRowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, "Mystery", rowErr.Name)

	// The transaction rolled back whole: nothing was imported.
	ledgers, err := s.ListLedgers(ctx, c.ID, LedgerFilter{})
	require.NoError(t, err)
	assert.Empty(t, ledgers)
}

func TestBulkImportLeadingContinuationRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)

	_, err := s.BulkImport(ctx, c.ID, []ledger.TrialBalanceRow{
		{Name: "Cash", Group: "CASH/Bank", Debit: dec("100")},
	}, []ledger.TransactionRow{
		{Date: day(t, "2026-04-01"), LedgerName: "Cash", Debit: dec("10")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNoEntries)
}
