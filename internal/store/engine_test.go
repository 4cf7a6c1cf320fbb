package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(ledger.DateLayout, s)
	require.NoError(t, err)
	return d
}

func seedCompany(t *testing.T, s *Store) *ledger.Company {
	t.Helper()
	c := &ledger.Company{Name: "Mehta Traders"}
	require.NoError(t, s.CreateCompany(context.Background(), c))
	return c
}

func seedLedger(t *testing.T, s *Store, companyID, name string, group ledger.Group, opening string) *ledger.Ledger {
	t.Helper()
	l := &ledger.Ledger{
		CompanyID:      companyID,
		Name:           name,
		Group:          group,
		OpeningBalance: dec(opening),
	}
	require.NoError(t, s.CreateLedger(context.Background(), l))
	return l
}

func balance(t *testing.T, s *Store, ledgerID string) decimal.Decimal {
	t.Helper()
	l, err := s.GetLedger(context.Background(), ledgerID)
	require.NoError(t, err)
	return l.CurrentBalance
}

func TestCreateVoucherAppliesBalances(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Petty Cash", ledger.GroupCashInHand, "500")
	sales := seedLedger(t, s, c.ID, "Sales", ledger.GroupSalesAccounts, "0")

	v, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypeReceipt,
		Date:      day(t, "2026-04-01"),
		Narration: "Cash sale",
		CreatedBy: "kmehta",
		Lines: []ledger.EntryLine{
			{LedgerID: cash.ID, Debit: dec("200")},
			{LedgerID: sales.ID, Credit: dec("200")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "REC0001", v.Number)
	assert.Equal(t, ledger.StatusActive, v.Status)
	require.Len(t, v.Entries, 2)
	assert.Equal(t, "Petty Cash", v.Entries[0].LedgerName)

	// Cash is debit-natured, sales credit-natured: both balances grow.
	assert.True(t, balance(t, s, cash.ID).Equal(dec("700")))
	assert.True(t, balance(t, s, sales.ID).Equal(dec("200")))
}

func TestVoucherNumberSequencePerType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	debtor := seedLedger(t, s, c.ID, "Sharma & Sons", ledger.GroupSundryDebtors, "0")
	sales := seedLedger(t, s, c.ID, "Sales", ledger.GroupSalesAccounts, "0")

	draft := func(typ ledger.VoucherType) ledger.Draft {
		return ledger.Draft{
			CompanyID: c.ID,
			Type:      typ,
			Date:      day(t, "2026-04-02"),
			Lines: []ledger.EntryLine{
				{LedgerID: debtor.ID, Debit: dec("10")},
				{LedgerID: sales.ID, Credit: dec("10")},
			},
		}
	}

	for i, want := range []string{"SAL0001", "SAL0002", "SAL0003"} {
		v, err := s.CreateVoucher(ctx, draft(ledger.TypeSales))
		require.NoError(t, err, "voucher %d", i)
		assert.Equal(t, want, v.Number)
	}

	// The sequence is per type: a journal starts at one.
	jv, err := s.CreateVoucher(ctx, draft(ledger.TypeJournal))
	require.NoError(t, err)
	assert.Equal(t, "JV0001", jv.Number)
}

func TestCreateVoucherValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "100")
	sales := seedLedger(t, s, c.ID, "Sales", ledger.GroupSalesAccounts, "0")

	base := ledger.Draft{CompanyID: c.ID, Type: ledger.TypeReceipt, Date: day(t, "2026-04-01")}

	t.Run("unbalanced", func(t *testing.T) {
		d := base
		d.Lines = []ledger.EntryLine{
			{LedgerID: cash.ID, Debit: dec("100")},
			{LedgerID: sales.ID, Credit: dec("90")},
		}
		_, err := s.CreateVoucher(ctx, d)
		assert.ErrorIs(t, err, ledger.ErrUnbalancedVoucher)
	})

	t.Run("two-sided line", func(t *testing.T) {
		d := base
		d.Lines = []ledger.EntryLine{
			{LedgerID: cash.ID, Debit: dec("50"), Credit: dec("50")},
		}
		_, err := s.CreateVoucher(ctx, d)
		assert.ErrorIs(t, err, ledger.ErrOneSidedEntry)
	})

	t.Run("no entries", func(t *testing.T) {
		_, err := s.CreateVoucher(ctx, base)
		assert.ErrorIs(t, err, ledger.ErrNoEntries)
	})

	t.Run("unknown ledger", func(t *testing.T) {
		d := base
		d.Lines = []ledger.EntryLine{
			{LedgerID: "nope", Debit: dec("10")},
			{LedgerID: sales.ID, Credit: dec("10")},
		}
		_, err := s.CreateVoucher(ctx, d)
		assert.ErrorIs(t, err, ledger.ErrLedgerNotFound)
	})

	t.Run("bad type", func(t *testing.T) {
		d := base
		d.Type = "memo"
		d.Lines = []ledger.EntryLine{
			{LedgerID: cash.ID, Debit: dec("10")},
			{LedgerID: sales.ID, Credit: dec("10")},
		}
		_, err := s.CreateVoucher(ctx, d)
		assert.ErrorIs(t, err, ledger.ErrInvalidVoucherType)
	})

	t.Run("ledger from another company", func(t *testing.T) {
		other := &ledger.Company{Name: "Other Traders"}
		require.NoError(t, s.CreateCompany(ctx, other))
		foreign := seedLedger(t, s, other.ID, "Cash", ledger.GroupCashInHand, "0")

		d := base
		d.Lines = []ledger.EntryLine{
			{LedgerID: foreign.ID, Debit: dec("10")},
			{LedgerID: sales.ID, Credit: dec("10")},
		}
		_, err := s.CreateVoucher(ctx, d)
		assert.ErrorIs(t, err, ledger.ErrWrongCompany)
	})
}

func TestNegativeCashGuard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "200")
	rent := seedLedger(t, s, c.ID, "Rent", ledger.GroupIndirectExpenses, "0")
	power := seedLedger(t, s, c.ID, "Electricity", ledger.GroupIndirectExpenses, "0")

	// Each line alone fits within 200, but together they overdraw the
	// ledger. The projection aggregates before rejecting.
	_, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypePayment,
		Date:      day(t, "2026-04-03"),
		Lines: []ledger.EntryLine{
			{LedgerID: rent.ID, Debit: dec("100")},
			{LedgerID: power.ID, Debit: dec("150")},
			{LedgerID: cash.ID, Credit: dec("250")},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNegativeCash)

	var nce *ledger.NegativeCashError
	require.True(t, errors.As(err, &nce))
	assert.Equal(t, "Cash", nce.LedgerName)
	assert.True(t, nce.Projected.Equal(dec("-50")))

	// Nothing was written.
	assert.True(t, balance(t, s, cash.ID).Equal(dec("200")))
	assert.True(t, balance(t, s, rent.ID).Equal(dec("0")))

	// Spending down to exactly zero is allowed.
	_, err = s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypePayment,
		Date:      day(t, "2026-04-03"),
		Lines: []ledger.EntryLine{
			{LedgerID: rent.ID, Debit: dec("200")},
			{LedgerID: cash.ID, Credit: dec("200")},
		},
	})
	require.NoError(t, err)
	assert.True(t, balance(t, s, cash.ID).Equal(dec("0")))
}

func TestUpdateVoucherReversesAndReapplies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "500")
	rent := seedLedger(t, s, c.ID, "Rent", ledger.GroupIndirectExpenses, "0")

	v, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypePayment,
		Date:      day(t, "2026-04-05"),
		Narration: "Office rent",
		Lines: []ledger.EntryLine{
			{LedgerID: rent.ID, Debit: dec("100")},
			{LedgerID: cash.ID, Credit: dec("100")},
		},
	})
	require.NoError(t, err)
	assert.True(t, balance(t, s, cash.ID).Equal(dec("400")))

	err = s.UpdateVoucher(ctx, v.ID, VoucherUpdate{
		Date:      day(t, "2026-04-06"),
		Narration: "Office rent (corrected)",
		Lines: []ledger.EntryLine{
			{LedgerID: rent.ID, Debit: dec("250")},
			{LedgerID: cash.ID, Credit: dec("250")},
		},
	})
	require.NoError(t, err)

	// Only the new amount is in effect; the old one was fully reversed.
	assert.True(t, balance(t, s, cash.ID).Equal(dec("250")))
	assert.True(t, balance(t, s, rent.ID).Equal(dec("250")))

	got, err := s.GetVoucher(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "PMT0001", got.Number)
	assert.Equal(t, "Office rent (corrected)", got.Narration)
	assert.Equal(t, day(t, "2026-04-06"), got.Date)

	// The update projection spans old and new entries: raising the
	// payment beyond what cash holds after reversal is rejected whole.
	err = s.UpdateVoucher(ctx, v.ID, VoucherUpdate{
		Date: day(t, "2026-04-06"),
		Lines: []ledger.EntryLine{
			{LedgerID: rent.ID, Debit: dec("600")},
			{LedgerID: cash.ID, Credit: dec("600")},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrNegativeCash)
	assert.True(t, balance(t, s, cash.ID).Equal(dec("250")))
}

func TestUpdateReactivatesCancelledVoucher(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "500")
	rent := seedLedger(t, s, c.ID, "Rent", ledger.GroupIndirectExpenses, "0")

	v, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypePayment,
		Date:      day(t, "2026-04-05"),
		Lines: []ledger.EntryLine{
			{LedgerID: rent.ID, Debit: dec("100")},
			{LedgerID: cash.ID, Credit: dec("100")},
		},
	})
	require.NoError(t, err)
	require.NoError(t, s.CancelVoucher(ctx, v.ID, "kmehta"))

	err = s.UpdateVoucher(ctx, v.ID, VoucherUpdate{
		Date: day(t, "2026-04-07"),
		Lines: []ledger.EntryLine{
			{LedgerID: rent.ID, Debit: dec("80")},
			{LedgerID: cash.ID, Credit: dec("80")},
		},
	})
	require.NoError(t, err)

	got, err := s.GetVoucher(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusActive, got.Status)
	assert.True(t, balance(t, s, cash.ID).Equal(dec("420")))
}

func TestCancelVoucher(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "500")
	sales := seedLedger(t, s, c.ID, "Sales", ledger.GroupSalesAccounts, "0")

	v, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypeReceipt,
		Date:      day(t, "2026-04-08"),
		Narration: "Counter sale",
		Lines: []ledger.EntryLine{
			{LedgerID: cash.ID, Debit: dec("200")},
			{LedgerID: sales.ID, Credit: dec("200")},
		},
	})
	require.NoError(t, err)
	require.True(t, balance(t, s, cash.ID).Equal(dec("700")))

	require.NoError(t, s.CancelVoucher(ctx, v.ID, "kmehta"))

	// Effect reversed, entries zeroed, voucher kept for the audit trail.
	assert.True(t, balance(t, s, cash.ID).Equal(dec("500")))
	assert.True(t, balance(t, s, sales.ID).Equal(dec("0")))

	got, err := s.GetVoucher(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCancelled, got.Status)
	assert.Contains(t, got.Narration, "Counter sale")
	assert.Contains(t, got.Narration, "[cancelled by kmehta")
	for _, e := range got.Entries {
		assert.True(t, e.Debit.IsZero())
		assert.True(t, e.Credit.IsZero())
	}

	assert.ErrorIs(t, s.CancelVoucher(ctx, v.ID, "kmehta"), ledger.ErrVoucherCancelled)
}

func TestDeleteVoucher(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "500")
	sales := seedLedger(t, s, c.ID, "Sales", ledger.GroupSalesAccounts, "0")

	v, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypeReceipt,
		Date:      day(t, "2026-04-09"),
		Lines: []ledger.EntryLine{
			{LedgerID: cash.ID, Debit: dec("300")},
			{LedgerID: sales.ID, Credit: dec("300")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteVoucher(ctx, v.ID))
	assert.True(t, balance(t, s, cash.ID).Equal(dec("500")))

	_, err = s.GetVoucher(ctx, v.ID)
	assert.ErrorIs(t, err, ledger.ErrVoucherNotFound)

	// With no entries left, the ledger is deletable again.
	assert.NoError(t, s.DeleteLedger(ctx, sales.ID))
}

func TestDeleteLedgerBlockedByEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "500")
	sales := seedLedger(t, s, c.ID, "Sales", ledger.GroupSalesAccounts, "0")

	v, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypeReceipt,
		Date:      day(t, "2026-04-10"),
		Lines: []ledger.EntryLine{
			{LedgerID: cash.ID, Debit: dec("50")},
			{LedgerID: sales.ID, Credit: dec("50")},
		},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteLedger(ctx, sales.ID), ledger.ErrLedgerHasTransactions)

	// A cancelled voucher's zeroed entries still pin the ledger.
	require.NoError(t, s.CancelVoucher(ctx, v.ID, "kmehta"))
	assert.ErrorIs(t, s.DeleteLedger(ctx, sales.ID), ledger.ErrLedgerHasTransactions)
}

func TestTransferCash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "1000")
	bank := seedLedger(t, s, c.ID, "Axis Bank", ledger.GroupBankAccounts, "0")

	v, err := s.TransferCash(ctx, c.ID, cash.ID, bank.ID, dec("400"), "kmehta")
	require.NoError(t, err)

	assert.Equal(t, ledger.TypeContra, v.Type)
	assert.Equal(t, "CON0001", v.Number)
	assert.True(t, balance(t, s, cash.ID).Equal(dec("600")))
	assert.True(t, balance(t, s, bank.ID).Equal(dec("400")))

	// Overdrawing cash is caught by the same guard as any voucher.
	_, err = s.TransferCash(ctx, c.ID, cash.ID, bank.ID, dec("900"), "kmehta")
	assert.ErrorIs(t, err, ledger.ErrNegativeCash)

	_, err = s.TransferCash(ctx, c.ID, cash.ID, bank.ID, dec("0"), "kmehta")
	assert.ErrorIs(t, err, ledger.ErrNegativeAmount)
}

func TestUpdateVoucherOutsideFinancialYear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	start := day(t, "2026-04-01")
	end := day(t, "2027-03-31")
	c := &ledger.Company{Name: "Mehta Traders", FYStart: &start, FYEnd: &end}
	require.NoError(t, s.CreateCompany(ctx, c))

	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "500")
	rent := seedLedger(t, s, c.ID, "Rent", ledger.GroupIndirectExpenses, "0")

	v, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypePayment,
		Date:      day(t, "2026-05-01"),
		Lines: []ledger.EntryLine{
			{LedgerID: rent.ID, Debit: dec("100")},
			{LedgerID: cash.ID, Credit: dec("100")},
		},
	})
	require.NoError(t, err)

	err = s.UpdateVoucher(ctx, v.ID, VoucherUpdate{
		Date: day(t, "2025-12-31"),
		Lines: []ledger.EntryLine{
			{LedgerID: rent.ID, Debit: dec("100")},
			{LedgerID: cash.ID, Credit: dec("100")},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrDateOutsideFY)
	assert.True(t, balance(t, s, cash.ID).Equal(dec("400")))
}

func TestRecomputeBalances(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s)
	cash := seedLedger(t, s, c.ID, "Cash", ledger.GroupCashInHand, "500")
	sales := seedLedger(t, s, c.ID, "Sales", ledger.GroupSalesAccounts, "0")

	_, err := s.CreateVoucher(ctx, ledger.Draft{
		CompanyID: c.ID,
		Type:      ledger.TypeReceipt,
		Date:      day(t, "2026-04-11"),
		Lines: []ledger.EntryLine{
			{LedgerID: cash.ID, Debit: dec("100")},
			{LedgerID: sales.ID, Credit: dec("100")},
		},
	})
	require.NoError(t, err)

	drifts, err := s.RecomputeBalances(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Empty(t, drifts)

	// Corrupt the cache behind the engine's back.
	_, err = s.writer.ExecContext(ctx, `UPDATE ledgers SET current_balance = '999' WHERE id = ?`, cash.ID)
	require.NoError(t, err)

	drifts, err = s.RecomputeBalances(ctx, c.ID, false)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, "Cash", drifts[0].LedgerName)
	assert.True(t, drifts[0].Stored.Equal(dec("999")))
	assert.True(t, drifts[0].Computed.Equal(dec("600")))
	assert.True(t, balance(t, s, cash.ID).Equal(dec("999")), "dry run must not repair")

	_, err = s.RecomputeBalances(ctx, c.ID, true)
	require.NoError(t, err)
	assert.True(t, balance(t, s, cash.ID).Equal(dec("600")))
}
