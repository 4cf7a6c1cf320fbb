package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNatureOf(t *testing.T) {
	debit := []Group{
		GroupAsset, GroupExpense, GroupCashInHand, GroupBankAccounts,
		GroupSundryDebtors, GroupCurrentAssets, GroupDirectExpenses,
		GroupIndirectExpenses, GroupPurchaseAccounts, GroupStockInHand,
		GroupDepositsAsset, GroupLoansAdvances,
	}
	for _, g := range debit {
		assert.Equal(t, DebitNature, NatureOf(g), "group %s", g)
	}

	credit := []Group{
		GroupLiability, GroupIncome, GroupSalesAccounts,
		GroupCapitalAccount, GroupSundryCreditors,
		GroupCurrentLiabilities, GroupDutiesAndTaxes, GroupSuspense,
	}
	for _, g := range credit {
		assert.Equal(t, CreditNature, NatureOf(g), "group %s", g)
	}
}

func TestNatureOf_UnknownGroupIsCreditNatured(t *testing.T) {
	assert.Equal(t, CreditNature, NatureOf(Group("Something Else")))
}

func TestEntryDelta(t *testing.T) {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	// Debit-natured: balance grows with debits.
	assert.True(t, EntryDelta(DebitNature, d("100"), d("0")).Equal(d("100")))
	assert.True(t, EntryDelta(DebitNature, d("0"), d("40")).Equal(d("-40")))

	// Credit-natured: balance grows with credits.
	assert.True(t, EntryDelta(CreditNature, d("0"), d("100")).Equal(d("100")))
	assert.True(t, EntryDelta(CreditNature, d("25"), d("0")).Equal(d("-25")))
}

func TestValidGroup(t *testing.T) {
	assert.True(t, ValidGroup(GroupCashInHand))
	assert.False(t, ValidGroup(Group("CASH/Bank")))
}
