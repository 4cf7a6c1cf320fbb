package ledger

// Group is the account-group classification of a ledger, following the
// Tally-style grouping the books were originally kept in.
type Group string

const (
	GroupAsset            Group = "Asset"
	GroupExpense          Group = "Expense"
	GroupCashInHand       Group = "Cash-in-hand"
	GroupBankAccounts     Group = "Bank Accounts"
	GroupSundryDebtors    Group = "Sundry Debtors"
	GroupCurrentAssets    Group = "Current Assets"
	GroupDirectExpenses   Group = "Direct Expenses"
	GroupIndirectExpenses Group = "Indirect Expenses"
	GroupPurchaseAccounts Group = "Purchase Accounts"
	GroupStockInHand      Group = "Stock-in-hand"
	GroupDepositsAsset    Group = "Deposits (Asset)"
	GroupLoansAdvances    Group = "Loans & Advances (Asset)"

	GroupLiability          Group = "Liability"
	GroupIncome             Group = "Income"
	GroupSalesAccounts      Group = "Sales Accounts"
	GroupCapitalAccount     Group = "Capital Account"
	GroupSundryCreditors    Group = "Sundry Creditors"
	GroupCurrentLiabilities Group = "Current Liabilities"
	GroupLoansLiability     Group = "Loans (Liability)"
	GroupIndirectIncomes    Group = "Indirect Incomes"
	GroupDirectIncomes      Group = "Direct Incomes"
	GroupDutiesAndTaxes     Group = "Duties & Taxes"
	GroupSuspense           Group = "Suspense A/c"
)

// AllGroups lists every recognised group, debit-natured first.
var AllGroups = []Group{
	GroupAsset, GroupExpense, GroupCashInHand, GroupBankAccounts,
	GroupSundryDebtors, GroupCurrentAssets, GroupDirectExpenses,
	GroupIndirectExpenses, GroupPurchaseAccounts, GroupStockInHand,
	GroupDepositsAsset, GroupLoansAdvances,
	GroupLiability, GroupIncome, GroupSalesAccounts, GroupCapitalAccount,
	GroupSundryCreditors, GroupCurrentLiabilities, GroupLoansLiability,
	GroupIndirectIncomes, GroupDirectIncomes, GroupDutiesAndTaxes,
	GroupSuspense,
}

// Nature says whether a ledger's balance grows with debits or credits.
type Nature string

const (
	DebitNature  Nature = "debit"
	CreditNature Nature = "credit"
)

var debitGroups = map[Group]bool{
	GroupAsset:            true,
	GroupExpense:          true,
	GroupCashInHand:       true,
	GroupBankAccounts:     true,
	GroupSundryDebtors:    true,
	GroupCurrentAssets:    true,
	GroupDirectExpenses:   true,
	GroupIndirectExpenses: true,
	GroupPurchaseAccounts: true,
	GroupStockInHand:      true,
	GroupDepositsAsset:    true,
	GroupLoansAdvances:    true,
}

// NatureOf classifies a group as debit- or credit-natured. This is the
// single source of truth for the mapping; every balance mutation and
// report fold must go through it.
func NatureOf(g Group) Nature {
	if debitGroups[g] {
		return DebitNature
	}
	return CreditNature
}

// ValidGroup reports whether g is one of the recognised groups.
func ValidGroup(g Group) bool {
	for _, known := range AllGroups {
		if known == g {
			return true
		}
	}
	return false
}
