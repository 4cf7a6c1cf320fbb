package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one opening-balance row from an exported trial
// balance. Exactly one of Debit/Credit is normally non-zero.
type TrialBalanceRow struct {
	Name   string          `json:"name"`
	Group  string          `json:"group"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TransactionRow is one line of an exported transaction history. Rows
// sharing a voucher number form one voucher; a row with an empty number
// continues the voucher started by the nearest preceding numbered row.
type TransactionRow struct {
	VoucherNumber string          `json:"voucher_number"`
	Date          time.Time       `json:"date"`
	Type          string          `json:"voucher_type"`
	LedgerName    string          `json:"ledger_name"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Narration     string          `json:"narration"`
}

// SuspenseLedgerName is the fallback ledger for transaction rows whose
// ledger name matches nothing in the trial balance.
const SuspenseLedgerName = "Suspense"

// bankTokens mark a "CASH/Bank" trial-balance row as an actual bank
// account rather than cash in hand.
var bankTokens = []string{
	"bank", "axis", "hdfc", "icici", "sbi", "kotak", "canara",
	"pnb", "idbi", "union", "baroda", "indusind", "yes",
}

// sourceGroupAliases maps trial-balance group labels that differ from
// the internal spelling.
var sourceGroupAliases = map[string]Group{
	"assets":           GroupAsset,
	"expenses":         GroupExpense,
	"liabilities":      GroupLiability,
	"incomes":          GroupIncome,
	"capital a/c":      GroupCapitalAccount,
	"suspense":         GroupSuspense,
	"loans & advances": GroupLoansAdvances,
	"deposits":         GroupDepositsAsset,
}

// MapSourceGroup resolves an exported group label to an internal group.
// The ambiguous "CASH/Bank" label is split on the ledger name: names
// carrying a bank token become Bank Accounts, the rest Cash-in-hand.
func MapSourceGroup(label, name string) (Group, error) {
	label = strings.TrimSpace(label)

	if strings.EqualFold(label, "CASH/Bank") {
		lower := strings.ToLower(name)
		for _, tok := range bankTokens {
			if strings.Contains(lower, tok) {
				return GroupBankAccounts, nil
			}
		}
		return GroupCashInHand, nil
	}

	if g := Group(label); ValidGroup(g) {
		return g, nil
	}
	if g, ok := sourceGroupAliases[strings.ToLower(label)]; ok {
		return g, nil
	}
	return "", ErrInvalidGroup
}

// MapSourceType resolves an exported voucher-type label to one of the
// six internal types. Credit and debit notes collapse into journal;
// anything unrecognised lands there too.
func MapSourceType(label string) VoucherType {
	switch l := strings.ToLower(strings.TrimSpace(label)); {
	case strings.Contains(l, "receipt"):
		return TypeReceipt
	case strings.Contains(l, "payment"):
		return TypePayment
	case strings.Contains(l, "sales"):
		return TypeSales
	case strings.Contains(l, "purchase"):
		return TypePurchase
	case strings.Contains(l, "contra"):
		return TypeContra
	default:
		return TypeJournal
	}
}

// SignedOpening converts a trial-balance debit/credit pair into a
// signed opening balance in the group's own nature: positive when the
// populated column matches the group's natural side.
func SignedOpening(g Group, debit, credit decimal.Decimal) decimal.Decimal {
	return EntryDelta(NatureOf(g), debit, credit)
}
