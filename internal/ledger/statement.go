package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementRow is one line of a ledger statement: a single active entry
// with the running balance after it and a particulars label formed from
// the other side of the voucher ("To ..." for debit rows, "By ..." for
// credit rows).
type StatementRow struct {
	EntryID       int64           `json:"entry_id"`
	Date          time.Time       `json:"date"`
	VoucherID     string          `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   VoucherType     `json:"voucher_type"`
	Particulars   string          `json:"particulars"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

// Statement is a single ledger's activity over a period, with the
// opening balance folded forward to the period start.
type Statement struct {
	LedgerID       string          `json:"ledger_id"`
	LedgerName     string          `json:"ledger_name"`
	Group          Group           `json:"group_name"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Rows           []StatementRow  `json:"rows"`
}
