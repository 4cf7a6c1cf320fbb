package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used everywhere: voucher dates
// carry no time component.
const DateLayout = "2006-01-02"

type VoucherType string

const (
	TypeReceipt  VoucherType = "receipt"
	TypePayment  VoucherType = "payment"
	TypeSales    VoucherType = "sales"
	TypePurchase VoucherType = "purchase"
	TypeJournal  VoucherType = "journal"
	TypeContra   VoucherType = "contra"
)

var AllVoucherTypes = []VoucherType{
	TypeReceipt, TypePayment, TypeSales, TypePurchase, TypeJournal, TypeContra,
}

// Prefix returns the voucher-number prefix for a type. Unknown types
// fall back to the generic VOU prefix.
func (t VoucherType) Prefix() string {
	switch t {
	case TypeReceipt:
		return "REC"
	case TypePayment:
		return "PMT"
	case TypeSales:
		return "SAL"
	case TypePurchase:
		return "PUR"
	case TypeJournal:
		return "JV"
	case TypeContra:
		return "CON"
	default:
		return "VOU"
	}
}

// ValidVoucherType reports whether t is one of the six voucher types.
func ValidVoucherType(t VoucherType) bool {
	for _, known := range AllVoucherTypes {
		if known == t {
			return true
		}
	}
	return false
}

// Status is the voucher lifecycle state. Cancellation is a structural
// flag, never a narration prefix.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

type Voucher struct {
	ID        string         `json:"id"`
	CompanyID string         `json:"company_id"`
	Type      VoucherType    `json:"voucher_type"`
	Number    string         `json:"voucher_number"`
	Date      time.Time      `json:"date"`
	Narration string         `json:"narration"`
	Status    Status         `json:"status"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	Entries   []VoucherEntry `json:"entries,omitempty"`
}

// VoucherEntry is one persisted line of a voucher. Exactly one of
// Debit/Credit is positive, except on a cancelled voucher where both
// are zeroed.
type VoucherEntry struct {
	ID         int64           `json:"id,omitempty"`
	VoucherID  string          `json:"voucher_id"`
	LedgerID   string          `json:"ledger_id"`
	LedgerName string          `json:"ledger_name,omitempty"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
}

// EntryLine is the caller-supplied input for one voucher line.
type EntryLine struct {
	LedgerID string          `json:"ledger_id"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
}

// Draft is the input to voucher creation.
type Draft struct {
	CompanyID string
	Type      VoucherType
	Date      time.Time
	Narration string
	CreatedBy string
	Lines     []EntryLine
}

// ValidateLines checks the double-entry invariants on a set of entry
// lines: at least one line, exactly one positive side per line, and
// total debits equal to total credits.
func ValidateLines(lines []EntryLine) error {
	if len(lines) == 0 {
		return ErrNoEntries
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return ErrNegativeAmount
		}
		hasDebit := l.Debit.IsPositive()
		hasCredit := l.Credit.IsPositive()
		if hasDebit == hasCredit {
			return ErrOneSidedEntry
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return ErrUnbalancedVoucher
	}
	return nil
}

// EntryDelta is the signed effect of a debit/credit pair on a ledger of
// the given nature: debit-natured ledgers grow with debits, everything
// else grows with credits.
func EntryDelta(n Nature, debit, credit decimal.Decimal) decimal.Decimal {
	if n == DebitNature {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
