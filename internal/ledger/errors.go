package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCompanyNotFound        = errors.New("company not found")
	ErrLedgerNotFound         = errors.New("ledger not found")
	ErrVoucherNotFound        = errors.New("voucher not found")
	ErrLedgerNameRequired     = errors.New("ledger name is required")
	ErrCompanyRequired        = errors.New("company reference is required")
	ErrInvalidGroup           = errors.New("invalid ledger group")
	ErrInvalidVoucherType     = errors.New("invalid voucher type")
	ErrNoEntries              = errors.New("voucher must have at least one entry")
	ErrOneSidedEntry          = errors.New("entry must have exactly one of debit or credit")
	ErrNegativeAmount         = errors.New("entry amounts cannot be negative")
	ErrUnbalancedVoucher      = errors.New("voucher debits do not equal credits")
	ErrNegativeCash           = errors.New("cash ledger would go negative")
	ErrLedgerHasTransactions  = errors.New("ledger has transactions and cannot be deleted")
	ErrVoucherCancelled       = errors.New("voucher is already cancelled")
	ErrDateOutsideFY          = errors.New("date falls outside the company financial year")
	ErrDuplicateVoucherNumber = errors.New("voucher number already exists")
	ErrSuspenseMissing        = errors.New("no matching ledger and no Suspense ledger to fall back on")
	ErrWrongCompany           = errors.New("ledger belongs to a different company")
)

// NegativeCashError reports which cash ledger a rejected operation
// would have overdrawn, and by how much.
type NegativeCashError struct {
	LedgerID   string
	LedgerName string
	Projected  decimal.Decimal
}

func (e *NegativeCashError) Error() string {
	return fmt.Sprintf("cash ledger %q would have a negative balance (%s)", e.LedgerName, e.Projected)
}

func (e *NegativeCashError) Unwrap() error { return ErrNegativeCash }

// ImportRowError carries the offending row of a failed bulk import so
// the caller can report it.
type ImportRowError struct {
	Row    int
	Name   string
	Reason error
}

func (e *ImportRowError) Error() string {
	return fmt.Sprintf("import row %d (%s): %v", e.Row, e.Name, e.Reason)
}

func (e *ImportRowError) Unwrap() error { return e.Reason }
