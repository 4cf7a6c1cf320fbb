package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is a named account that accumulates a balance. CurrentBalance
// is a persistently cached aggregate: it always equals OpeningBalance
// plus the signed effect of every active entry, and is only ever
// written by the voucher engine.
type Ledger struct {
	ID                 string          `json:"id"`
	CompanyID          string          `json:"company_id"`
	Name               string          `json:"name"`
	Group              Group           `json:"group_name"`
	SubGroup           string          `json:"sub_group,omitempty"`
	OpeningBalance     decimal.Decimal `json:"opening_balance"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	AssignedOperatorID string          `json:"assigned_operator_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Nature returns the ledger's balance nature, derived from its group.
func (l *Ledger) Nature() Nature {
	return NatureOf(l.Group)
}

// Validate checks ledger invariants before persistence.
func (l *Ledger) Validate() error {
	if l.Name == "" {
		return ErrLedgerNameRequired
	}
	if l.CompanyID == "" {
		return ErrCompanyRequired
	}
	if !ValidGroup(l.Group) {
		return ErrInvalidGroup
	}
	return nil
}

// Company groups ledgers and vouchers. The financial-year bounds, when
// set, constrain the dates vouchers may be moved to on update.
type Company struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	FYStart   *time.Time `json:"fy_start,omitempty"`
	FYEnd     *time.Time `json:"fy_end,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// WithinFY reports whether a date falls inside the company's financial
// year. Companies without configured bounds accept any date.
func (c *Company) WithinFY(date time.Time) bool {
	if c.FYStart != nil && date.Before(*c.FYStart) {
		return false
	}
	if c.FYEnd != nil && date.After(*c.FYEnd) {
		return false
	}
	return true
}

// BalanceDrift reports a ledger whose cached balance disagrees with the
// balance recomputed from its entries.
type BalanceDrift struct {
	LedgerID   string          `json:"ledger_id"`
	LedgerName string          `json:"ledger_name"`
	Stored     decimal.Decimal `json:"stored"`
	Computed   decimal.Decimal `json:"computed"`
}
