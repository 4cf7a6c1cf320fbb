package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerValidate(t *testing.T) {
	l := Ledger{
		CompanyID:      "co",
		Name:           "Petty Cash",
		Group:          GroupCashInHand,
		OpeningBalance: decimal.NewFromInt(500),
	}
	assert.NoError(t, l.Validate())
	assert.Equal(t, DebitNature, l.Nature())

	missing := l
	missing.Name = ""
	assert.ErrorIs(t, missing.Validate(), ErrLedgerNameRequired)

	orphan := l
	orphan.CompanyID = ""
	assert.ErrorIs(t, orphan.Validate(), ErrCompanyRequired)

	bad := l
	bad.Group = "Mystery Group"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidGroup)
}

func TestCompanyWithinFY(t *testing.T) {
	date := func(s string) time.Time {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			t.Fatal(err)
		}
		return d
	}

	open := Company{Name: "Unbounded"}
	assert.True(t, open.WithinFY(date("1990-01-01")))

	start := date("2026-04-01")
	end := date("2027-03-31")
	bounded := Company{Name: "Bounded", FYStart: &start, FYEnd: &end}

	assert.True(t, bounded.WithinFY(date("2026-04-01")), "start is inclusive")
	assert.True(t, bounded.WithinFY(date("2027-03-31")), "end is inclusive")
	assert.False(t, bounded.WithinFY(date("2026-03-31")))
	assert.False(t, bounded.WithinFY(date("2027-04-01")))
}
