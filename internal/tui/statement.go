package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kmehta/bahikhata/internal/client"
	"github.com/kmehta/bahikhata/internal/ledger"
)

type statementLoadedMsg struct {
	statement *ledger.Statement
	err       error
}

type statementModel struct {
	statement *ledger.Statement
	offset    int
	loading   bool
	err       error
	width     int
	height    int
}

func (m *statementModel) init(c *client.Client, ledgerID string) tea.Cmd {
	m.loading = true
	m.offset = 0
	return func() tea.Msg {
		stmt, err := c.LedgerStatement(context.Background(), ledgerID, "", "")
		return statementLoadedMsg{statement: stmt, err: err}
	}
}

func (m statementModel) update(msg tea.Msg) (statementModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statementLoadedMsg:
		m.loading = false
		m.statement = msg.statement
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.offset > 0 {
				m.offset--
			}
		case key.Matches(msg, keys.Down):
			if m.statement != nil && m.offset < len(m.statement.Rows)-1 {
				m.offset++
			}
		}
	}
	return m, nil
}

func (m *statementModel) view() string {
	if m.loading {
		return "Loading statement..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.statement == nil {
		return dimStyle.Render("No statement loaded.")
	}

	stmt := m.statement
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Statement: %s (%s)", stmt.LedgerName, stmt.Group)))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-12s %-9s %-28s %11s %11s %13s", "DATE", "VCH NO", "PARTICULARS", "DEBIT", "CREDIT", "BALANCE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  %-12s %-9s %-28s %11s %11s %13s\n",
		"", "", "Opening balance", "", "", stmt.OpeningBalance.String()))

	maxRows := m.height - 7
	if maxRows < 1 {
		maxRows = 10
	}
	end := m.offset + maxRows
	if end > len(stmt.Rows) {
		end = len(stmt.Rows)
	}

	for _, row := range stmt.Rows[m.offset:end] {
		part := row.Particulars
		if len(part) > 26 {
			part = part[:24] + ".."
		}
		debit, credit := "", ""
		if row.Debit.IsPositive() {
			debit = debitStyle.Render(row.Debit.String())
		}
		if row.Credit.IsPositive() {
			credit = creditStyle.Render(row.Credit.String())
		}
		b.WriteString(fmt.Sprintf("  %-12s %-9s %-28s %11s %11s %13s\n",
			row.Date.Format(ledger.DateLayout), row.VoucherNumber, part, debit, credit, row.Balance.String()))
	}

	b.WriteString(fmt.Sprintf("  %-12s %-9s %-28s %11s %11s %13s\n",
		"", "", "Closing balance", "", "", stmt.ClosingBalance.String()))
	b.WriteString(fmt.Sprintf("\n  %d rows", len(stmt.Rows)))
	return b.String()
}
