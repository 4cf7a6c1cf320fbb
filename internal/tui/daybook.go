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

type daybookLoadedMsg struct {
	vouchers []ledger.Voucher
	err      error
}

type daybookModel struct {
	vouchers []ledger.Voucher
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
}

func (m *daybookModel) init(c *client.Client, companyID string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		vouchers, err := c.DayBook(context.Background(), companyID, "", "")
		return daybookLoadedMsg{vouchers: vouchers, err: err}
	}
}

func (m daybookModel) update(msg tea.Msg) (daybookModel, tea.Cmd) {
	switch msg := msg.(type) {
	case daybookLoadedMsg:
		m.loading = false
		m.vouchers = msg.vouchers
		m.err = msg.err
		if m.cursor >= len(m.vouchers) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.vouchers)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *daybookModel) view() string {
	if m.loading {
		return "Loading day book..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.vouchers) == 0 {
		return dimStyle.Render("No vouchers recorded.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Day Book"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-12s %-10s %-10s %-10s %s", "DATE", "NUMBER", "TYPE", "STATUS", "NARRATION")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 8
	if maxRows < 1 {
		maxRows = 10
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.vouchers) && i < start+maxRows; i++ {
		v := m.vouchers[i]
		narr := v.Narration
		if len(narr) > 36 {
			narr = narr[:34] + ".."
		}
		line := fmt.Sprintf("  %-12s %-10s %-10s %-10s %s",
			v.Date.Format(ledger.DateLayout), v.Number, v.Type, v.Status, narr)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else if v.Status == ledger.StatusCancelled {
			b.WriteString(dimStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	// Entry detail for the highlighted voucher.
	if v := m.selected(); v != nil && len(v.Entries) > 0 {
		b.WriteString("\n")
		for _, e := range v.Entries {
			if e.Debit.IsPositive() {
				b.WriteString(fmt.Sprintf("    %s %-25s %12s\n", debitStyle.Render("Dr"), e.LedgerName, e.Debit.String()))
			} else {
				b.WriteString(fmt.Sprintf("    %s %-25s %12s\n", creditStyle.Render("Cr"), e.LedgerName, e.Credit.String()))
			}
		}
	}

	b.WriteString(fmt.Sprintf("\n  %d vouchers", len(m.vouchers)))
	return b.String()
}

func (m *daybookModel) selected() *ledger.Voucher {
	if m.cursor >= 0 && m.cursor < len(m.vouchers) {
		return &m.vouchers[m.cursor]
	}
	return nil
}
