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

type ledgersLoadedMsg struct {
	ledgers []ledger.Ledger
	err     error
}

type ledgerListModel struct {
	ledgers []ledger.Ledger
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *ledgerListModel) init(c *client.Client, companyID string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		ledgers, err := c.ListLedgers(context.Background(), companyID, "")
		return ledgersLoadedMsg{ledgers: ledgers, err: err}
	}
}

func (m ledgerListModel) update(msg tea.Msg) (ledgerListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgersLoadedMsg:
		m.loading = false
		m.ledgers = msg.ledgers
		m.err = msg.err
		if m.cursor >= len(m.ledgers) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.ledgers)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *ledgerListModel) selectedID() string {
	if m.cursor >= 0 && m.cursor < len(m.ledgers) {
		return m.ledgers[m.cursor].ID
	}
	return ""
}

func (m *ledgerListModel) view() string {
	if m.loading {
		return "Loading ledgers..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.ledgers) == 0 {
		return dimStyle.Render("No ledgers found. Create one with `bahikhata ledger create`.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Ledgers"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-25s %-22s %-7s %15s", "NAME", "GROUP", "NATURE", "BALANCE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 10
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.ledgers) && i < start+maxRows; i++ {
		l := m.ledgers[i]
		name := l.Name
		if len(name) > 23 {
			name = name[:21] + ".."
		}
		line := fmt.Sprintf("  %-25s %-22s %-7s %15s", name, l.Group, l.Nature(), l.CurrentBalance.String())
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d ledgers  (enter for statement)", len(m.ledgers)))
	return b.String()
}
