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

type companiesLoadedMsg struct {
	companies []ledger.Company
	err       error
}

type companyListModel struct {
	companies []ledger.Company
	cursor    int
	loading   bool
	err       error
	width     int
	height    int
}

func (m *companyListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		companies, err := c.ListCompanies(context.Background())
		return companiesLoadedMsg{companies: companies, err: err}
	}
}

func (m companyListModel) update(msg tea.Msg) (companyListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case companiesLoadedMsg:
		m.loading = false
		m.companies = msg.companies
		m.err = msg.err
		if m.cursor >= len(m.companies) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.companies)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *companyListModel) selected() *ledger.Company {
	if m.cursor >= 0 && m.cursor < len(m.companies) {
		return &m.companies[m.cursor]
	}
	return nil
}

func (m *companyListModel) view() string {
	if m.loading {
		return "Loading companies..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.companies) == 0 {
		return dimStyle.Render("No companies found. Create one with `bahikhata company create`.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Companies"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-30s %-12s %s", "NAME", "FY START", "FY END")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, co := range m.companies {
		fyStart, fyEnd := "-", "-"
		if co.FYStart != nil {
			fyStart = co.FYStart.Format(ledger.DateLayout)
		}
		if co.FYEnd != nil {
			fyEnd = co.FYEnd.Format(ledger.DateLayout)
		}
		line := fmt.Sprintf("  %-30s %-12s %s", co.Name, fyStart, fyEnd)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d companies  (enter to open)", len(m.companies)))
	return b.String()
}
