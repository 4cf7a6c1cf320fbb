package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kmehta/bahikhata/internal/client"
)

type mode int

const (
	modeCompanyList mode = iota
	modeLedgerList
	modeDayBook
	modeStatement
)

var tabModes = []mode{modeLedgerList, modeDayBook}

func tabLabel(m mode) string {
	switch m {
	case modeLedgerList:
		return "Ledgers"
	case modeDayBook:
		return "Day Book"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	mode          mode
	tabIndex      int
	companyID     string
	companyName   string
	width, height int
	statusMsg     string

	companyList companyListModel
	ledgerList  ledgerListModel
	daybook     daybookModel
	statement   statementModel
}

func NewApp(c *client.Client) *App {
	return &App{
		client: c,
		mode:   modeCompanyList,
	}
}

func (a *App) Init() tea.Cmd {
	return a.companyList.init(a.client)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.companyList.width = msg.Width
		a.companyList.height = msg.Height - 6
		a.ledgerList.width = msg.Width
		a.ledgerList.height = msg.Height - 6
		a.daybook.width = msg.Width
		a.daybook.height = msg.Height - 6
		a.statement.width = msg.Width
		a.statement.height = msg.Height - 6
		return a, nil
	}

	// Loaded messages go to their sub-model regardless of active mode.
	switch msg.(type) {
	case companiesLoadedMsg:
		var cmd tea.Cmd
		a.companyList, cmd = a.companyList.update(msg)
		return a, cmd
	case ledgersLoadedMsg:
		var cmd tea.Cmd
		a.ledgerList, cmd = a.ledgerList.update(msg)
		return a, cmd
	case daybookLoadedMsg:
		var cmd tea.Cmd
		a.daybook, cmd = a.daybook.update(msg)
		return a, cmd
	case statementLoadedMsg:
		var cmd tea.Cmd
		a.statement, cmd = a.statement.update(msg)
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			if a.companyID == "" {
				return a, nil
			}
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			if a.companyID == "" {
				return a, nil
			}
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Refresh):
			if a.mode == modeCompanyList {
				return a, a.companyList.init(a.client)
			}
			return a, a.refreshTab()

		case key.Matches(msg, keys.Escape):
			switch a.mode {
			case modeStatement:
				a.mode = modeLedgerList
			case modeLedgerList, modeDayBook:
				a.mode = modeCompanyList
				a.companyID = ""
				a.companyName = ""
				return a, a.companyList.init(a.client)
			}
			return a, nil

		case key.Matches(msg, keys.Enter):
			switch a.mode {
			case modeCompanyList:
				if co := a.companyList.selected(); co != nil {
					a.companyID = co.ID
					a.companyName = co.Name
					a.mode = modeLedgerList
					a.tabIndex = 0
					return a, a.ledgerList.init(a.client, a.companyID)
				}
				return a, nil
			case modeLedgerList:
				if id := a.ledgerList.selectedID(); id != "" {
					a.mode = modeStatement
					return a, a.statement.init(a.client, id)
				}
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	switch a.mode {
	case modeCompanyList:
		a.companyList, cmd = a.companyList.update(msg)
	case modeLedgerList:
		a.ledgerList, cmd = a.ledgerList.update(msg)
	case modeDayBook:
		a.daybook, cmd = a.daybook.update(msg)
	case modeStatement:
		a.statement, cmd = a.statement.update(msg)
	}
	return a, cmd
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeLedgerList:
		return a.ledgerList.init(a.client, a.companyID)
	case modeDayBook:
		return a.daybook.init(a.client, a.companyID)
	}
	return nil
}

func (a *App) View() string {
	var tabs string
	if a.companyID == "" {
		tabs = activeTabStyle.Render("Companies")
	} else {
		tabs = dimStyle.Render(a.companyName) + "  "
		for i, m := range tabModes {
			label := tabLabel(m)
			if i == a.tabIndex && a.mode != modeStatement {
				tabs += activeTabStyle.Render(label)
			} else {
				tabs += inactiveTabStyle.Render(label)
			}
			if i < len(tabModes)-1 {
				tabs += " "
			}
		}
	}

	var content string
	switch a.mode {
	case modeCompanyList:
		content = a.companyList.view()
	case modeLedgerList:
		content = a.ledgerList.view()
	case modeDayBook:
		content = a.daybook.view()
	case modeStatement:
		content = a.statement.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}

	helpText := dimStyle.Render("tab:switch  enter:select  esc:back  r:refresh  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		helpText,
	)
}
