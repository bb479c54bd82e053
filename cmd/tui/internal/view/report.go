package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/stats"
)

var hundred = decimal.NewFromInt(100)

type reportState int

const (
	reportStateTimeframe reportState = iota
	reportStateTable
)

// ReportModel shows the reconciled days of a range and the payment summary
// for the same range.
type ReportModel struct {
	dailyService *daily.Service
	statsService *stats.Service

	state           reportState
	timeframePicker TimeframePicker
	table           table.Model

	start   string
	end     string
	records []*daily.Record
	summary *stats.Summary

	loading bool
	err     error
}

func NewReportModel(dailySvc *daily.Service, statsSvc *stats.Service) ReportModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Gross", Width: 12},
		{Title: "Expenses", Width: 12},
		{Title: "Payroll", Width: 12},
		{Title: "Net", Width: 12},
		{Title: "Items", Width: 6},
		{Title: "", Width: 8},
	}

	return ReportModel{
		dailyService:    dailySvc,
		statsService:    statsSvc,
		state:           reportStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeToday),
		table:           newTable(columns),
	}
}

func (m ReportModel) Title() string { return "Daily Report" }

func (m ReportModel) ShortHelp() string {
	if m.state == reportStateTable {
		return "Esc: change range | r: refresh"
	}

	return "Esc: back | Enter: select"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.start, m.end = msg.Start, msg.End
		m.state = reportStateTable
		m.loading = true

		return m, m.loadCmd()

	case reportLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.records = msg.records
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 16)
		return m, nil
	}

	if m.state == reportStateTimeframe {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = reportStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *ReportModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		flag := ""

		switch {
		case r.Locked:
			flag = "locked"
		case !r.Recorded:
			flag = "missing"
		}

		rows = append(rows, table.Row{
			r.Date,
			FormatAmount(r.Gross),
			FormatAmount(r.TotalExpenses),
			FormatAmount(r.PayrollTotal()),
			FormatAmount(r.Net),
			fmt.Sprintf("%d", len(r.AllItems())),
			flag,
		})
	}

	m.table.SetRows(rows)
}

func (m ReportModel) View() string {
	if m.state == reportStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading report...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Range: %s to %s", activeStyle(m.start), activeStyle(m.end))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tableView,
			m.viewSummary(),
		),
	)
}

func (m ReportModel) viewSummary() string {
	if m.summary == nil {
		return ""
	}

	s := m.summary

	var b strings.Builder

	fmt.Fprintf(&b, "\nDays: %d   Gross: %s   Expenses: %s   Payroll: %s   Net: %s\n",
		s.Days, FormatAmount(s.Gross), FormatAmount(s.Expenses), FormatAmount(s.Payroll), FormatAmount(s.Net))
	fmt.Fprintf(&b, "Card: %s   Cheque: %s   Cash: %s   Vouchers: %s\n",
		FormatAmount(s.Card), FormatAmount(s.Cheque), FormatAmount(s.Cash), FormatAmount(s.Vouchers))
	fmt.Fprintf(&b, "Deposits: %s   Cash on hand: %s\n", FormatAmount(s.Deposits), FormatAmount(s.CashOnHand))
	fmt.Fprintf(&b, "Invoices paid: %s   Invoices owed: %s", FormatAmount(s.InvoicesPaid), FormatAmount(s.InvoicesOwed))

	if s.ProfitMargin != nil {
		fmt.Fprintf(&b, "   Margin: %s%%", s.ProfitMargin.Mul(hundred).StringFixed(1))
	}

	return lipgloss.NewStyle().Faint(true).Render(b.String())
}

type reportLoadedMsg struct {
	records []*daily.Record
	summary *stats.Summary
	err     error
}

func (m ReportModel) loadCmd() tea.Cmd {
	start, end := m.start, m.end

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := m.dailyService.Range(ctx, start, end)
		if err != nil {
			return reportLoadedMsg{err: err}
		}

		summary, err := m.statsService.Payments(ctx, start, end)
		if err != nil {
			return reportLoadedMsg{err: err}
		}

		return reportLoadedMsg{records: records, summary: summary}
	}
}
