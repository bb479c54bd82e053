package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/recette/internal/invoice"
)

type invoiceState int

const (
	invoiceStateBrowse invoiceState = iota
	invoiceStatePay
)

var invoiceStatusFilters = []struct {
	label  string
	status *invoice.Status
}{
	{"Unpaid", new(invoice.StatusUnpaid)},
	{"Paid", new(invoice.StatusPaid)},
	{"All", nil},
}

type InvoiceModel struct {
	invoiceService *invoice.Service

	state    invoiceState
	table    table.Model
	invoices []*invoice.Invoice
	form     *huh.Form

	statusFilterIdx int

	loading bool
	err     error
	status  string

	payer string
}

func NewInvoiceModel(svc *invoice.Service, payer string) InvoiceModel {
	columns := []table.Column{
		{Title: "Issued", Width: 12},
		{Title: "Supplier", Width: 28},
		{Title: "Amount", Width: 12},
		{Title: "Status", Width: 8},
		{Title: "Method", Width: 10},
		{Title: "Paid", Width: 12},
		{Title: "By", Width: 12},
	}

	return InvoiceModel{
		invoiceService: svc,
		table:          newTable(columns),
		payer:          payer,
		loading:        true,
	}
}

func (m InvoiceModel) Title() string { return "Invoices" }

func (m InvoiceModel) ShortHelp() string {
	if m.state == invoiceStatePay {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: pay | u: unpay | s: status filter | r: refresh"
}

func (m InvoiceModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.invoices = msg.invoices
		m.refreshTable()

		return m, nil

	case invoiceActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = invoiceStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == invoiceStatePay {
		return m.updatePay(msg)
	}

	return m.updateBrowse(msg)
}

func (m InvoiceModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(invoiceStatusFilters)
			m.loading = true

			return m, m.loadCmd()
		case "p":
			return m.enterPayMode()
		case "u":
			inv := m.selected()
			if inv == nil || inv.Status != invoice.StatusPaid {
				return m, nil
			}

			return m, m.unpayCmd(inv)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoiceModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	return m.invoices[idx]
}

func (m InvoiceModel) enterPayMode() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil || inv.Status == invoice.StatusPaid {
		return m, nil
	}

	method, payer := string(invoice.PaymentCash), m.payer

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("method").
				Title("Payment method").
				Options(
					huh.NewOption("Cash", string(invoice.PaymentCash)),
					huh.NewOption("Cheque", string(invoice.PaymentCheque)),
					huh.NewOption("Transfer", string(invoice.PaymentTransfer)),
					huh.NewOption("Card", string(invoice.PaymentCard)),
				).
				Value(&method),

			huh.NewInput().
				Key("paid_by").
				Title("Paid by").
				Value(&payer).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("payer cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = invoiceStatePay
	m.table.Blur()

	return m, m.form.Init()
}

func (m InvoiceModel) updatePay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invoiceStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.payCmd()
}

func (m *InvoiceModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			FormatDate(inv.IssueDate),
			inv.Supplier,
			FormatAmount(inv.Amount),
			string(inv.Status),
			string(inv.PaymentMethod),
			inv.PaidDate,
			inv.PaidBy,
		})
	}

	m.table.SetRows(rows)
}

func (m InvoiceModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(invoiceStatusFilters[m.statusFilterIdx].label))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == invoiceStatePay && m.form != nil {
		summary := ""
		if inv := m.selected(); inv != nil {
			summary = fmt.Sprintf("%s\n%s", inv.Supplier, FormatAmount(inv.Amount))
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(fmt.Sprintf("Pay Invoice\n\n%s\n\n%s", summary, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoiceModel) loadCmd() tea.Cmd {
	filter := invoice.ListFilter{Status: invoiceStatusFilters[m.statusFilterIdx].status}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoices, err := m.invoiceService.List(ctx, filter)

		return loadInvoicesMsg{invoices: invoices, err: err}
	}
}

type invoiceActionMsg struct {
	status string
	err    error
}

func (m InvoiceModel) payCmd() tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	params := invoice.PayParams{
		Method: invoice.PaymentMethod(m.form.GetString("method")),
		Date:   FormatDate(time.Now()),
		PaidBy: strings.TrimSpace(m.form.GetString("paid_by")),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.invoiceService.Pay(ctx, inv.ID, params); err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{status: fmt.Sprintf("Paid %s (%s)", inv.Supplier, FormatAmount(inv.Amount))}
	}
}

func (m InvoiceModel) unpayCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.invoiceService.Unpay(ctx, inv.ID); err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{status: fmt.Sprintf("Reverted payment of %s", inv.Supplier)}
	}
}
