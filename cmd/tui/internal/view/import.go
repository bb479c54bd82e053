package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/deposit"
	"github.com/MrJamesThe3rd/recette/internal/importer"
	"github.com/MrJamesThe3rd/recette/internal/money"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateParsing
	importStatePreview
	importStateImporting
	importStateResult
)

type ImportModel struct {
	importService *importer.Service

	state         importState
	filePicker    filepicker.Model
	formatOptions []importer.Format
	formatCursor  int
	path          string

	deposits []deposit.CreateParams
	preview  list.Model

	status string
	err    error
}

func NewImportModel(svc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: svc,
		filePicker:    fp,
		formatOptions: []importer.Format{
			importer.FormatAuto,
			importer.FormatCompte,
			importer.FormatValeur,
			importer.FormatReleve,
		},
	}
}

func (m ImportModel) Title() string { return "Import Bank Statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: import deposits | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateFormatSelect:
			return m.updateFormatSelect(msg)
		case importStatePreview:
			if msg.Type == tea.KeyEnter {
				m.state = importStateImporting
				m.status = fmt.Sprintf("Importing %d deposits...", len(m.deposits))

				return m, m.importCmd()
			}

			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)

			return m, cmd
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.deposits) == 0 {
			m.state = importStateResult
			m.status = "No deposits found in this statement."

			return m, nil
		}

		m.deposits = msg.deposits
		m.state = importStatePreview
		m.preview = newDepositList(msg.deposits)

		return m, nil

	case importDoneMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d deposits, %d already known.", msg.result.Inserted, msg.result.Skipped)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStateParsing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.parseCmd()
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStatePreview, importStateResult:
		m.state = importStateFormatSelect
		m.deposits = nil
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(m.formatOptions)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) format() importer.Format {
	return m.formatOptions[m.formatCursor]
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select statement to import (%s):\n\n%s", m.format(), m.filePicker.View()),
		)
	case importStateParsing, importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.preview.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFormatSelect() string {
	s := "Statement layout:\n\n"

	for i, f := range m.formatOptions {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(f))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status)
	if m.err != nil {
		status = errorStyle(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(status + "\n\n(Esc to go back)")
}

// Messages

type parseResultMsg struct {
	deposits []deposit.CreateParams
	err      error
}

func (m ImportModel) parseCmd() tea.Cmd {
	path, format := m.path, m.format()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		deposits, err := m.importService.Parse(format, f)

		return parseResultMsg{deposits: deposits, err: err}
	}
}

type importDoneMsg struct {
	result importer.Result
	err    error
}

func (m ImportModel) importCmd() tea.Cmd {
	path, format := m.path, m.format()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		f, err := os.Open(path)
		if err != nil {
			return importDoneMsg{err: err}
		}
		defer f.Close()

		result, err := m.importService.Import(ctx, format, f)

		return importDoneMsg{result: result, err: err}
	}
}

// Preview list

type depositItem struct {
	params deposit.CreateParams
}

func (i depositItem) Title() string       { return i.params.Note }
func (i depositItem) Description() string { return "" }
func (i depositItem) FilterValue() string { return i.params.Note }

type depositDelegate struct{}

func (d depositDelegate) Height() int                             { return 1 }
func (d depositDelegate) Spacing() int                            { return 0 }
func (d depositDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d depositDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(depositItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	fmt.Fprintf(w, "%s%s  %12s  %s", cursor, FormatDate(item.params.Date), FormatAmount(item.params.Amount), item.params.Note)
}

func newDepositList(deposits []deposit.CreateParams) list.Model {
	items := make([]list.Item, len(deposits))
	total := make([]decimal.Decimal, len(deposits))

	for i, d := range deposits {
		items[i] = depositItem{params: d}
		total[i] = d.Amount
	}

	l := list.New(items, depositDelegate{}, 80, 20)
	l.Title = fmt.Sprintf("%d deposits, total %s", len(deposits), FormatAmount(money.Sum(total...)))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}
