package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/recette/internal/export"
)

const exportTimeout = 2 * time.Minute

type exportKind string

const (
	exportFolder   exportKind = "folder"
	exportWorkbook exportKind = "workbook"
	exportArchive  exportKind = "archive"
)

type exportStep int

const (
	exportStepRange exportStep = iota
	exportStepOptions
	exportStepRunning
	exportStepDone
)

// ExportModel writes the paid invoices of a range to disk, either as a folder of
// photos with a summary, as a workbook, or as a zip holding both.
type ExportModel struct {
	exportService *export.Service

	step   exportStep
	picker TimeframePicker
	form   *huh.Form
	wait   spinner.Model

	start string
	end   string
	kind  string
	dir   string

	report string
	err    error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		picker:        NewTimeframePicker(TimeframeLastMonth),
		wait:          s,
		kind:          string(exportWorkbook),
		dir:           "./exports",
	}
}

func (m ExportModel) Title() string { return "Export" }

func (m ExportModel) ShortHelp() string {
	if m.step == exportStepDone {
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.start, m.end = msg.Start, msg.End
		m.form = m.optionsForm()
		m.step = exportStepOptions

		return m, m.form.Init()

	case exportDoneMsg:
		m.step = exportStepDone
		m.report, m.err = msg.report, msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.back()
		}
	}

	var cmd tea.Cmd

	switch m.step {
	case exportStepRange:
		m.picker, cmd = m.picker.Update(msg)
	case exportStepOptions:
		form, c := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, c
		}

		m.kind = m.form.GetString("kind")
		if dir := m.form.GetString("dir"); dir != "" {
			m.dir = dir
		}

		m.step = exportStepRunning
		m.err = nil

		return m, tea.Batch(m.wait.Tick, m.runCmd())
	case exportStepRunning:
		m.wait, cmd = m.wait.Update(msg)
	}

	return m, cmd
}

func (m ExportModel) back() (tea.Model, tea.Cmd) {
	switch m.step {
	case exportStepRange:
		if !m.picker.IsSelecting() {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(tea.KeyMsg{Type: tea.KeyEsc})

			return m, cmd
		}
	case exportStepOptions:
		m.step = exportStepRange
		m.picker.Reset()

		return m, nil
	case exportStepRunning:
		return m, nil
	}

	return m, Back
}

func (m ExportModel) optionsForm() *huh.Form {
	kind, dir := m.kind, m.dir

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Output").
				Options(
					huh.NewOption("Workbook (.xlsx)", string(exportWorkbook)),
					huh.NewOption("Archive (.zip with photos)", string(exportArchive)),
					huh.NewOption("Folder of photos + summary", string(exportFolder)),
				).
				Value(&kind),
			huh.NewInput().
				Key("dir").
				Title("Output directory").
				Description("Created when missing").
				Placeholder("./exports").
				Value(&dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case exportStepRange:
		return style.Render(m.picker.View())
	case exportStepOptions:
		return style.Render(fmt.Sprintf("Range: %s to %s\n\n%s", activeStyle(m.start), activeStyle(m.end), m.form.View()))
	case exportStepRunning:
		return style.Render(fmt.Sprintf("%s Exporting %s to %s...", m.wait.View(), m.start, m.end))
	}

	if m.err != nil {
		return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export Complete!")

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", m.report))
}

type exportDoneMsg struct {
	report string
	err    error
}

func (m ExportModel) runCmd() tea.Cmd {
	start, end, kind, dir := m.start, m.end, exportKind(m.kind), m.dir
	svc := m.exportService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		report, err := runExport(ctx, svc, kind, start, end, dir)

		return exportDoneMsg{report: report, err: err}
	}
}

func runExport(ctx context.Context, svc *export.Service, kind exportKind, start, end, dir string) (string, error) {
	if kind == exportFolder {
		items, err := svc.Export(ctx, start, end, dir)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%d invoices written to %s\n\n%s", len(items), dir, svc.GenerateSummary(items)), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	base := filepath.Join(dir, fmt.Sprintf("recette_%s_%s", start, end))

	if kind == exportWorkbook {
		book, err := svc.Workbook(ctx, start, end)
		if err != nil {
			return "", err
		}
		defer book.Close()

		if err := book.SaveAs(base + ".xlsx"); err != nil {
			return "", fmt.Errorf("saving workbook: %w", err)
		}

		return "Saved " + base + ".xlsx", nil
	}

	f, err := os.Create(base + ".zip")
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	if err := svc.Archive(ctx, start, end, f); err != nil {
		return "", err
	}

	return "Saved " + base + ".zip", nil
}
