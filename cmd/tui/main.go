package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/recette/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/recette/internal/config"
	"github.com/MrJamesThe3rd/recette/internal/daily"
	dailyStore "github.com/MrJamesThe3rd/recette/internal/daily/store"
	"github.com/MrJamesThe3rd/recette/internal/database"
	"github.com/MrJamesThe3rd/recette/internal/deposit"
	depositStore "github.com/MrJamesThe3rd/recette/internal/deposit/store"
	"github.com/MrJamesThe3rd/recette/internal/events"
	"github.com/MrJamesThe3rd/recette/internal/events/kafka"
	"github.com/MrJamesThe3rd/recette/internal/export"
	"github.com/MrJamesThe3rd/recette/internal/importer"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/recette/internal/invoice/store"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
	payrollStore "github.com/MrJamesThe3rd/recette/internal/payroll/store"
	"github.com/MrJamesThe3rd/recette/internal/photo"
	"github.com/MrJamesThe3rd/recette/internal/stats"
	statsStore "github.com/MrJamesThe3rd/recette/internal/stats/store"
)

type model struct {
	screens []screen
	active  view.View
}

// screen is a menu entry; open builds a fresh view each time it is chosen.
type screen struct {
	key   string
	label string
	open  func() view.View
}

func initialModel(ctx context.Context) model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.ConnectionString(), cfg.DB.MaxConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	photos, err := photo.NewLocal(cfg.Storage.LocalDir, cfg.Storage.BaseURL)
	if err != nil {
		slog.Error("failed to open photo directory", "error", err)
		os.Exit(1)
	}

	invoiceSvc := invoice.NewService(invoiceStore.New(db), publisher)
	payrollSvc := payroll.NewService(payrollStore.New(db))
	depositSvc := deposit.NewService(depositStore.New(db))
	dailySvc := daily.NewService(dailyStore.New(db), invoiceSvc, payrollSvc, publisher)
	statsSvc := stats.NewService(statsStore.New(db, cfg.Payroll.TablePrefix), dailySvc, invoiceSvc, depositSvc)
	importSvc := importer.NewService(depositSvc, cfg.Import.DepositKeywords...)
	exportSvc := export.NewService(dailySvc, photo.NewService(photos, cfg.Storage.MaxPhotoWidth))

	payer := cfg.Auth.AdminUsername
	if payer == "" {
		payer = os.Getenv("USER")
	}

	return model{screens: []screen{
		{"1", "Daily Report", func() view.View { return view.NewReportModel(dailySvc, statsSvc) }},
		{"2", "Invoices", func() view.View { return view.NewInvoiceModel(invoiceSvc, payer) }},
		{"3", "Import Bank Statement", func() view.View { return view.NewImportModel(importSvc) }},
		{"4", "Export", func() view.View { return view.NewExportModel(exportSvc) }},
	}}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if _, ok := msg.(view.BackMsg); ok {
		m.active = nil
		return m, nil
	}

	if m.active != nil {
		next, cmd := m.active.Update(msg)
		m.active = next.(view.View)

		return m, cmd
	}

	if !isKey {
		return m, nil
	}

	if keyMsg.String() == "q" {
		return m, tea.Quit
	}

	for _, s := range m.screens {
		if keyMsg.String() == s.key {
			m.active = s.open()
			return m, m.active.Init()
		}
	}

	return m, nil
}

func (m model) View() string {
	if m.active != nil {
		return view.Frame(m.active)
	}

	var b strings.Builder

	b.WriteString("Recette\n\n")

	for _, s := range m.screens {
		fmt.Fprintf(&b, "%s. %s\n", s.key, s.label)
	}

	b.WriteString("\nq. Quit")

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func main() {
	p := tea.NewProgram(initialModel(context.Background()))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
