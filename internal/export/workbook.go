package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/money"
)

const (
	journalSheet  = "Journal"
	invoicesSheet = "Factures"
)

var journalHeader = []string{
	"Date", "Recette brute", "Carte", "Chèque", "Espèces", "Tickets resto",
	"Achats", "Divers", "Journalier", "Admin", "Paie", "Total dépenses", "Net", "Verrouillé",
}

var invoicesHeader = []string{"Date", "Fournisseur", "Montant", "Mode", "Photos"}

// Workbook renders the reconciled days between start and end as a
// spreadsheet with one row per active day and one row per paid invoice.
func (s *Service) Workbook(ctx context.Context, start, end string) (*excelize.File, error) {
	records, err := s.records.Range(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	return buildWorkbook(records)
}

func buildWorkbook(records []*daily.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", journalSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	if _, err := f.NewSheet(invoicesSheet); err != nil {
		return nil, fmt.Errorf("adding sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	if err := writeRow(f, journalSheet, 1, toCells(journalHeader)); err != nil {
		return nil, err
	}

	if err := writeRow(f, invoicesSheet, 1, toCells(invoicesHeader)); err != nil {
		return nil, err
	}

	totals := make([]decimal.Decimal, 12)
	invoiceRow := 2

	for i, rec := range records {
		amounts := []decimal.Decimal{
			rec.Gross, rec.Card, rec.Cheque, rec.Cash, rec.Vouchers,
			lineitem.Sum(rec.Items[lineitem.CategoryPurchase]),
			lineitem.Sum(rec.Items[lineitem.CategoryMisc]),
			lineitem.Sum(rec.Items[lineitem.CategoryDaily]),
			lineitem.Sum(rec.Items[lineitem.CategoryAdmin]),
			rec.PayrollTotal(),
			rec.TotalExpenses,
			rec.Net,
		}

		row := []cell{{text: rec.Date}}
		for j, a := range amounts {
			totals[j] = totals[j].Add(a)
			row = append(row, cell{number: money.Format(a)})
		}

		locked := "non"
		if rec.Locked {
			locked = "oui"
		}

		row = append(row, cell{text: locked})

		if err := writeRow(f, journalSheet, i+2, row); err != nil {
			return nil, err
		}

		for _, entry := range rec.Items[lineitem.CategoryPurchase] {
			if !entry.FromInvoice() {
				continue
			}

			err := writeRow(f, invoicesSheet, invoiceRow, []cell{
				{text: rec.Date},
				{text: entry.Name},
				{number: money.Format(entry.Amount)},
				{text: entry.PaymentMethod},
				{text: strings.Join(entry.Photos, " ")},
			})
			if err != nil {
				return nil, err
			}

			invoiceRow++
		}
	}

	totalRow := []cell{{text: "Total"}}
	for _, t := range totals {
		totalRow = append(totalRow, cell{number: money.Format(t)})
	}

	last := len(records) + 2
	if err := writeRow(f, journalSheet, last, totalRow); err != nil {
		return nil, err
	}

	if err := f.SetRowStyle(journalSheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	if err := f.SetRowStyle(invoicesSheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	if err := f.SetRowStyle(journalSheet, last, last, bold); err != nil {
		return nil, fmt.Errorf("styling totals: %w", err)
	}

	if err := f.SetColWidth(journalSheet, "A", "N", 14); err != nil {
		return nil, fmt.Errorf("sizing columns: %w", err)
	}

	if err := f.SetColWidth(invoicesSheet, "A", "E", 18); err != nil {
		return nil, fmt.Errorf("sizing columns: %w", err)
	}

	return f, nil
}

// cell is either text or a decimal number written verbatim, so amounts keep
// their exact digits in the sheet.
type cell struct {
	text   string
	number string
}

func toCells(values []string) []cell {
	cells := make([]cell, len(values))
	for i, v := range values {
		cells[i] = cell{text: v}
	}

	return cells
}

func writeRow(f *excelize.File, sheet string, row int, cells []cell) error {
	for col, c := range cells {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("addressing cell: %w", err)
		}

		if c.number != "" {
			err = f.SetCellDefault(sheet, name, c.number)
		} else {
			err = f.SetCellStr(sheet, name, c.text)
		}

		if err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, name, err)
		}
	}

	return nil
}

// Archive writes a zip holding the workbook, the downloaded invoice photos
// and a plain-text summary of the invoices.
func (s *Service) Archive(ctx context.Context, start, end string, w io.Writer) error {
	tmpDir, err := os.MkdirTemp("", "recette-export-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	records, err := s.records.Range(ctx, start, end)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	book, err := buildWorkbook(records)
	if err != nil {
		return err
	}
	defer book.Close()

	if err := book.SaveAs(filepath.Join(tmpDir, fmt.Sprintf("recette_%s_%s.xlsx", start, end))); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	items, err := s.collect(ctx, records, filepath.Join(tmpDir, "photos"))
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "factures.txt"), []byte(s.GenerateSummary(items)), 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	zw := zip.NewWriter(w)

	err = filepath.Walk(tmpDir, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		rel, err := filepath.Rel(tmpDir, p)
		if err != nil {
			return err
		}

		zf, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("writing archive: %w", err)
	}

	return zw.Close()
}
