package export

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/photo"
)

type fakeRecords struct {
	records []*daily.Record
}

func (f fakeRecords) Range(context.Context, string, string) ([]*daily.Record, error) {
	return f.records, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newFixture(t *testing.T) (*Service, string) {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/scan.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="facture 12.pdf"`)
			w.Write([]byte("fake pdf content"))
		case "/raw":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("fake png"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)

	store, err := photo.NewLocal(t.TempDir(), "/photos")
	require.NoError(t, err)

	stored, err := store.Put(context.Background(), "invoices/steg.jpg", "image/jpeg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	records := []*daily.Record{
		daily.Reconcile("2026-01-15", daily.Sources{
			Row: &daily.Row{
				Gross: dec("2000.000"),
				Cash:  dec("1500.000"),
				Lists: map[lineitem.Category]any{
					lineitem.CategoryPurchase: `[{"supplier":"Sonede","amount":"150.000"}]`,
				},
				Locked: true,
			},
			Invoices: []*invoice.Invoice{{
				ID:            uuid.New(),
				Supplier:      "Steg Nord",
				Amount:        dec("80.000"),
				PaymentMethod: invoice.PaymentCheque,
				Photo:         stored,
				Photos:        []string{ts.URL + "/scan.pdf", ts.URL + "/missing.jpg"},
			}},
		}),
		daily.Reconcile("2026-01-16", daily.Sources{
			Invoices: []*invoice.Invoice{{
				ID:            uuid.New(),
				Supplier:      "Gaz",
				Amount:        dec("20.500"),
				PaymentMethod: invoice.PaymentCash,
				Photos:        []string{ts.URL + "/raw"},
			}},
		}),
	}

	return NewService(fakeRecords{records: records}, store), ts.URL
}

func TestService_Export(t *testing.T) {
	svc, _ := newFixture(t)
	dir := t.TempDir()

	items, err := svc.Export(context.Background(), "2026-01-01", "2026-01-31", dir)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Steg Nord", items[0].Entry.Name)
	require.Len(t, items[0].Files, 2)
	assert.Equal(t, "20260115_Steg_Nord_1.jpg", filepath.Base(items[0].Files[0]))
	assert.Equal(t, "20260115_Steg_Nord_2_facture_12.pdf", filepath.Base(items[0].Files[1]))

	content, err := os.ReadFile(items[0].Files[1])
	require.NoError(t, err)
	assert.Equal(t, "fake pdf content", string(content))

	require.Len(t, items[1].Files, 1)
	assert.Equal(t, "20260116_Gaz_1.png", filepath.Base(items[1].Files[0]))
}

func TestService_GenerateSummary(t *testing.T) {
	s := &Service{}

	body := s.GenerateSummary([]Item{
		{
			Date:  "2026-01-15",
			Entry: lineitem.Item{Name: "Steg", Amount: dec("80"), PaymentMethod: "cheque"},
			Files: []string{"/tmp/a.jpg", "/tmp/b.pdf"},
		},
		{
			Date:  "2026-01-16",
			Entry: lineitem.Item{Name: "Gaz", Amount: dec("20.5")},
		},
	})

	assert.Contains(t, body, "* 2026-01-15 | Steg | 80.000 TND | cheque | a.jpg, b.pdf")
	assert.Contains(t, body, "* 2026-01-16 | Gaz | 20.500 TND | ? | Sans photo")
}

func TestService_Workbook(t *testing.T) {
	svc, _ := newFixture(t)

	f, err := svc.Workbook(context.Background(), "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{journalSheet, invoicesSheet}, f.GetSheetList())

	rows, err := f.GetRows(journalSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, journalHeader, rows[0])
	assert.Equal(t, "2026-01-15", rows[1][0])
	assert.Equal(t, "2000.000", rows[1][1])
	assert.Equal(t, "230.000", rows[1][6])
	assert.Equal(t, "1770.000", rows[1][12])
	assert.Equal(t, "oui", rows[1][13])
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "250.500", rows[3][11])

	invoices, err := f.GetRows(invoicesSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, invoices, 3)
	assert.Equal(t, "Steg Nord", invoices[1][1])
	assert.Equal(t, "80.000", invoices[1][2])
	assert.Equal(t, "cash", invoices[2][3])
}

func TestService_Archive(t *testing.T) {
	svc, _ := newFixture(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Archive(context.Background(), "2026-01-01", "2026-01-31", &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.ElementsMatch(t, []string{
		"factures.txt",
		"recette_2026-01-01_2026-01-31.xlsx",
		"photos/20260115_Steg_Nord_1.jpg",
		"photos/20260115_Steg_Nord_2_facture_12.pdf",
		"photos/20260116_Gaz_1.png",
	}, names)

	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".xlsx") {
			continue
		}

		rc, err := f.Open()
		require.NoError(t, err)

		book, err := excelize.OpenReader(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		v, err := book.GetCellValue(journalSheet, "B2", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "2000.000", v)
	}
}
