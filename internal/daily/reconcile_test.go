package daily_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/money"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(key string) time.Time {
	t, err := time.Parse(time.DateOnly, key)
	if err != nil {
		panic(err)
	}

	return t
}

func mixedSources() daily.Sources {
	return daily.Sources{
		Row: &daily.Row{
			Date:  day("2026-01-15"),
			Gross: dec("2000.000"),
			Cash:  dec("1200.000"),
			Lists: map[lineitem.Category]any{
				lineitem.CategoryPurchase: `[{"supplier":"Sonede","amount":150.000}]`,
			},
			Locked: true,
		},
		Invoices: []*invoice.Invoice{{
			ID:            uuid.New(),
			Supplier:      "Steg",
			Amount:        dec("80.000"),
			Status:        invoice.StatusPaid,
			PaymentMethod: invoice.PaymentCheque,
			PaidDate:      "2026-01-15",
			Photo:         "steg.jpg",
			Photos:        []string{"steg.jpg", "cheque.jpg"},
		}},
		Payroll: map[payroll.Kind][]*payroll.Adjustment{
			payroll.KindAdvance: {{Kind: payroll.KindAdvance, Employee: "Karim", Amount: dec("50.000"), Date: day("2026-01-15")}},
		},
	}
}

func TestReconcile_MixedSources(t *testing.T) {
	rec := daily.Reconcile("2026-01-15", mixedSources())

	assert.True(t, rec.Recorded)
	assert.True(t, rec.Locked)
	assert.Equal(t, "280.000", money.Format(rec.TotalExpenses))
	assert.Equal(t, "1720.000", money.Format(rec.Net))

	purchases := rec.Items[lineitem.CategoryPurchase]
	require.Len(t, purchases, 2)
	assert.Equal(t, "Sonede", purchases[0].Name)
	assert.Equal(t, lineitem.SourceManual, purchases[0].Source)
	assert.Equal(t, "Steg", purchases[1].Name)
	assert.Equal(t, lineitem.SourceInvoice, purchases[1].Source)
	assert.Equal(t, "cheque", purchases[1].PaymentMethod)
	assert.Equal(t, []string{"steg.jpg", "cheque.jpg"}, purchases[1].Photos)
	require.NotNil(t, purchases[1].InvoiceID)

	require.Len(t, rec.Payroll[payroll.KindAdvance], 1)
	assert.Empty(t, rec.Payroll[payroll.KindBonus])
	assert.NotNil(t, rec.Payroll[payroll.KindBonus])
}

func TestReconcile_MalformedCategory(t *testing.T) {
	src := daily.Sources{
		Row: &daily.Row{
			Date:  day("2026-01-15"),
			Gross: dec("500.000"),
			Lists: map[lineitem.Category]any{
				lineitem.CategoryMisc:  "pas une liste",
				lineitem.CategoryAdmin: `[{"designation":"Timbre","amount":"2.500"}]`,
			},
		},
	}

	rec := daily.Reconcile("2026-01-15", src)

	assert.Empty(t, rec.Items[lineitem.CategoryMisc])
	assert.NotNil(t, rec.Items[lineitem.CategoryMisc])
	assert.Equal(t, "2.500", money.Format(rec.TotalExpenses))
	assert.Equal(t, "497.500", money.Format(rec.Net))
}

func TestReconcile_PayrollOnlyPlaceholder(t *testing.T) {
	src := daily.Sources{
		Payroll: map[payroll.Kind][]*payroll.Adjustment{
			payroll.KindExtra: {{Employee: "Sami", Amount: dec("20.000")}},
			payroll.KindBonus: {{Employee: "Karim", Amount: dec("15.500")}},
		},
	}

	rec := daily.Reconcile("2026-01-16", src)

	assert.False(t, rec.Recorded)
	assert.False(t, rec.Locked)
	assert.True(t, rec.Gross.IsZero())
	assert.Equal(t, "35.500", money.Format(rec.TotalExpenses))
	assert.Equal(t, "-35.500", money.Format(rec.Net))

	for _, c := range lineitem.Categories {
		assert.Empty(t, rec.Items[c], c)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	src := mixedSources()

	first := daily.Reconcile("2026-01-15", src)
	second := daily.Reconcile("2026-01-15", src)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"steg.jpg", "cheque.jpg"}, src.Invoices[0].Photos)
	assert.Equal(t, `[{"supplier":"Sonede","amount":150.000}]`, src.Row.Lists[lineitem.CategoryPurchase])
}

func TestReconcile_NetInvariant(t *testing.T) {
	amounts := []string{"0.001", "1999.999", "12.345", "0", "7.1"}

	for _, gross := range amounts {
		for _, expense := range amounts {
			src := daily.Sources{
				Row: &daily.Row{
					Gross: dec(gross),
					Lists: map[lineitem.Category]any{
						lineitem.CategoryDaily: []lineitem.Item{{Name: "Pain", Amount: dec(expense)}},
					},
				},
				Payroll: map[payroll.Kind][]*payroll.Adjustment{
					payroll.KindDoubling: {{Amount: dec(expense)}},
				},
			}

			rec := daily.Reconcile("2026-01-15", src)
			assert.True(t, rec.Net.Equal(rec.Gross.Sub(rec.TotalExpenses)))
			assert.True(t, rec.TotalExpenses.Equal(dec(expense).Add(dec(expense))))
		}
	}
}
