package stats_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/money"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
	"github.com/MrJamesThe3rd/recette/internal/stats"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type mocks struct {
	repo     *stats.MockRepository
	records  *stats.MockRecordSource
	invoices *stats.MockInvoiceSource
	deposits *stats.MockDepositSource
}

func newService(t *testing.T) (*stats.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:     stats.NewMockRepository(ctrl),
		records:  stats.NewMockRecordSource(ctrl),
		invoices: stats.NewMockInvoiceSource(ctrl),
		deposits: stats.NewMockDepositSource(ctrl),
	}

	return stats.NewService(m.repo, m.records, m.invoices, m.deposits), m
}

// sampleRecords reconciles two days the way the daily service would.
func sampleRecords() []*daily.Record {
	first := daily.Reconcile("2026-01-15", daily.Sources{
		Row: &daily.Row{
			Gross:  dec("2000.000"),
			Card:   dec("500.000"),
			Cheque: dec("100.000"),
			Cash:   dec("1300.000"),
			Lists: map[lineitem.Category]any{
				lineitem.CategoryPurchase: `[{"supplier":"Sonede","amount":"150.000"}]`,
				lineitem.CategoryMisc:     `[{"designation":"Gaz","amount":"30.000"}]`,
			},
		},
		Invoices: []*invoice.Invoice{
			{ID: uuid.New(), Supplier: "Steg", Amount: dec("80.000"), PaymentMethod: invoice.PaymentCheque},
		},
		Payroll: map[payroll.Kind][]*payroll.Adjustment{
			payroll.KindAdvance: {{Employee: "Karim", Amount: dec("50.000")}},
		},
	})

	second := daily.Reconcile("2026-01-16", daily.Sources{
		Row: &daily.Row{
			Gross:    dec("1000.000"),
			Cash:     dec("900.000"),
			Vouchers: dec("100.000"),
			Lists: map[lineitem.Category]any{
				lineitem.CategoryPurchase: `[{"supplier":"SONEDE","amount":"50.000"}]`,
				lineitem.CategoryDaily:    `[{"designation":"gaz","amount":"5.000"},{"designation":"Pain","amount":"40.000"}]`,
			},
		},
		Invoices: []*invoice.Invoice{
			{ID: uuid.New(), Supplier: "Steg", Amount: dec("20.000"), PaymentMethod: invoice.PaymentCash},
		},
	})

	return []*daily.Record{first, second}
}

func TestService_MonthlySalaries_MissingTable(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		MonthlySalary(gomock.Any(), datekey.YearMonth{Year: 2025, Month: 12}).
		Return(dec("4200.000"), true, nil)
	m.repo.EXPECT().
		MonthlySalary(gomock.Any(), datekey.YearMonth{Year: 2026, Month: 1}).
		Return(decimal.Zero, false, nil)

	got, err := svc.MonthlySalaries(context.Background(), "2025-12-10", "2026-01-05")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "2025-12", got[0].Month)
	assert.True(t, got[0].Available)
	assert.Equal(t, "4200.000", money.Format(got[0].Total))

	assert.Equal(t, "2026-01", got[1].Month)
	assert.False(t, got[1].Available)
	assert.True(t, got[1].Total.IsZero())
}

func TestService_Rankings(t *testing.T) {
	type testCase struct {
		name   string
		by     stats.RankBy
		filter string
		want   []stats.Ranking
	}

	tests := []testCase{
		{
			name: "Suppliers",
			by:   stats.RankBySupplier,
			want: []stats.Ranking{
				{Name: "Sonede", Total: dec("200.000"), Count: 2},
				{Name: "Steg", Total: dec("100.000"), Count: 2},
			},
		},
		{
			name:   "DesignationsFiltered",
			by:     stats.RankByDesignation,
			filter: "GA",
			want: []stats.Ranking{
				{Name: "Gaz", Total: dec("35.000"), Count: 2},
			},
		},
		{
			name: "PaymentMethods",
			by:   stats.RankByPaymentMethod,
			want: []stats.Ranking{
				{Name: "cheque", Total: dec("80.000"), Count: 1},
				{Name: "cash", Total: dec("20.000"), Count: 1},
			},
		},
		{
			name:   "NoMatch",
			by:     stats.RankBySupplier,
			filter: "zzz",
			want:   []stats.Ranking{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			m.records.EXPECT().Range(gomock.Any(), "2026-01-01", "2026-01-31").Return(sampleRecords(), nil)

			got, err := svc.Rankings(context.Background(), "2026-01-01", "2026-01-31", tt.by, tt.filter)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			for i := range tt.want {
				assert.Equal(t, tt.want[i].Name, got[i].Name)
				assert.Equal(t, tt.want[i].Count, got[i].Count)
				assert.True(t, tt.want[i].Total.Equal(got[i].Total), "%s: %s != %s", tt.want[i].Name, tt.want[i].Total, got[i].Total)
			}
		})
	}
}

func TestService_Rankings_UnknownKind(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Rankings(context.Background(), "2026-01-01", "2026-01-31", "weekday", "")
	assert.Error(t, err)
}

func TestService_PaidUsers(t *testing.T) {
	svc, m := newService(t)

	m.invoices.EXPECT().ListPaidBetween(gomock.Any(), "2026-01-01", "2026-01-31").Return([]*invoice.Invoice{
		{PaidBy: "Amel", Amount: dec("10.000")},
		{PaidBy: "Karim", Amount: dec("60.000")},
		{PaidBy: "amel ", Amount: dec("55.000")},
	}, nil)

	got, err := svc.PaidUsers(context.Background(), "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Amel", got[0].Name)
	assert.Equal(t, "65.000", money.Format(got[0].Total))
	assert.Equal(t, "Karim", got[1].Name)
}

func TestService_Payments(t *testing.T) {
	svc, m := newService(t)

	m.records.EXPECT().Range(gomock.Any(), "2026-01-01", "2026-01-31").Return(sampleRecords(), nil)
	m.invoices.EXPECT().ListPaidBetween(gomock.Any(), "2026-01-01", "2026-01-31").Return([]*invoice.Invoice{
		{Amount: dec("80.000"), PaymentMethod: invoice.PaymentCheque},
		{Amount: dec("20.000"), PaymentMethod: invoice.PaymentCash},
	}, nil)
	m.invoices.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*invoice.Invoice{
		{Amount: dec("300.000")},
	}, nil)
	m.deposits.EXPECT().Total(gomock.Any(), "2026-01-01", "2026-01-31").Return(dec("1500.000"), nil)

	got, err := svc.Payments(context.Background(), "2026-01-01", "2026-01-31")
	require.NoError(t, err)

	assert.Equal(t, 2, got.Days)
	assert.Equal(t, "3000.000", money.Format(got.Gross))
	// day one: 150 + 30 + 80 + 50, day two: 50 + 5 + 40 + 20
	assert.Equal(t, "425.000", money.Format(got.Expenses))
	assert.Equal(t, "50.000", money.Format(got.Payroll))
	assert.Equal(t, "2575.000", money.Format(got.Net))
	assert.Equal(t, "2200.000", money.Format(got.Cash))
	assert.Equal(t, "700.000", money.Format(got.CashOnHand))
	assert.Equal(t, "100.000", money.Format(got.Vouchers))
	assert.Equal(t, "100.000", money.Format(got.InvoicesPaid))
	assert.Equal(t, "300.000", money.Format(got.InvoicesOwed))
	assert.Equal(t, "80.000", money.Format(got.ByMethod["cheque"]))
	require.NotNil(t, got.ProfitMargin)
	assert.Equal(t, "0.8583", got.ProfitMargin.StringFixed(4))
}
