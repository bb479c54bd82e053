package stats

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/textnorm"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=stats
type Repository interface {
	// MonthlySalary sums the paid net salaries of a month. found is false when
	// the month's payroll table does not exist.
	MonthlySalary(ctx context.Context, month datekey.YearMonth) (total decimal.Decimal, found bool, err error)
}

type RecordSource interface {
	Range(ctx context.Context, start, end string) ([]*daily.Record, error)
}

type InvoiceSource interface {
	ListPaidBetween(ctx context.Context, start, end string) ([]*invoice.Invoice, error)
	List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
}

type DepositSource interface {
	Total(ctx context.Context, start, end string) (decimal.Decimal, error)
}

type Service struct {
	repo     Repository
	records  RecordSource
	invoices InvoiceSource
	deposits DepositSource
}

func NewService(repo Repository, records RecordSource, invoices InvoiceSource, deposits DepositSource) *Service {
	return &Service{
		repo:     repo,
		records:  records,
		invoices: invoices,
		deposits: deposits,
	}
}

// MonthlySalaries returns one total per calendar month touched by the range.
// Months without a payroll table count as zero.
func (s *Service) MonthlySalaries(ctx context.Context, start, end string) ([]MonthTotal, error) {
	if _, err := datekey.Parse(start); err != nil {
		return nil, err
	}

	if _, err := datekey.Parse(end); err != nil {
		return nil, err
	}

	months := datekey.Months(start, end)
	totals := make([]MonthTotal, 0, len(months))

	for _, m := range months {
		total, found, err := s.repo.MonthlySalary(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("salaries of %s: %w", m, err)
		}

		if !found {
			total = decimal.Zero
		}

		totals = append(totals, MonthTotal{Month: m.String(), Total: total, Available: found})
	}

	return totals, nil
}

// Rankings groups the line items of the range and sorts the groups by total,
// largest first. Names matching filter (case-insensitive substring) are kept.
func (s *Service) Rankings(ctx context.Context, start, end string, by RankBy, filter string) ([]Ranking, error) {
	if !by.Valid() {
		return nil, fmt.Errorf("unknown ranking %q", by)
	}

	records, err := s.records.Range(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var items []lineitem.Item

	for _, rec := range records {
		switch by {
		case RankBySupplier:
			items = append(items, rec.Items[lineitem.CategoryPurchase]...)
		case RankByDesignation:
			items = append(items, rec.Items[lineitem.CategoryMisc]...)
			items = append(items, rec.Items[lineitem.CategoryDaily]...)
			items = append(items, rec.Items[lineitem.CategoryAdmin]...)
		case RankByPaymentMethod:
			for _, it := range rec.Items[lineitem.CategoryPurchase] {
				if it.FromInvoice() {
					it.Name = it.PaymentMethod
					items = append(items, it)
				}
			}
		}
	}

	r := newRanker()
	for _, it := range items {
		if textnorm.Contains(it.Name, filter) {
			r.add(it.Name, it.Amount)
		}
	}

	return r.sorted(), nil
}

// PaidUsers ranks the people who paid invoices in the range by amount paid.
func (s *Service) PaidUsers(ctx context.Context, start, end string) ([]Ranking, error) {
	invoices, err := s.invoices.ListPaidBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	r := newRanker()
	for _, inv := range invoices {
		r.add(inv.PaidBy, inv.Amount)
	}

	return r.sorted(), nil
}

// Payments summarizes the register splits, expenses, deposits and invoices of
// the range. Cash on hand is the register cash minus bank deposits.
func (s *Service) Payments(ctx context.Context, start, end string) (*Summary, error) {
	from, err := datekey.Parse(start)
	if err != nil {
		return nil, err
	}

	to, err := datekey.Parse(end)
	if err != nil {
		return nil, err
	}

	var (
		records  []*daily.Record
		paid     []*invoice.Invoice
		unpaid   []*invoice.Invoice
		deposits decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		records, err = s.records.Range(gctx, start, end)

		return err
	})

	g.Go(func() error {
		var err error

		paid, err = s.invoices.ListPaidBetween(gctx, start, end)

		return err
	})

	g.Go(func() error {
		status := invoice.StatusUnpaid

		var err error

		unpaid, err = s.invoices.List(gctx, invoice.ListFilter{Status: &status, StartDate: &from, EndDate: &to})

		return err
	})

	g.Go(func() error {
		var err error

		deposits, err = s.deposits.Total(gctx, start, end)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{
		Start:        start,
		End:          end,
		Days:         len(records),
		Gross:        decimal.Zero,
		Expenses:     decimal.Zero,
		Payroll:      decimal.Zero,
		Net:          decimal.Zero,
		Card:         decimal.Zero,
		Cheque:       decimal.Zero,
		Cash:         decimal.Zero,
		Vouchers:     decimal.Zero,
		Deposits:     deposits,
		InvoicesPaid: decimal.Zero,
		InvoicesOwed: decimal.Zero,
		ByMethod:     make(map[string]decimal.Decimal),
	}

	for _, rec := range records {
		sum.Gross = sum.Gross.Add(rec.Gross)
		sum.Expenses = sum.Expenses.Add(rec.TotalExpenses)
		sum.Payroll = sum.Payroll.Add(rec.PayrollTotal())
		sum.Net = sum.Net.Add(rec.Net)
		sum.Card = sum.Card.Add(rec.Card)
		sum.Cheque = sum.Cheque.Add(rec.Cheque)
		sum.Cash = sum.Cash.Add(rec.Cash)
		sum.Vouchers = sum.Vouchers.Add(rec.Vouchers)
	}

	for _, inv := range paid {
		sum.InvoicesPaid = sum.InvoicesPaid.Add(inv.Amount)

		method := string(inv.PaymentMethod)
		sum.ByMethod[method] = sum.ByMethod[method].Add(inv.Amount)
	}

	for _, inv := range unpaid {
		sum.InvoicesOwed = sum.InvoicesOwed.Add(inv.Amount)
	}

	sum.CashOnHand = sum.Cash.Sub(sum.Deposits)

	if !sum.Gross.IsZero() {
		margin := sum.Net.DivRound(sum.Gross, 4)
		sum.ProfitMargin = &margin
	}

	return sum, nil
}

// ranker accumulates totals per name, grouping names that differ only in case
// or spacing under the first spelling seen.
type ranker struct {
	index map[string]int
	rows  []Ranking
}

func newRanker() *ranker {
	return &ranker{index: make(map[string]int)}
}

func (r *ranker) add(name string, amount decimal.Decimal) {
	name = textnorm.Clean(name)
	key := textnorm.Fold(name)

	i, ok := r.index[key]
	if !ok {
		i = len(r.rows)
		r.index[key] = i
		r.rows = append(r.rows, Ranking{Name: name, Total: decimal.Zero})
	}

	r.rows[i].Total = r.rows[i].Total.Add(amount)
	r.rows[i].Count++
}

func (r *ranker) sorted() []Ranking {
	out := slices.Clone(r.rows)
	if out == nil {
		out = []Ranking{}
	}

	slices.SortStableFunc(out, func(a, b Ranking) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return cmp.Compare(textnorm.Fold(a.Name), textnorm.Fold(b.Name))
	})

	return out
}
