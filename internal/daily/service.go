package daily

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/events"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=daily
type Repository interface {
	Get(ctx context.Context, day time.Time) (*Row, error)
	List(ctx context.Context, start, end time.Time) ([]*Row, error)
	// Upsert inserts or replaces the row for row.Date.
	Upsert(ctx context.Context, row *Row) error
	SetLocked(ctx context.Context, day time.Time, locked bool) error
	LockedDates(ctx context.Context) ([]time.Time, error)
}

// InvoiceSource lists invoices by paid date.
type InvoiceSource interface {
	ListPaidBetween(ctx context.Context, start, end string) ([]*invoice.Invoice, error)
}

// PayrollSource lists payroll adjustments of one kind by date.
type PayrollSource interface {
	ListBetween(ctx context.Context, kind payroll.Kind, start, end string) ([]*payroll.Adjustment, error)
}

type Service struct {
	repo      Repository
	invoices  InvoiceSource
	payroll   PayrollSource
	publisher events.Publisher
}

func NewService(repo Repository, invoices InvoiceSource, payroll PayrollSource, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		invoices:  invoices,
		payroll:   payroll,
		publisher: publisher,
	}
}

type SaveParams struct {
	Date     string
	Gross    decimal.Decimal
	Card     decimal.Decimal
	Cheque   decimal.Decimal
	Cash     decimal.Decimal
	Vouchers decimal.Decimal
	Items    map[lineitem.Category][]lineitem.Item
}

// Get returns the reconciled record of one day. Days without any activity
// come back as a placeholder.
func (s *Service) Get(ctx context.Context, date string) (*Record, error) {
	key, ok := datekey.Normalize(date)
	if !ok {
		return nil, fmt.Errorf("invalid date %q", date)
	}

	records, err := s.Range(ctx, key, key)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return Reconcile(key, Sources{}), nil
	}

	return records[0], nil
}

// Range returns one reconciled record per active day between start and end
// inclusive, in ascending order. Days with no activity in any source are
// omitted.
func (s *Service) Range(ctx context.Context, start, end string) ([]*Record, error) {
	from, err := datekey.Parse(start)
	if err != nil {
		return nil, err
	}

	to, err := datekey.Parse(end)
	if err != nil {
		return nil, err
	}

	if to.Before(from) {
		return []*Record{}, nil
	}

	var (
		rows     []*Row
		invoices []*invoice.Invoice
		adjusts  = make([][]*payroll.Adjustment, len(payroll.Kinds))
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		rows, err = s.repo.List(gctx, from, to)
		if err != nil {
			return fmt.Errorf("listing daily records: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		invoices, err = s.invoices.ListPaidBetween(gctx, start, end)

		return err
	})

	for i, kind := range payroll.Kinds {
		g.Go(func() error {
			list, err := s.payroll.ListBetween(gctx, kind, start, end)
			if err != nil {
				return fmt.Errorf("listing %s: %w", kind, err)
			}

			adjusts[i] = list

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byDate := make(map[string]*Sources)

	sourcesFor := func(key string) *Sources {
		src, ok := byDate[key]
		if !ok {
			src = &Sources{Payroll: make(map[payroll.Kind][]*payroll.Adjustment)}
			byDate[key] = src
		}

		return src
	}

	inRange := func(v any) (string, bool) {
		key, ok := datekey.Normalize(v)
		if !ok || key < start || key > end {
			return "", false
		}

		return key, true
	}

	for _, row := range rows {
		if key, ok := inRange(row.Date); ok {
			sourcesFor(key).Row = row
		}
	}

	for _, inv := range invoices {
		if key, ok := inRange(inv.PaidDate); ok {
			src := sourcesFor(key)
			src.Invoices = append(src.Invoices, inv)
		}
	}

	for i, kind := range payroll.Kinds {
		for _, a := range adjusts[i] {
			if key, ok := inRange(a.Date); ok {
				src := sourcesFor(key)
				src.Payroll[kind] = append(src.Payroll[kind], a)
			}
		}
	}

	dates := make([]string, 0, len(byDate))
	for key := range byDate {
		dates = append(dates, key)
	}

	slices.Sort(dates)

	records := make([]*Record, 0, len(dates))
	for _, key := range dates {
		records = append(records, Reconcile(key, *byDate[key]))
	}

	return records, nil
}

// Save stores the record of a day and locks it. Invoice-derived items are
// dropped before storage. Only an admin may overwrite a locked day.
func (s *Service) Save(ctx context.Context, params SaveParams, role auth.Role) (*Record, error) {
	key, ok := datekey.Normalize(params.Date)
	if !ok {
		return nil, fmt.Errorf("invalid date %q", params.Date)
	}

	day, err := datekey.Parse(key)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, day)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil && existing.Locked && role != auth.RoleAdmin {
		return nil, ErrLocked
	}

	row := &Row{
		Date:     day,
		Gross:    params.Gross,
		Card:     params.Card,
		Cheque:   params.Cheque,
		Cash:     params.Cash,
		Vouchers: params.Vouchers,
		Lists:    make(map[lineitem.Category]any, len(lineitem.Categories)),
		Locked:   true,
	}

	for _, c := range lineitem.Categories {
		row.Lists[c] = lineitem.Encode(lineitem.Manual(params.Items[c]), c)
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.TypeDailySaved, key, map[string]string{
		"gross": params.Gross.String(),
		"role":  string(role),
	}))

	return s.Get(ctx, key)
}

// Unlock clears the locked flag of a day.
func (s *Service) Unlock(ctx context.Context, date string) error {
	key, ok := datekey.Normalize(date)
	if !ok {
		return fmt.Errorf("invalid date %q", date)
	}

	day, err := datekey.Parse(key)
	if err != nil {
		return err
	}

	if err := s.repo.SetLocked(ctx, day, false); err != nil {
		return err
	}

	s.publish(ctx, events.New(events.TypeDailyUnlocked, key, nil))

	return nil
}

// LockedDates returns the keys of every locked day, ascending.
func (s *Service) LockedDates(ctx context.Context) ([]string, error) {
	days, err := s.repo.LockedDates(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(days))
	for _, d := range days {
		if key, ok := datekey.Normalize(d); ok {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	return keys, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish event", "type", event.Type, "key", event.Key, "error", err)
	}
}
