package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/events"
	"github.com/MrJamesThe3rd/recette/internal/textnorm"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	UpdatePayment(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	// ListPaid returns paid invoices whose paid date may fall on or after from
	// and strictly before until (both YYYY-MM-DD). Non-ISO paid dates are
	// returned regardless of the bounds.
	ListPaid(ctx context.Context, from, until string) ([]*Invoice, error)
}

type Service struct {
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

type CreateParams struct {
	Supplier  string
	Amount    decimal.Decimal
	IssueDate time.Time
	DocType   string
	DocNumber string
	Photo     string
	Photos    []string
}

type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortBySupplier SortField = "supplier"
)

type ListFilter struct {
	Supplier  string // case-insensitive substring
	PaidBy    string
	Status    *Status
	StartDate *time.Time // issue date
	EndDate   *time.Time
	Sort      SortField
	Ascending bool
}

type PayParams struct {
	Method       PaymentMethod
	Date         string
	PaidBy       string
	ChequePhotos []string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	inv := &Invoice{
		Supplier:  textnorm.Clean(params.Supplier),
		Amount:    params.Amount,
		IssueDate: params.IssueDate,
		Status:    StatusUnpaid,
		DocType:   params.DocType,
		DocNumber: params.DocNumber,
		Photo:     params.Photo,
		Photos:    params.Photos,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, inv *Invoice) error {
	inv.Supplier = textnorm.Clean(inv.Supplier)

	return s.repo.Update(ctx, inv)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.List(ctx, filter)
}

// Pay moves an unpaid invoice to paid. Cheque photos are added to the
// invoice's attachments.
func (s *Service) Pay(ctx context.Context, id uuid.UUID, params PayParams) (*Invoice, error) {
	day, ok := datekey.Normalize(params.Date)
	if !ok {
		return nil, fmt.Errorf("invalid paid date %q", params.Date)
	}

	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Status != StatusUnpaid {
		return nil, ErrInvalidStatus
	}

	inv.Status = StatusPaid
	inv.PaymentMethod = params.Method
	inv.PaidDate = day
	inv.PaidBy = textnorm.Clean(params.PaidBy)
	inv.Photos = mergePhotos(inv.Photo, inv.Photos, params.ChequePhotos)

	if err := s.repo.UpdatePayment(ctx, inv); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.TypeInvoicePaid, inv.ID.String(), map[string]string{
		"paid_date": inv.PaidDate,
		"amount":    inv.Amount.String(),
	}))

	return inv, nil
}

// Unpay reverts a paid invoice, clearing its payment fields.
func (s *Service) Unpay(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Status != StatusPaid {
		return nil, ErrInvalidStatus
	}

	previous := inv.PaidDate

	inv.Status = StatusUnpaid
	inv.PaymentMethod = ""
	inv.PaidDate = ""
	inv.PaidBy = ""

	if err := s.repo.UpdatePayment(ctx, inv); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.TypeInvoiceUnpaid, inv.ID.String(), map[string]string{
		"paid_date": previous,
	}))

	return inv, nil
}

// ListPaidBetween returns invoices paid within the inclusive range of day keys.
func (s *Service) ListPaidBetween(ctx context.Context, start, end string) ([]*Invoice, error) {
	if _, err := datekey.Parse(start); err != nil {
		return nil, err
	}

	until, err := datekey.Next(end)
	if err != nil {
		return nil, err
	}

	invoices, err := s.repo.ListPaid(ctx, start, until)
	if err != nil {
		return nil, fmt.Errorf("listing paid invoices: %w", err)
	}

	paid := invoices[:0]

	for _, inv := range invoices {
		key, ok := datekey.Normalize(inv.PaidDate)
		if !ok || key < start || key >= until {
			continue
		}

		paid = append(paid, inv)
	}

	return paid, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish event", "type", event.Type, "key", event.Key, "error", err)
	}
}

// mergePhotos appends extra to photos, skipping blanks, duplicates and the
// primary photo.
func mergePhotos(primary string, photos, extra []string) []string {
	seen := map[string]struct{}{strings.TrimSpace(primary): {}}
	out := make([]string, 0, len(photos)+len(extra))

	for _, ref := range append(append([]string{}, photos...), extra...) {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}

		if _, dup := seen[ref]; dup {
			continue
		}

		seen[ref] = struct{}{}
		out = append(out, ref)
	}

	return out
}
