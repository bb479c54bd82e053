package deposit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/datekey"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=deposit
type Repository interface {
	Create(ctx context.Context, d *Deposit) error
	// CreateBatch inserts deposits, skipping those whose reference is already
	// stored, and returns how many were inserted.
	CreateBatch(ctx context.Context, deposits []*Deposit) (int, error)
	Update(ctx context.Context, d *Deposit) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, start, end time.Time) ([]*Deposit, error)
	Total(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Amount    decimal.Decimal
	Date      time.Time
	Note      string
	Reference string
}

func (p CreateParams) deposit() *Deposit {
	return &Deposit{
		Amount:    p.Amount,
		Date:      p.Date,
		Note:      strings.TrimSpace(p.Note),
		Reference: strings.TrimSpace(p.Reference),
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Deposit, error) {
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("deposit amount must be positive, got %s", params.Amount)
	}

	d := params.deposit()
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// CreateBatch stores imported deposits. Non-positive amounts are ignored.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) (int, error) {
	deposits := make([]*Deposit, 0, len(params))

	for _, p := range params {
		if !p.Amount.IsPositive() {
			continue
		}

		deposits = append(deposits, p.deposit())
	}

	if len(deposits) == 0 {
		return 0, nil
	}

	return s.repo.CreateBatch(ctx, deposits)
}

func (s *Service) Update(ctx context.Context, d *Deposit) error {
	if !d.Amount.IsPositive() {
		return fmt.Errorf("deposit amount must be positive, got %s", d.Amount)
	}

	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// List returns the deposits between two day keys, inclusive.
func (s *Service) List(ctx context.Context, start, end string) ([]*Deposit, error) {
	from, to, err := bounds(start, end)
	if err != nil {
		return nil, err
	}

	return s.repo.List(ctx, from, to)
}

// Total sums the deposits between two day keys, inclusive.
func (s *Service) Total(ctx context.Context, start, end string) (decimal.Decimal, error) {
	from, to, err := bounds(start, end)
	if err != nil {
		return decimal.Zero, err
	}

	return s.repo.Total(ctx, from, to)
}

func bounds(start, end string) (time.Time, time.Time, error) {
	from, err := datekey.Parse(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to, err := datekey.Parse(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return from, to, nil
}
