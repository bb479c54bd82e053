package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/textnorm"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payroll
type Repository interface {
	Upsert(ctx context.Context, a *Adjustment) error
	Update(ctx context.Context, a *Adjustment) error
	Delete(ctx context.Context, kind Kind, id uuid.UUID) error
	List(ctx context.Context, kind Kind, filter ListFilter) ([]*Adjustment, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type UpsertParams struct {
	Kind     Kind
	Employee string
	Amount   decimal.Decimal
	Date     time.Time
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Employee  string
}

// Upsert records an adjustment. Submitting the same employee and date again
// replaces the amount instead of adding a second row.
func (s *Service) Upsert(ctx context.Context, params UpsertParams) (*Adjustment, error) {
	if !params.Kind.Valid() {
		return nil, ErrUnknownKind
	}

	a := &Adjustment{
		Kind:     params.Kind,
		Employee: textnorm.Clean(params.Employee),
		Amount:   params.Amount,
		Date:     params.Date,
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Update(ctx context.Context, a *Adjustment) error {
	if !a.Kind.Valid() {
		return ErrUnknownKind
	}

	a.Employee = textnorm.Clean(a.Employee)

	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, kind Kind, id uuid.UUID) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}

	return s.repo.Delete(ctx, kind, id)
}

func (s *Service) List(ctx context.Context, kind Kind, filter ListFilter) ([]*Adjustment, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	return s.repo.List(ctx, kind, filter)
}

// ListBetween returns the adjustments of a kind dated within the inclusive
// range of day keys.
func (s *Service) ListBetween(ctx context.Context, kind Kind, start, end string) ([]*Adjustment, error) {
	from, err := datekey.Parse(start)
	if err != nil {
		return nil, err
	}

	to, err := datekey.Parse(end)
	if err != nil {
		return nil, err
	}

	adjustments, err := s.List(ctx, kind, ListFilter{StartDate: &from, EndDate: &to})
	if err != nil {
		return nil, fmt.Errorf("listing %s adjustments: %w", kind, err)
	}

	return adjustments, nil
}
