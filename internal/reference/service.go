package reference

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recette/internal/textnorm"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reference
type Repository interface {
	// Add inserts name, or returns the entry already stored under the same
	// name ignoring case.
	Add(ctx context.Context, kind Kind, name string) (*Entry, error)
	Rename(ctx context.Context, kind Kind, id uuid.UUID, name string) error
	Delete(ctx context.Context, kind Kind, id uuid.UUID) error
	List(ctx context.Context, kind Kind) ([]*Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(ctx context.Context, kind Kind, name string) (*Entry, error) {
	name, err := validate(kind, name)
	if err != nil {
		return nil, err
	}

	return s.repo.Add(ctx, kind, name)
}

// Ensure adds every non-blank name, so values typed into a daily record or an
// invoice show up in later suggestions.
func (s *Service) Ensure(ctx context.Context, kind Kind, names ...string) error {
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		folded := textnorm.Fold(name)
		if folded == "" {
			continue
		}

		if _, dup := seen[folded]; dup {
			continue
		}

		seen[folded] = struct{}{}

		if _, err := s.Add(ctx, kind, name); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) Rename(ctx context.Context, kind Kind, id uuid.UUID, name string) error {
	name, err := validate(kind, name)
	if err != nil {
		return err
	}

	return s.repo.Rename(ctx, kind, id, name)
}

func (s *Service) Delete(ctx context.Context, kind Kind, id uuid.UUID) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}

	return s.repo.Delete(ctx, kind, id)
}

func (s *Service) List(ctx context.Context, kind Kind) ([]*Entry, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	return s.repo.List(ctx, kind)
}

func validate(kind Kind, name string) (string, error) {
	if !kind.Valid() {
		return "", ErrUnknownKind
	}

	name = textnorm.Clean(name)
	if name == "" {
		return "", ErrEmptyName
	}

	return name, nil
}
