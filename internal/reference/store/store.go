package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/recette/internal/reference"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Each table has id, name, created_at and a unique index on lower(name).
var tables = map[reference.Kind]string{
	reference.KindSupplier:    "fournisseurs",
	reference.KindDesignation: "designations",
	reference.KindEmployee:    "employes",
}

func table(kind reference.Kind) (string, error) {
	t, ok := tables[kind]
	if !ok {
		return "", reference.ErrUnknownKind
	}

	return t, nil
}

func (s *Store) Add(ctx context.Context, kind reference.Kind, name string) (*reference.Entry, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}

	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO ` + t + ` (name, created_at)
		VALUES ($1, NOW())
		ON CONFLICT ((LOWER(name))) DO UPDATE SET name = ` + t + `.name
		RETURNING id, name, created_at
	`

	e := reference.Entry{Kind: kind}
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("adding %s: %w", kind, err)
	}

	return &e, nil
}

func (s *Store) Rename(ctx context.Context, kind reference.Kind, id uuid.UUID, name string) error {
	t, err := table(kind)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE `+t+` SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return reference.ErrConflict
		}

		return fmt.Errorf("renaming %s: %w", kind, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("renaming %s: %w", kind, err)
	}

	if n == 0 {
		return reference.ErrNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, kind reference.Kind, id uuid.UUID) error {
	t, err := table(kind)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+t+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, kind reference.Kind) ([]*reference.Entry, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM `+t+` ORDER BY LOWER(name) ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	var entries []*reference.Entry

	for rows.Next() {
		e := reference.Entry{Kind: kind}
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", kind, err)
	}

	return entries, nil
}
