package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/recette/internal/payroll"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// tables maps each kind to its table. Every table has the columns
// id, employee, amount, date, created_at, updated_at and a unique (employee, date).
var tables = map[payroll.Kind]string{
	payroll.KindAdvance:  "avances",
	payroll.KindDoubling: "doublages",
	payroll.KindExtra:    "extras",
	payroll.KindBonus:    "primes",
}

func table(kind payroll.Kind) (string, error) {
	t, ok := tables[kind]
	if !ok {
		return "", payroll.ErrUnknownKind
	}

	return t, nil
}

func (s *Store) Upsert(ctx context.Context, a *payroll.Adjustment) error {
	t, err := table(a.Kind)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ` + t + ` (employee, amount, date, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (employee, date) DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query, a.Employee, a.Amount, a.Date).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", a.Kind, err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, a *payroll.Adjustment) error {
	t, err := table(a.Kind)
	if err != nil {
		return err
	}

	query := `
		UPDATE ` + t + `
		SET employee = $1, amount = $2, date = $3, updated_at = NOW()
		WHERE id = $4
	`

	res, err := s.db.ExecContext(ctx, query, a.Employee, a.Amount, a.Date, a.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return payroll.ErrConflict
	}

	if err != nil {
		return fmt.Errorf("updating %s: %w", a.Kind, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s: %w", a.Kind, err)
	}

	if n == 0 {
		return payroll.ErrNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, kind payroll.Kind, id uuid.UUID) error {
	t, err := table(kind)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM `+t+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	if n == 0 {
		return payroll.ErrNotFound
	}

	return nil
}

func (s *Store) List(ctx context.Context, kind payroll.Kind, filter payroll.ListFilter) ([]*payroll.Adjustment, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, employee, amount, date, created_at, updated_at FROM ` + t + ` WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Employee != "" {
		query += fmt.Sprintf(" AND LOWER(employee) = LOWER($%d)", argIdx)

		args = append(args, filter.Employee)
	}

	query += " ORDER BY date ASC, employee ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	var adjustments []*payroll.Adjustment

	for rows.Next() {
		a := payroll.Adjustment{Kind: kind}
		if err := rows.Scan(&a.ID, &a.Employee, &a.Amount, &a.Date, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}

		adjustments = append(adjustments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", kind, err)
	}

	return adjustments, nil
}
