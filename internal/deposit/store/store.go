package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/deposit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const insertQuery = `
	INSERT INTO bank_deposits (amount, date, note, reference, created_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (reference) WHERE reference IS NOT NULL DO NOTHING
	RETURNING id, created_at
`

func (s *Store) Create(ctx context.Context, d *deposit.Deposit) error {
	err := s.db.QueryRowContext(ctx, insertQuery, d.Amount, d.Date, nullString(d.Note), nullString(d.Reference)).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting deposit: %w", err)
	}

	return nil
}

func (s *Store) CreateBatch(ctx context.Context, deposits []*deposit.Deposit) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0

	for _, d := range deposits {
		err := stmt.QueryRowContext(ctx, d.Amount, d.Date, nullString(d.Note), nullString(d.Reference)).
			Scan(&d.ID, &d.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}

		if err != nil {
			return 0, fmt.Errorf("inserting deposit: %w", err)
		}

		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing deposits: %w", err)
	}

	return inserted, nil
}

func (s *Store) Update(ctx context.Context, d *deposit.Deposit) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bank_deposits SET amount = $1, date = $2, note = $3, updated_at = NOW() WHERE id = $4`,
		d.Amount, d.Date, nullString(d.Note), d.ID)
	if err != nil {
		return fmt.Errorf("updating deposit: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating deposit: %w", err)
	}

	if n == 0 {
		return deposit.ErrNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bank_deposits WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting deposit: %w", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, start, end time.Time) ([]*deposit.Deposit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, date, note, reference, created_at, updated_at
		FROM bank_deposits
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, created_at ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing deposits: %w", err)
	}
	defer rows.Close()

	var deposits []*deposit.Deposit

	for rows.Next() {
		var (
			d               deposit.Deposit
			note, reference sql.NullString
		)

		if err := rows.Scan(&d.ID, &d.Amount, &d.Date, &note, &reference, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning deposit: %w", err)
		}

		d.Note = note.String
		d.Reference = reference.String
		deposits = append(deposits, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deposits: %w", err)
	}

	return deposits, nil
}

func (s *Store) Total(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM bank_deposits WHERE date >= $1 AND date <= $2`, start, end).
		Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing deposits: %w", err)
	}

	return total, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
