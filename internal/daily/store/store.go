package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// The category columns hold JSON text written by several generations of
// clients; they are read back raw and decoded during reconciliation.
const columns = `date, recette_brute, carte, cheque, especes, tickets_restaurant,
	achat_fournisseurs, depense_divers, depense_journaliere, depense_admin, locked, updated_at`

func (s *Store) Get(ctx context.Context, day time.Time) (*daily.Row, error) {
	row, err := scan(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM daily_records WHERE date = $1`, day))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, daily.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting daily record: %w", err)
	}

	return row, nil
}

func (s *Store) List(ctx context.Context, start, end time.Time) ([]*daily.Row, error) {
	query := `SELECT ` + columns + ` FROM daily_records WHERE date >= $1 AND date <= $2 ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing daily records: %w", err)
	}
	defer rows.Close()

	var out []*daily.Row

	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning daily record: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily records: %w", err)
	}

	return out, nil
}

func (s *Store) Upsert(ctx context.Context, row *daily.Row) error {
	query := `
		INSERT INTO daily_records (date, recette_brute, carte, cheque, especes, tickets_restaurant,
			achat_fournisseurs, depense_divers, depense_journaliere, depense_admin, locked, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (date) DO UPDATE SET
			recette_brute = EXCLUDED.recette_brute,
			carte = EXCLUDED.carte,
			cheque = EXCLUDED.cheque,
			especes = EXCLUDED.especes,
			tickets_restaurant = EXCLUDED.tickets_restaurant,
			achat_fournisseurs = EXCLUDED.achat_fournisseurs,
			depense_divers = EXCLUDED.depense_divers,
			depense_journaliere = EXCLUDED.depense_journaliere,
			depense_admin = EXCLUDED.depense_admin,
			locked = EXCLUDED.locked,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		row.Date,
		row.Gross,
		row.Card,
		row.Cheque,
		row.Cash,
		row.Vouchers,
		listText(row, lineitem.CategoryPurchase),
		listText(row, lineitem.CategoryMisc),
		listText(row, lineitem.CategoryDaily),
		listText(row, lineitem.CategoryAdmin),
		row.Locked,
	).Scan(&row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting daily record: %w", err)
	}

	return nil
}

func (s *Store) SetLocked(ctx context.Context, day time.Time, locked bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE daily_records SET locked = $1, updated_at = NOW() WHERE date = $2`, locked, day)
	if err != nil {
		return fmt.Errorf("setting daily record lock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting daily record lock: %w", err)
	}

	if n == 0 {
		return daily.ErrNotFound
	}

	return nil
}

func (s *Store) LockedDates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date FROM daily_records WHERE locked ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing locked dates: %w", err)
	}
	defer rows.Close()

	var days []time.Time

	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning locked date: %w", err)
		}

		days = append(days, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locked dates: %w", err)
	}

	return days, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(sc scanner) (*daily.Row, error) {
	var (
		r                           daily.Row
		purchases, misc, ops, admin sql.NullString
	)

	err := sc.Scan(
		&r.Date,
		&r.Gross,
		&r.Card,
		&r.Cheque,
		&r.Cash,
		&r.Vouchers,
		&purchases,
		&misc,
		&ops,
		&admin,
		&r.Locked,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Lists = map[lineitem.Category]any{
		lineitem.CategoryPurchase: purchases,
		lineitem.CategoryMisc:     misc,
		lineitem.CategoryDaily:    ops,
		lineitem.CategoryAdmin:    admin,
	}

	return &r, nil
}

func listText(row *daily.Row, c lineitem.Category) string {
	if s, ok := row.Lists[c].(string); ok {
		return s
	}

	return lineitem.Encode(lineitem.Decode(row.Lists[c], c), c)
}
