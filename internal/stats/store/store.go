package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/datekey"
)

// undefinedTable is the SQLSTATE raised when a relation does not exist.
const undefinedTable = "42P01"

type Store struct {
	db     *sql.DB
	prefix string
}

// New returns a store reading monthly payroll tables named
// <prefix>_<YYYY>_<MM>, each with employee, net_salary and paid columns.
func New(db *sql.DB, prefix string) *Store {
	return &Store{db: db, prefix: prefix}
}

func (s *Store) tableName(month datekey.YearMonth) string {
	return fmt.Sprintf("%s_%04d_%02d", s.prefix, month.Year, month.Month)
}

func (s *Store) MonthlySalary(ctx context.Context, month datekey.YearMonth) (decimal.Decimal, bool, error) {
	name := s.tableName(month)

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, name).Scan(&exists); err != nil {
		return decimal.Zero, false, fmt.Errorf("checking table %s: %w", name, err)
	}

	if !exists {
		return decimal.Zero, false, nil
	}

	query := `SELECT COALESCE(SUM(net_salary), 0) FROM ` + pgx.Identifier{name}.Sanitize() + ` WHERE paid`

	var total decimal.Decimal

	err := s.db.QueryRowContext(ctx, query).Scan(&total)
	if err != nil {
		// The table may be dropped between the check and the query.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return decimal.Zero, false, nil
		}

		return decimal.Zero, false, fmt.Errorf("summing %s: %w", name, err)
	}

	return total, true, nil
}
