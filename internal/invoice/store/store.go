package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recette/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `id, supplier, amount, issue_date, status, payment_method, paid_date, paid_by,
	doc_type, doc_number, photo, photos, created_at, updated_at`

func (s *Store) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (supplier, amount, issue_date, status, doc_type, doc_number, photo, photos, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.Supplier,
		inv.Amount,
		inv.IssueDate,
		inv.Status,
		nullString(inv.DocType),
		nullString(inv.DocNumber),
		nullString(inv.Photo),
		encodePhotos(inv.Photos),
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting invoice: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM invoices WHERE id = $1`, id)

	inv, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, invoice.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET supplier = $1, amount = $2, issue_date = $3, doc_type = $4, doc_number = $5,
			photo = $6, photos = $7, updated_at = NOW()
		WHERE id = $8
	`

	res, err := s.db.ExecContext(ctx, query,
		inv.Supplier,
		inv.Amount,
		inv.IssueDate,
		nullString(inv.DocType),
		nullString(inv.DocNumber),
		nullString(inv.Photo),
		encodePhotos(inv.Photos),
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	return expectOne(res)
}

func (s *Store) UpdatePayment(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $1, payment_method = $2, paid_date = $3, paid_by = $4, photos = $5, updated_at = NOW()
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		inv.Status,
		nullString(string(inv.PaymentMethod)),
		nullString(inv.PaidDate),
		nullString(inv.PaidBy),
		encodePhotos(inv.Photos),
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("updating invoice payment: %w", err)
	}

	return expectOne(res)
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	return expectOne(res)
}

var sortColumns = map[invoice.SortField]string{
	invoice.SortByDate:     "issue_date",
	invoice.SortByAmount:   "amount",
	invoice.SortBySupplier: "LOWER(supplier)",
}

func (s *Store) List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + columns + ` FROM invoices WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Supplier != "" {
		query += fmt.Sprintf(" AND supplier ILIKE $%d", argIdx)

		args = append(args, "%"+escapeLike(filter.Supplier)+"%")
		argIdx++
	}

	if filter.PaidBy != "" {
		query += fmt.Sprintf(" AND LOWER(paid_by) = LOWER($%d)", argIdx)

		args = append(args, filter.PaidBy)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND issue_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND issue_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	col, ok := sortColumns[filter.Sort]
	if !ok {
		col = sortColumns[invoice.SortByDate]
	}

	dir := "DESC"
	if filter.Ascending {
		dir = "ASC"
	}

	query += " ORDER BY " + col + " " + dir + ", created_at " + dir

	return s.query(ctx, query, args...)
}

// ListPaid narrows ISO paid dates in SQL. Rows written in any other layout
// (DD/MM/YYYY and friends) do not sort as text, so they are all returned and
// left to the service to place by calendar day.
func (s *Store) ListPaid(ctx context.Context, from, until string) ([]*invoice.Invoice, error) {
	query := `
		SELECT ` + columns + ` FROM invoices
		WHERE status = $1 AND paid_date IS NOT NULL AND paid_date <> ''
		  AND (paid_date !~ '^[0-9]{4}-[0-9]{2}-[0-9]{2}' OR (paid_date >= $2 AND paid_date < $3))
		ORDER BY paid_date ASC, created_at ASC
	`

	return s.query(ctx, query, invoice.StatusPaid, from, until)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*invoice.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invoices, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*invoice.Invoice, error) {
	var (
		inv                                  invoice.Invoice
		method, paidDate, paidBy             sql.NullString
		docType, docNumber, photo, photosRaw sql.NullString
	)

	err := row.Scan(
		&inv.ID,
		&inv.Supplier,
		&inv.Amount,
		&inv.IssueDate,
		&inv.Status,
		&method,
		&paidDate,
		&paidBy,
		&docType,
		&docNumber,
		&photo,
		&photosRaw,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.PaymentMethod = invoice.PaymentMethod(method.String)
	inv.PaidDate = paidDate.String
	inv.PaidBy = paidBy.String
	inv.DocType = docType.String
	inv.DocNumber = docNumber.String
	inv.Photo = photo.String
	inv.Photos = decodePhotos(photosRaw.String)

	return &inv, nil
}

// decodePhotos reads the photos column: a JSON list of references, or a single
// bare reference written by older clients.
func decodePhotos(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}

	var refs []string
	if err := json.Unmarshal([]byte(raw), &refs); err == nil {
		return refs
	}

	if strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{") {
		return nil
	}

	return []string{raw}
}

func encodePhotos(refs []string) sql.NullString {
	if len(refs) == 0 {
		return sql.NullString{}
	}

	b, err := json.Marshal(refs)
	if err != nil {
		return sql.NullString{}
	}

	return sql.NullString{String: string(b), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}
