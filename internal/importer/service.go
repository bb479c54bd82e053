package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/recette/internal/deposit"
	"github.com/MrJamesThe3rd/recette/internal/importer/statement"
)

var ErrUnknownFormat = errors.New("unknown statement format")

//go:generate mockgen -source=service.go -destination=deposit_mock.go -package=importer

// DepositWriter stores parsed deposits, skipping already imported ones.
type DepositWriter interface {
	CreateBatch(ctx context.Context, params []deposit.CreateParams) (int, error)
}

type Service struct {
	importers map[Format]Importer
	deposits  DepositWriter
}

// NewService registers one importer per statement layout. Keywords restrict
// imported credits to cash deposits; see statement.DefaultKeywords.
func NewService(deposits DepositWriter, keywords ...string) *Service {
	importers := map[Format]Importer{
		FormatAuto: statement.New(statement.NewParser(), keywords...),
	}

	for _, p := range statement.Profiles {
		importers[Format(p.Name)] = statement.New(statement.NewParser(p), keywords...)
	}

	return &Service{importers: importers, deposits: deposits}
}

// Result summarizes an import.
type Result struct {
	Parsed   int `json:"parsed"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

func (s *Service) Parse(format Format, r io.Reader) ([]deposit.CreateParams, error) {
	if format == "" {
		format = FormatAuto
	}

	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return importer.Parse(r)
}

// Import parses r and stores its deposits. Lines already imported from an
// overlapping statement are counted as skipped.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (Result, error) {
	params, err := s.Parse(format, r)
	if err != nil {
		return Result{}, err
	}

	inserted, err := s.deposits.CreateBatch(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("storing deposits: %w", err)
	}

	res := Result{Parsed: len(params), Inserted: inserted, Skipped: len(params) - inserted}

	slog.Info("statement imported", "format", format, "parsed", res.Parsed, "inserted", res.Inserted)

	return res, nil
}
