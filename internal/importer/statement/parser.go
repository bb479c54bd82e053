package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/recette/internal/encoding"
	"github.com/MrJamesThe3rd/recette/internal/textnorm"
)

// Line is one movement of a statement. Credits are positive.
type Line struct {
	Date   time.Time
	Label  string
	Amount decimal.Decimal
}

// Parser reads semicolon-separated statement exports, detecting the charset
// and the column layout.
type Parser struct {
	profiles []Profile
}

// NewParser returns a parser limited to the given profiles, or trying all of
// them when none are given.
func NewParser(profiles ...Profile) *Parser {
	if len(profiles) == 0 {
		profiles = Profiles
	}

	return &Parser{profiles: profiles}
}

func (p *Parser) Parse(r io.Reader) ([]Line, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := p.detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching statement format found: expected date, label and amount columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps folded column names to their index in the row.
type colIndex map[string]int

func (c colIndex) of(name string) int {
	idx, ok := c[textnorm.Fold(name)]
	if !ok {
		return -1
	}

	return idx
}

func (p *Parser) detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := textnorm.Fold(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range p.profiles {
			if matchesProfile(&p.profiles[i], cols) {
				return &p.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if cols.of(name) < 0 {
			return false
		}
	}

	return true
}

// parseRows extracts movements below the header. Rows without a readable date
// or amount (balances, page footers) are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]Line, error) {
	dateIdx := cols.of(p.DateCol)
	labelIdx := cols.of(p.LabelCol)

	var lines []Line

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		amount, ok := rowAmount(p, cols, row)
		if !ok {
			continue
		}

		label := textnorm.Clean(cellValue(row, labelIdx))
		if label == "" {
			return nil, fmt.Errorf("row %d: missing label", rowNum)
		}

		lines = append(lines, Line{Date: date, Label: label, Amount: amount})
	}

	return lines, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	switch p.AmountMode {
	case amountSingle:
		return nonZero(cellValue(row, cols.of(p.AmountCol)), false)
	case amountSplit:
		if d, ok := nonZero(cellValue(row, cols.of(p.DebitCol)), true); ok {
			return d, true
		}

		return nonZero(cellValue(row, cols.of(p.CreditCol)), false)
	}

	return decimal.Zero, false
}

// nonZero parses s and reports false for blanks, garbage and zero. Debit
// columns are made negative whatever their written sign.
func nonZero(s string, debit bool) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	if debit {
		return d.Abs().Neg(), true
	}

	return d, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
