// Package datekey turns the many date shapes found in the store (DATE columns,
// legacy text columns holding ISO timestamps, hand-typed strings) into a single
// canonical YYYY-MM-DD key used to group rows by calendar day.
package datekey

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical key layout.
const Layout = time.DateOnly

// fallback layouts tried when the value does not start with a YYYY-MM-DD prefix.
var layouts = []string{
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
}

// Normalize returns the calendar-date key of v and true, or "" and false when v
// is not a recognisable date. It never panics.
//
// time.Time values are formatted in their own location; no conversion to the
// process's local zone is made. Strings carrying a time-of-day or zone suffix
// keep their written calendar date.
func Normalize(v any) (string, bool) {
	switch x := v.(type) {
	case time.Time:
		return fromTime(x)
	case *time.Time:
		if x == nil {
			return "", false
		}

		return fromTime(*x)
	case sql.NullTime:
		if !x.Valid {
			return "", false
		}

		return fromTime(x.Time)
	case string:
		return fromString(x)
	case *string:
		if x == nil {
			return "", false
		}

		return fromString(*x)
	case sql.NullString:
		if !x.Valid {
			return "", false
		}

		return fromString(x.String)
	case []byte:
		return fromString(string(x))
	}

	return "", false
}

func fromTime(t time.Time) (string, bool) {
	if t.IsZero() {
		return "", false
	}

	return t.Format(Layout), true
}

func fromString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if len(s) >= len(Layout) {
		if t, err := time.Parse(Layout, s[:len(Layout)]); err == nil {
			return t.Format(Layout), true
		}
	}

	for _, layout := range layouts {
		if len(s) < len(layout) {
			continue
		}

		if t, err := time.Parse(layout, s[:len(layout)]); err == nil {
			return t.Format(Layout), true
		}
	}

	return "", false
}

// Parse strictly parses a canonical key.
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", key)
	}

	return t, nil
}

// Next returns the key of the day after key.
func Next(key string) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}

	return t.AddDate(0, 0, 1).Format(Layout), nil
}

// Month returns the first and last day keys of the given month. Month is 1-based.
func Month(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	return first.Format(Layout), last.Format(Layout)
}

// ParseMonth parses a YYYY-MM value and returns its first and last day keys.
func ParseMonth(s string) (string, string, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}

	first, last := Month(t.Year(), int(t.Month()))

	return first, last, nil
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month int
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Months lists every calendar month touched by the inclusive range [start, end].
// An inverted or unparseable range yields nil.
func Months(start, end string) []YearMonth {
	s, err := Parse(start)
	if err != nil {
		return nil
	}

	e, err := Parse(end)
	if err != nil || e.Before(s) {
		return nil
	}

	var months []YearMonth

	cur := time.Date(s.Year(), s.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(e) {
		months = append(months, YearMonth{Year: cur.Year(), Month: int(cur.Month())})
		cur = cur.AddDate(0, 1, 0)
	}

	return months
}
