// Package money parses the loosely typed amounts found in stored records and
// formats decimals at the three-place millime scale used throughout the API.
package money

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits amounts are rendered with (millimes).
const Scale = 3

// Format renders an amount with the fixed display scale.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Parse leniently converts a stored amount into a decimal. It accepts decimal
// values, integers, floats, JSON numbers and decimal text ("150.000", "150,5").
// Blank or unparseable input reports false.
func Parse(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, false
		}

		return *x, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		// JSON numbers arrive as float64; go through the shortest text form to
		// avoid binary expansion noise.
		return decimal.NewFromFloat(x), true
	case json.Number:
		return parseString(x.String())
	case string:
		return parseString(x)
	case []byte:
		return parseString(string(x))
	}

	return decimal.Zero, false
}

func parseString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// Sum adds up a list of amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}

	return total
}
