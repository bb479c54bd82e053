package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a statement amount. Spaces (including non-breaking ones)
// group thousands. When both separators appear the last one is the decimal
// mark; a lone comma or a lone dot is always decimal, since dinar amounts
// carry three decimals and "150.000" means 150.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		}

		return r
	}, s)

	clean = strings.TrimSuffix(strings.TrimSuffix(clean, "TND"), "DT")

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	case lastComma >= 0:
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	return decimal.NewFromString(clean)
}
