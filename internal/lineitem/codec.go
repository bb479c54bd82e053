package lineitem

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/money"
)

// Decode converts the stored representation of a category list into items.
//
// Lists that are already decoded pass through (re-tagged with c); text is parsed
// as a JSON array. Absent, empty or malformed input yields an empty list and is
// never reported as an error. Inside a well-formed list, elements that are not
// objects are skipped and amounts that cannot be read count as zero.
func Decode(raw any, c Category) []Item {
	switch x := raw.(type) {
	case []Item:
		out := make([]Item, len(x))
		for i, it := range x {
			it.Category = c
			if it.Source == "" {
				it.Source = SourceManual
			}

			out[i] = it
		}

		return out
	case []map[string]any:
		return fromMaps(x, c)
	case []any:
		return fromAny(x, c)
	case string:
		return decodeText(x, c)
	case *string:
		if x == nil {
			return []Item{}
		}

		return decodeText(*x, c)
	case sql.NullString:
		if !x.Valid {
			return []Item{}
		}

		return decodeText(x.String, c)
	case []byte:
		return decodeText(string(x), c)
	}

	return []Item{}
}

func decodeText(s string, c Category) []Item {
	s = strings.TrimSpace(s)
	if s == "" {
		return []Item{}
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var elems []any
	if err := dec.Decode(&elems); err != nil {
		return []Item{}
	}

	return fromAny(elems, c)
}

func fromAny(elems []any, c Category) []Item {
	items := make([]Item, 0, len(elems))

	for _, e := range elems {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}

		items = append(items, fromMap(m, c))
	}

	return items
}

func fromMaps(maps []map[string]any, c Category) []Item {
	items := make([]Item, 0, len(maps))
	for _, m := range maps {
		items = append(items, fromMap(m, c))
	}

	return items
}

func fromMap(m map[string]any, c Category) Item {
	it := Item{
		Category: c,
		Name:     label(m, c),
		Source:   SourceManual,
	}

	if amount, ok := money.Parse(m["amount"]); ok {
		it.Amount = amount
	}

	return it
}

// label reads the category's alias first, then the other alias and "name", so a
// list saved under the wrong key still keeps its labels.
func label(m map[string]any, c Category) string {
	keys := []string{c.LabelField(), "supplier", "designation", "name"}
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}

	return ""
}

// Encode renders items as the stored JSON list of category c. Amounts are
// written as decimal text so a later Decode reads back the exact same values.
func Encode(items []Item, c Category) string {
	elems := make([]map[string]string, 0, len(items))
	for _, it := range items {
		elems = append(elems, map[string]string{
			c.LabelField(): it.Name,
			"amount":       exact(it.Amount),
		})
	}

	// A []map[string]string cannot fail to marshal.
	b, _ := json.Marshal(elems)

	return string(b)
}

// exact keeps the decimal's scale so "150.000" stays "150.000".
func exact(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}

	return d.String()
}
