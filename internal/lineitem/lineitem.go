// Package lineitem models the expense lines stored as JSON lists inside a daily
// record's category columns and converts them to and from their stored form.
package lineitem

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category identifies one of the four expense lists of a daily record.
type Category string

const (
	CategoryPurchase Category = "purchase"
	CategoryMisc     Category = "misc"
	CategoryDaily    Category = "daily"
	CategoryAdmin    Category = "admin"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPurchase, CategoryMisc, CategoryDaily, CategoryAdmin}

// LabelField is the JSON key holding the item's label in stored lists.
func (c Category) LabelField() string {
	if c == CategoryPurchase {
		return "supplier"
	}

	return "designation"
}

// Column is the daily_records column the category is stored in.
func (c Category) Column() string {
	switch c {
	case CategoryPurchase:
		return "achat_fournisseurs"
	case CategoryMisc:
		return "depense_divers"
	case CategoryDaily:
		return "depense_journaliere"
	case CategoryAdmin:
		return "depense_admin"
	}

	return ""
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c.Column() != ""
}

// Source tells where an item came from.
type Source string

const (
	SourceManual  Source = "manual"
	SourceInvoice Source = "invoice"
)

// Item is a single named amount inside a category list.
type Item struct {
	Category      Category
	Name          string
	Amount        decimal.Decimal
	Source        Source
	PaymentMethod string
	Photos        []string
	InvoiceID     *uuid.UUID
}

// FromInvoice reports whether the item was synthesized from a paid invoice.
// An item linked to an invoice counts even when its source was lost.
func (i Item) FromInvoice() bool {
	return i.Source == SourceInvoice || i.InvoiceID != nil
}

// Manual returns the items that were entered by hand, dropping invoice-derived ones.
func Manual(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.FromInvoice() {
			continue
		}

		out = append(out, it)
	}

	return out
}

// Sum adds up the amounts of items.
func Sum(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}

	return total
}
