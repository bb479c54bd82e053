// Package daily reconciles the cash-register record of a day with the paid
// invoices and payroll adjustments dated to it, and serves ranges of such
// reconciled days.
package daily

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
)

var (
	ErrNotFound = errors.New("daily record not found")
	ErrLocked   = errors.New("daily record is locked")
)

// Row is a daily record as stored. Lists holds the raw value of each category
// column, decoded only during reconciliation.
type Row struct {
	Date      time.Time
	Gross     decimal.Decimal
	Card      decimal.Decimal
	Cheque    decimal.Decimal
	Cash      decimal.Decimal
	Vouchers  decimal.Decimal
	Lists     map[lineitem.Category]any
	Locked    bool
	UpdatedAt *time.Time
}

// Sources is everything dated to one day.
type Sources struct {
	Row      *Row
	Invoices []*invoice.Invoice
	Payroll  map[payroll.Kind][]*payroll.Adjustment
}

// Record is a reconciled day.
type Record struct {
	Date string
	// Recorded is false for days synthesized because only invoices or payroll
	// adjustments exist for them.
	Recorded      bool
	Gross         decimal.Decimal
	Card          decimal.Decimal
	Cheque        decimal.Decimal
	Cash          decimal.Decimal
	Vouchers      decimal.Decimal
	Items         map[lineitem.Category][]lineitem.Item
	Payroll       map[payroll.Kind][]*payroll.Adjustment
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
	Locked        bool
}

// AllItems returns the line items of every category in display order.
func (r *Record) AllItems() []lineitem.Item {
	var items []lineitem.Item
	for _, c := range lineitem.Categories {
		items = append(items, r.Items[c]...)
	}

	return items
}

// PayrollTotal sums the attached payroll adjustments.
func (r *Record) PayrollTotal() decimal.Decimal {
	total := decimal.Zero

	for _, k := range payroll.Kinds {
		for _, a := range r.Payroll[k] {
			total = total.Add(a.Amount)
		}
	}

	return total
}
