package daily

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
)

// Reconcile builds the record of date from its sources. A missing row yields a
// zero-valued placeholder. Invoice items are appended to the purchases for the
// returned record only; expenses and net are always recomputed.
func Reconcile(date string, src Sources) *Record {
	rec := &Record{
		Date:     date,
		Gross:    decimal.Zero,
		Card:     decimal.Zero,
		Cheque:   decimal.Zero,
		Cash:     decimal.Zero,
		Vouchers: decimal.Zero,
		Items:    make(map[lineitem.Category][]lineitem.Item, len(lineitem.Categories)),
		Payroll:  make(map[payroll.Kind][]*payroll.Adjustment, len(payroll.Kinds)),
	}

	var lists map[lineitem.Category]any

	if row := src.Row; row != nil {
		rec.Recorded = true
		rec.Gross = row.Gross
		rec.Card = row.Card
		rec.Cheque = row.Cheque
		rec.Cash = row.Cash
		rec.Vouchers = row.Vouchers
		rec.Locked = row.Locked
		lists = row.Lists
	}

	for _, c := range lineitem.Categories {
		rec.Items[c] = lineitem.Decode(lists[c], c)
	}

	rec.Items[lineitem.CategoryPurchase] = append(rec.Items[lineitem.CategoryPurchase], invoiceItems(src.Invoices)...)

	for _, k := range payroll.Kinds {
		list := src.Payroll[k]
		if list == nil {
			list = []*payroll.Adjustment{}
		}

		rec.Payroll[k] = list
	}

	rec.TotalExpenses = lineitem.Sum(rec.AllItems()).Add(rec.PayrollTotal())
	rec.Net = rec.Gross.Sub(rec.TotalExpenses)

	return rec
}

func invoiceItems(invoices []*invoice.Invoice) []lineitem.Item {
	items := make([]lineitem.Item, 0, len(invoices))

	for _, inv := range invoices {
		id := inv.ID
		items = append(items, lineitem.Item{
			Category:      lineitem.CategoryPurchase,
			Name:          inv.Supplier,
			Amount:        inv.Amount,
			Source:        lineitem.SourceInvoice,
			PaymentMethod: string(inv.PaymentMethod),
			Photos:        inv.Attachments(),
			InvoiceID:     &id,
		})
	}

	return items
}
