// Package stats rolls reconciled days, invoices, deposits and the monthly
// payroll tables up into the figures shown on the dashboard.
package stats

import (
	"github.com/shopspring/decimal"
)

// MonthTotal is the paid net salary of one month. Available is false when
// the month has no payroll table.
type MonthTotal struct {
	Month     string
	Total     decimal.Decimal
	Available bool
}

// RankBy selects what Rankings groups on.
type RankBy string

const (
	RankBySupplier      RankBy = "supplier"
	RankByDesignation   RankBy = "designation"
	RankByPaymentMethod RankBy = "payment_method"
)

func (r RankBy) Valid() bool {
	switch r {
	case RankBySupplier, RankByDesignation, RankByPaymentMethod:
		return true
	}

	return false
}

type Ranking struct {
	Name  string
	Total decimal.Decimal
	Count int
}

// Summary is the payment picture of a range.
type Summary struct {
	Start        string
	End          string
	Days         int
	Gross        decimal.Decimal
	Expenses     decimal.Decimal
	Payroll      decimal.Decimal
	Net          decimal.Decimal
	Card         decimal.Decimal
	Cheque       decimal.Decimal
	Cash         decimal.Decimal
	Vouchers     decimal.Decimal
	Deposits     decimal.Decimal
	CashOnHand   decimal.Decimal
	InvoicesPaid decimal.Decimal
	InvoicesOwed decimal.Decimal
	ByMethod     map[string]decimal.Decimal
	ProfitMargin *decimal.Decimal
}
