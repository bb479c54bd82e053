package daily

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/money"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
)

type itemResponse struct {
	Name          string          `json:"name"`
	Amount        string          `json:"amount"`
	Source        lineitem.Source `json:"source"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Photos        []string        `json:"photos,omitempty"`
	InvoiceID     *uuid.UUID      `json:"invoice_id,omitempty"`
}

type adjustmentResponse struct {
	ID       uuid.UUID `json:"id"`
	Employee string    `json:"employee"`
	Amount   string    `json:"amount"`
	Date     string    `json:"date"`
}

type recordResponse struct {
	Date          string                                `json:"date"`
	Recorded      bool                                  `json:"recorded"`
	Gross         string                                `json:"gross"`
	Card          string                                `json:"card"`
	Cheque        string                                `json:"cheque"`
	Cash          string                                `json:"cash"`
	Vouchers      string                                `json:"vouchers"`
	Items         map[lineitem.Category][]itemResponse  `json:"items"`
	Payroll       map[payroll.Kind][]adjustmentResponse `json:"payroll"`
	PayrollTotal  string                                `json:"payroll_total"`
	TotalExpenses string                                `json:"total_expenses"`
	Net           string                                `json:"net"`
	Locked        bool                                  `json:"locked"`
}

func toResponse(rec *daily.Record) recordResponse {
	resp := recordResponse{
		Date:          rec.Date,
		Recorded:      rec.Recorded,
		Gross:         money.Format(rec.Gross),
		Card:          money.Format(rec.Card),
		Cheque:        money.Format(rec.Cheque),
		Cash:          money.Format(rec.Cash),
		Vouchers:      money.Format(rec.Vouchers),
		Items:         make(map[lineitem.Category][]itemResponse, len(lineitem.Categories)),
		Payroll:       make(map[payroll.Kind][]adjustmentResponse, len(payroll.Kinds)),
		PayrollTotal:  money.Format(rec.PayrollTotal()),
		TotalExpenses: money.Format(rec.TotalExpenses),
		Net:           money.Format(rec.Net),
		Locked:        rec.Locked,
	}

	for _, c := range lineitem.Categories {
		items := make([]itemResponse, 0, len(rec.Items[c]))
		for _, it := range rec.Items[c] {
			items = append(items, itemResponse{
				Name:          it.Name,
				Amount:        money.Format(it.Amount),
				Source:        it.Source,
				PaymentMethod: it.PaymentMethod,
				Photos:        it.Photos,
				InvoiceID:     it.InvoiceID,
			})
		}

		resp.Items[c] = items
	}

	for _, k := range payroll.Kinds {
		adjustments := make([]adjustmentResponse, 0, len(rec.Payroll[k]))
		for _, a := range rec.Payroll[k] {
			day, _ := datekey.Normalize(a.Date)
			adjustments = append(adjustments, adjustmentResponse{
				ID:       a.ID,
				Employee: a.Employee,
				Amount:   money.Format(a.Amount),
				Date:     day,
			})
		}

		resp.Payroll[k] = adjustments
	}

	return resp
}

func toResponseList(recs []*daily.Record) []recordResponse {
	resp := make([]recordResponse, len(recs))
	for i, rec := range recs {
		resp[i] = toResponse(rec)
	}

	return resp
}
