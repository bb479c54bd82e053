package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/recette/internal/http/render"
	"github.com/MrJamesThe3rd/recette/internal/money"
	"github.com/MrJamesThe3rd/recette/internal/stats"
)

type Handler struct {
	svc *stats.Service
}

func NewHandler(svc *stats.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/salaries", h.salaries)
	r.Get("/rankings", h.rankings)
	r.Get("/paid-users", h.paidUsers)
	r.Get("/payments", h.payments)
}

type monthResponse struct {
	Month     string `json:"month"`
	Total     string `json:"total"`
	Available bool   `json:"available"`
}

type rankingResponse struct {
	Name  string `json:"name"`
	Total string `json:"total"`
	Count int    `json:"count"`
}

type summaryResponse struct {
	Start        string            `json:"start"`
	End          string            `json:"end"`
	Days         int               `json:"days"`
	Gross        string            `json:"gross"`
	Expenses     string            `json:"expenses"`
	Payroll      string            `json:"payroll"`
	Net          string            `json:"net"`
	Card         string            `json:"card"`
	Cheque       string            `json:"cheque"`
	Cash         string            `json:"cash"`
	Vouchers     string            `json:"vouchers"`
	Deposits     string            `json:"deposits"`
	CashOnHand   string            `json:"cash_on_hand"`
	InvoicesPaid string            `json:"invoices_paid"`
	InvoicesOwed string            `json:"invoices_owed"`
	ByMethod     map[string]string `json:"by_method"`
	ProfitMargin *string           `json:"profit_margin"`
}

func (h *Handler) salaries(w http.ResponseWriter, r *http.Request) {
	start, end, ok := render.Range(w, r)
	if !ok {
		return
	}

	totals, err := h.svc.MonthlySalaries(r.Context(), start, end)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]monthResponse, len(totals))
	for i, t := range totals {
		resp[i] = monthResponse{Month: t.Month, Total: money.Format(t.Total), Available: t.Available}
	}

	render.JSON(w, http.StatusOK, resp)
}

// rankings takes by=supplier|designation|payment_method and an optional
// name filter q.
func (h *Handler) rankings(w http.ResponseWriter, r *http.Request) {
	start, end, ok := render.Range(w, r)
	if !ok {
		return
	}

	by := stats.RankBy(r.URL.Query().Get("by"))
	if !by.Valid() {
		http.Error(w, "invalid ranking", http.StatusBadRequest)
		return
	}

	rankings, err := h.svc.Rankings(r.Context(), start, end, by, r.URL.Query().Get("q"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toRankings(rankings))
}

func (h *Handler) paidUsers(w http.ResponseWriter, r *http.Request) {
	start, end, ok := render.Range(w, r)
	if !ok {
		return
	}

	rankings, err := h.svc.PaidUsers(r.Context(), start, end)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toRankings(rankings))
}

func (h *Handler) payments(w http.ResponseWriter, r *http.Request) {
	start, end, ok := render.Range(w, r)
	if !ok {
		return
	}

	sum, err := h.svc.Payments(r.Context(), start, end)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := summaryResponse{
		Start:        sum.Start,
		End:          sum.End,
		Days:         sum.Days,
		Gross:        money.Format(sum.Gross),
		Expenses:     money.Format(sum.Expenses),
		Payroll:      money.Format(sum.Payroll),
		Net:          money.Format(sum.Net),
		Card:         money.Format(sum.Card),
		Cheque:       money.Format(sum.Cheque),
		Cash:         money.Format(sum.Cash),
		Vouchers:     money.Format(sum.Vouchers),
		Deposits:     money.Format(sum.Deposits),
		CashOnHand:   money.Format(sum.CashOnHand),
		InvoicesPaid: money.Format(sum.InvoicesPaid),
		InvoicesOwed: money.Format(sum.InvoicesOwed),
		ByMethod:     make(map[string]string, len(sum.ByMethod)),
	}

	for method, total := range sum.ByMethod {
		resp.ByMethod[method] = money.Format(total)
	}

	if sum.ProfitMargin != nil {
		margin := sum.ProfitMargin.StringFixed(4)
		resp.ProfitMargin = &margin
	}

	render.JSON(w, http.StatusOK, resp)
}

func toRankings(rankings []stats.Ranking) []rankingResponse {
	resp := make([]rankingResponse, len(rankings))
	for i, rk := range rankings {
		resp[i] = rankingResponse{Name: rk.Name, Total: money.Format(rk.Total), Count: rk.Count}
	}

	return resp
}
