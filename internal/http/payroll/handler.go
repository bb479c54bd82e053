package payroll

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/http/render"
	"github.com/MrJamesThe3rd/recette/internal/money"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
	"github.com/MrJamesThe3rd/recette/internal/reference"
)

type Handler struct {
	svc  *payroll.Service
	refs *reference.Service
}

func NewHandler(svc *payroll.Service, refs *reference.Service) *Handler {
	return &Handler{svc: svc, refs: refs}
}

// Routes mounts under /{kind}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/", h.upsert)
	r.Patch("/{id}", h.update)
	r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.delete)
}

type adjustmentRequest struct {
	Employee string          `json:"employee" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"gte=0"`
	Date     string          `json:"date" validate:"required,day"`
}

type adjustmentResponse struct {
	ID       uuid.UUID    `json:"id"`
	Kind     payroll.Kind `json:"kind"`
	Employee string       `json:"employee"`
	Amount   string       `json:"amount"`
	Date     string       `json:"date"`
}

func toResponse(a *payroll.Adjustment) adjustmentResponse {
	return adjustmentResponse{
		ID:       a.ID,
		Kind:     a.Kind,
		Employee: a.Employee,
		Amount:   money.Format(a.Amount),
		Date:     a.Date.Format(time.DateOnly),
	}
}

func kindParam(r *http.Request) payroll.Kind {
	return payroll.Kind(chi.URLParam(r, "kind"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := payroll.ListFilter{Employee: r.URL.Query().Get("employee")}

	if r.URL.Query().Get("start") != "" {
		start, end, ok := render.Range(w, r)
		if !ok {
			return
		}

		from, _ := datekey.Parse(start)
		to, _ := datekey.Parse(end)
		filter.StartDate, filter.EndDate = &from, &to
	}

	adjustments, err := h.svc.List(r.Context(), kindParam(r), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]adjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		resp[i] = toResponse(a)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if !render.Decode(w, r, &req) {
		return
	}

	date, _ := datekey.Parse(req.Date)

	a, err := h.svc.Upsert(r.Context(), payroll.UpsertParams{
		Kind:     kindParam(r),
		Employee: req.Employee,
		Amount:   req.Amount,
		Date:     date,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.refs.Ensure(r.Context(), reference.KindEmployee, a.Employee); err != nil {
		slog.Warn("failed to record employee", "employee", a.Employee, "error", err)
	}

	render.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req adjustmentRequest
	if !render.Decode(w, r, &req) {
		return
	}

	date, _ := datekey.Parse(req.Date)

	a := &payroll.Adjustment{
		ID:       id,
		Kind:     kindParam(r),
		Employee: req.Employee,
		Amount:   req.Amount,
		Date:     date,
	}
	if err := h.svc.Update(r.Context(), a); err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), kindParam(r), id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
