package deposit

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/deposit"
	"github.com/MrJamesThe3rd/recette/internal/http/render"
	"github.com/MrJamesThe3rd/recette/internal/money"
)

type Handler struct {
	svc *deposit.Service
}

func NewHandler(svc *deposit.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.delete)
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Date   string          `json:"date" validate:"required,day"`
	Note   string          `json:"note"`
}

type depositResponse struct {
	ID        uuid.UUID `json:"id"`
	Amount    string    `json:"amount"`
	Date      string    `json:"date"`
	Note      string    `json:"note,omitempty"`
	Reference string    `json:"reference,omitempty"`
}

type listResponse struct {
	Deposits []depositResponse `json:"deposits"`
	Total    string            `json:"total"`
}

func toResponse(d *deposit.Deposit) depositResponse {
	return depositResponse{
		ID:        d.ID,
		Amount:    money.Format(d.Amount),
		Date:      d.Date.Format(time.DateOnly),
		Note:      d.Note,
		Reference: d.Reference,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	start, end, ok := render.Range(w, r)
	if !ok {
		return
	}

	deposits, err := h.svc.List(r.Context(), start, end)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := listResponse{Deposits: make([]depositResponse, len(deposits))}

	total := decimal.Zero
	for i, d := range deposits {
		resp.Deposits[i] = toResponse(d)
		total = total.Add(d.Amount)
	}

	resp.Total = money.Format(total)

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if !render.Decode(w, r, &req) {
		return
	}

	date, _ := datekey.Parse(req.Date)

	d, err := h.svc.Create(r.Context(), deposit.CreateParams{Amount: req.Amount, Date: date, Note: req.Note})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req depositRequest
	if !render.Decode(w, r, &req) {
		return
	}

	date, _ := datekey.Parse(req.Date)

	d := &deposit.Deposit{ID: id, Amount: req.Amount, Date: date, Note: req.Note}
	if err := h.svc.Update(r.Context(), d); err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
