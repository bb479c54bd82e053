package daily

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/http/render"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/reference"
)

type Handler struct {
	svc  *daily.Service
	refs *reference.Service
}

func NewHandler(svc *daily.Service, refs *reference.Service) *Handler {
	return &Handler{svc: svc, refs: refs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/locked", h.lockedDates)
	r.Get("/{date}", h.get)
	r.Put("/{date}", h.save)
	r.With(auth.RequireRole(auth.RoleAdmin)).Post("/{date}/unlock", h.unlock)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	start, end, ok := render.Range(w, r)
	if !ok {
		return
	}

	records, err := h.svc.Range(r.Context(), start, end)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(records))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), date)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(rec))
}

// itemRequest mirrors itemResponse so a fetched record can be sent back as is.
// Items tagged as coming from an invoice are dropped by the service on save.
type itemRequest struct {
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Source        lineitem.Source `json:"source"`
	PaymentMethod string          `json:"payment_method"`
	Photos        []string        `json:"photos"`
	InvoiceID     *uuid.UUID      `json:"invoice_id"`
}

type saveRequest struct {
	Gross    decimal.Decimal                     `json:"gross" validate:"gte=0"`
	Card     decimal.Decimal                     `json:"card" validate:"gte=0"`
	Cheque   decimal.Decimal                     `json:"cheque" validate:"gte=0"`
	Cash     decimal.Decimal                     `json:"cash" validate:"gte=0"`
	Vouchers decimal.Decimal                     `json:"vouchers" validate:"gte=0"`
	Items    map[lineitem.Category][]itemRequest `json:"items"`
}

// items converts the submitted lists, reporting the first invalid field.
func (req saveRequest) items() (map[lineitem.Category][]lineitem.Item, map[string]string) {
	out := make(map[lineitem.Category][]lineitem.Item, len(req.Items))

	for c, list := range req.Items {
		if !c.Valid() {
			return nil, map[string]string{"items." + string(c): "category"}
		}

		items := make([]lineitem.Item, 0, len(list))
		for _, it := range list {
			if it.Amount.IsNegative() {
				return nil, map[string]string{"items." + string(c) + ".amount": "gte"}
			}

			source := it.Source
			switch source {
			case "":
				source = lineitem.SourceManual
			case lineitem.SourceManual, lineitem.SourceInvoice:
			default:
				return nil, map[string]string{"items." + string(c) + ".source": "oneof"}
			}

			items = append(items, lineitem.Item{
				Category:      c,
				Name:          it.Name,
				Amount:        it.Amount,
				Source:        source,
				PaymentMethod: it.PaymentMethod,
				Photos:        it.Photos,
				InvoiceID:     it.InvoiceID,
			})
		}

		out[c] = items
	}

	return out, nil
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var req saveRequest
	if !render.Decode(w, r, &req) {
		return
	}

	items, invalid := req.items()
	if invalid != nil {
		render.JSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": invalid})
		return
	}

	rec, err := h.svc.Save(r.Context(), daily.SaveParams{
		Date:     date,
		Gross:    req.Gross,
		Card:     req.Card,
		Cheque:   req.Cheque,
		Cash:     req.Cash,
		Vouchers: req.Vouchers,
		Items:    items,
	}, auth.RoleFrom(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.remember(r, items)

	render.JSON(w, http.StatusOK, toResponse(rec))
}

// remember adds the labels of a saved day to the suggestion lists.
func (h *Handler) remember(r *http.Request, items map[lineitem.Category][]lineitem.Item) {
	var suppliers, designations []string

	for c, list := range items {
		for _, it := range lineitem.Manual(list) {
			if c == lineitem.CategoryPurchase {
				suppliers = append(suppliers, it.Name)
			} else {
				designations = append(designations, it.Name)
			}
		}
	}

	if err := h.refs.Ensure(r.Context(), reference.KindSupplier, suppliers...); err != nil {
		slog.Warn("failed to record suppliers", "error", err)
	}

	if err := h.refs.Ensure(r.Context(), reference.KindDesignation, designations...); err != nil {
		slog.Warn("failed to record designations", "error", err)
	}
}

func (h *Handler) unlock(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Unlock(r.Context(), date); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lockedDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.svc.LockedDates(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if dates == nil {
		dates = []string{}
	}

	render.JSON(w, http.StatusOK, map[string][]string{"dates": dates})
}

func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if _, err := datekey.Parse(date); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}

	return date, true
}
