package invoice

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/http/render"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/reference"
)

type Handler struct {
	svc  *invoice.Service
	refs *reference.Service
}

func NewHandler(svc *invoice.Service, refs *reference.Service) *Handler {
	return &Handler{svc: svc, refs: refs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.delete)
	r.Post("/{id}/pay", h.pay)
	r.Post("/{id}/unpay", h.unpay)
}

type invoiceRequest struct {
	Supplier  string          `json:"supplier" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	IssueDate string          `json:"issue_date" validate:"required,day"`
	DocType   string          `json:"doc_type"`
	DocNumber string          `json:"doc_number"`
	Photo     string          `json:"photo"`
	Photos    []string        `json:"photos"`
}

func (req invoiceRequest) issueDate() time.Time {
	t, _ := datekey.Parse(req.IssueDate)
	return t
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if !render.Decode(w, r, &req) {
		return
	}

	inv, err := h.svc.Create(r.Context(), invoice.CreateParams{
		Supplier:  req.Supplier,
		Amount:    req.Amount,
		IssueDate: req.issueDate(),
		DocType:   req.DocType,
		DocNumber: req.DocNumber,
		Photo:     req.Photo,
		Photos:    req.Photos,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.refs.Ensure(r.Context(), reference.KindSupplier, inv.Supplier); err != nil {
		slog.Warn("failed to record supplier", "supplier", inv.Supplier, "error", err)
	}

	render.JSON(w, http.StatusCreated, toResponse(inv))
}

// list filters on supplier, paid_by, status, start/end or month (issue date)
// and sorts on sort=date|amount|supplier with order=asc|desc.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := invoice.ListFilter{
		Supplier:  q.Get("supplier"),
		PaidBy:    q.Get("paid_by"),
		Sort:      invoice.SortField(q.Get("sort")),
		Ascending: strings.EqualFold(q.Get("order"), "asc"),
	}

	switch filter.Sort {
	case "", invoice.SortByDate, invoice.SortByAmount, invoice.SortBySupplier:
	default:
		http.Error(w, "invalid sort", http.StatusBadRequest)
		return
	}

	if s := q.Get("status"); s != "" {
		status := invoice.Status(s)
		if status != invoice.StatusPaid && status != invoice.StatusUnpaid {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		filter.Status = &status
	}

	var err error

	start, end := q.Get("start"), q.Get("end")
	if m := q.Get("month"); m != "" {
		if start, end, err = datekey.ParseMonth(m); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if filter.StartDate, err = optionalDay(start); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if filter.EndDate, err = optionalDay(end); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	invoices, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(invoices))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req invoiceRequest
	if !render.Decode(w, r, &req) {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	inv.Supplier = req.Supplier
	inv.Amount = req.Amount
	inv.IssueDate = req.issueDate()
	inv.DocType = req.DocType
	inv.DocNumber = req.DocNumber
	inv.Photo = req.Photo
	inv.Photos = req.Photos

	if err := h.svc.Update(r.Context(), inv); err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type payRequest struct {
	Method       invoice.PaymentMethod `json:"method" validate:"required,oneof=cash cheque transfer card"`
	Date         string                `json:"date" validate:"omitempty,day"`
	PaidBy       string                `json:"paid_by"`
	ChequePhotos []string              `json:"cheque_photos"`
}

// pay defaults the paid date to today and the payer to the caller.
func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req payRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if req.Date == "" {
		req.Date = time.Now().Format(time.DateOnly)
	}

	if strings.TrimSpace(req.PaidBy) == "" {
		if claims, ok := auth.ClaimsFrom(r.Context()); ok {
			req.PaidBy = claims.Username
		}
	}

	inv, err := h.svc.Pay(r.Context(), id, invoice.PayParams{
		Method:       req.Method,
		Date:         req.Date,
		PaidBy:       req.PaidBy,
		ChequePhotos: req.ChequePhotos,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) unpay(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Unpay(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
}

func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

func optionalDay(key string) (*time.Time, error) {
	if key == "" {
		return nil, nil
	}

	t, err := datekey.Parse(key)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
