package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/recette/internal/export"
	"github.com/MrJamesThe3rd/recette/internal/http/render"
	"github.com/MrJamesThe3rd/recette/internal/money"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.metadata)
	r.Get("/workbook", h.workbook)
	r.Get("/archive", h.archive)
}

type itemResponse struct {
	Date          string   `json:"date"`
	Supplier      string   `json:"supplier"`
	Amount        string   `json:"amount"`
	PaymentMethod string   `json:"payment_method,omitempty"`
	Photos        []string `json:"photos"`
	Missing       int      `json:"missing_photos"`
}

type metadataResponse struct {
	Invoices []itemResponse `json:"invoices"`
	Summary  string         `json:"summary"`
}

// metadata lists the invoices an archive of the range would contain and how
// many of their photos could not be fetched.
func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	start, end, ok := render.Range(w, r)
	if !ok {
		return
	}

	tmpDir, err := os.MkdirTemp("", "recette-export-*")
	if err != nil {
		render.Error(w, r, err)
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Export(r.Context(), start, end, tmpDir)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := metadataResponse{
		Invoices: make([]itemResponse, 0, len(items)),
		Summary:  h.svc.GenerateSummary(items),
	}

	for _, it := range items {
		resp.Invoices = append(resp.Invoices, itemResponse{
			Date:          it.Date,
			Supplier:      it.Entry.Name,
			Amount:        money.Format(it.Entry.Amount),
			PaymentMethod: it.Entry.PaymentMethod,
			Photos:        it.Entry.Photos,
			Missing:       len(it.Entry.Photos) - len(it.Files),
		})
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) workbook(w http.ResponseWriter, r *http.Request) {
	start, end, ok := render.Range(w, r)
	if !ok {
		return
	}

	book, err := h.svc.Workbook(r.Context(), start, end)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	defer book.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"recette_%s_%s.xlsx\"", start, end))

	if err := book.Write(w); err != nil {
		slog.Error("failed to write workbook", "error", err)
	}
}

// archive streams the zip directly; once bytes are sent a failure can only
// be logged.
func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	start, end, ok := render.Range(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"recette_%s_%s.zip\"", start, end))

	if err := h.svc.Archive(r.Context(), start, end, w); err != nil {
		slog.Error("failed to create archive", "error", err)
	}
}
