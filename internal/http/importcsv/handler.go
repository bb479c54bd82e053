package importcsv

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recette/internal/http/render"
	"github.com/MrJamesThe3rd/recette/internal/importer"
	"github.com/MrJamesThe3rd/recette/internal/money"
)

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
	r.Post("/preview", h.preview)
}

type depositDTO struct {
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Note      string `json:"note"`
	Reference string `json:"reference"`
}

type previewResponse struct {
	Deposits []depositDTO `json:"deposits"`
	Total    string       `json:"total"`
}

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	file, format, ok := statementFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.svc.Import(r.Context(), format, file)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, res)
}

// preview parses a statement without storing anything.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	file, format, ok := statementFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	params, err := h.svc.Parse(format, file)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := previewResponse{Deposits: make([]depositDTO, len(params))}

	amounts := make([]decimal.Decimal, len(params))
	for i, p := range params {
		resp.Deposits[i] = depositDTO{
			Amount:    money.Format(p.Amount),
			Date:      p.Date.Format(time.DateOnly),
			Note:      p.Note,
			Reference: p.Reference,
		}
		amounts[i] = p.Amount
	}

	resp.Total = money.Format(money.Sum(amounts...))

	render.JSON(w, http.StatusOK, resp)
}

func statementFile(w http.ResponseWriter, r *http.Request) (multipart.File, importer.Format, bool) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return nil, "", false
	}

	return file, importer.Format(r.FormValue("format")), true
}
