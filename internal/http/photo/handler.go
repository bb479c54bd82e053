package photo

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/recette/internal/http/render"
	"github.com/MrJamesThe3rd/recette/internal/photo"
)

// folders are the upload destinations a client may name.
var folders = map[string]bool{"invoices": true, "cheques": true}

type Handler struct {
	svc *photo.Service
}

func NewHandler(svc *photo.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/*", h.serve)
}

type uploadResponse struct {
	Ref string `json:"ref"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "invoices"
	}

	if !folders[folder] {
		http.Error(w, "invalid folder", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ref, err := h.svc.Upload(r.Context(), folder, file)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, uploadResponse{Ref: ref})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	rc, err := h.svc.Open(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=86400")

	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to stream photo", "error", err)
	}
}
