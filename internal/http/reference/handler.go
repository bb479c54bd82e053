package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	"github.com/MrJamesThe3rd/recette/internal/http/render"
	"github.com/MrJamesThe3rd/recette/internal/reference"
)

type Handler struct {
	svc *reference.Service
}

func NewHandler(svc *reference.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts under /{kind}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Patch("/{id}", h.rename)
	r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.delete)
}

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

type entryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func kindParam(r *http.Request) reference.Kind {
	return reference.Kind(chi.URLParam(r, "kind"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context(), kindParam(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = entryResponse{ID: e.ID, Name: e.Name}
	}

	render.JSON(w, http.StatusOK, resp)
}

// add returns the existing entry when the name is already known.
func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !render.Decode(w, r, &req) {
		return
	}

	e, err := h.svc.Add(r.Context(), kindParam(r), req.Name)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, entryResponse{ID: e.ID, Name: e.Name})
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req nameRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if err := h.svc.Rename(r.Context(), kindParam(r), id, req.Name); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
