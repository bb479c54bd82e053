package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	"github.com/MrJamesThe3rd/recette/internal/http/render"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// PublicRoutes are reachable without a token.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/login", h.login)
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/me", h.me)
	r.With(auth.RequireRole(auth.RoleAdmin)).Post("/users", h.register)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !render.Decode(w, r, &req) {
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Username: user.Username, Role: user.Role},
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, _ := uuid.Parse(claims.UserID)

	render.JSON(w, http.StatusOK, userResponse{ID: id, Username: claims.Username, Role: claims.Role})
}

type registerRequest struct {
	Username string    `json:"username" validate:"required,min=3"`
	Password string    `json:"password" validate:"required,min=8"`
	Role     auth.Role `json:"role" validate:"required,oneof=admin cashier"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !render.Decode(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, Role: user.Role})
}
