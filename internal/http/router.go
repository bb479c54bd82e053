package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	authHandler "github.com/MrJamesThe3rd/recette/internal/http/auth"
	"github.com/MrJamesThe3rd/recette/internal/http/daily"
	"github.com/MrJamesThe3rd/recette/internal/http/deposit"
	"github.com/MrJamesThe3rd/recette/internal/http/export"
	"github.com/MrJamesThe3rd/recette/internal/http/importcsv"
	"github.com/MrJamesThe3rd/recette/internal/http/invoice"
	"github.com/MrJamesThe3rd/recette/internal/http/payroll"
	"github.com/MrJamesThe3rd/recette/internal/http/photo"
	"github.com/MrJamesThe3rd/recette/internal/http/reference"
	"github.com/MrJamesThe3rd/recette/internal/http/stats"
)

// Handlers groups the v1 route handlers.
type Handlers struct {
	Auth      *authHandler.Handler
	Daily     *daily.Handler
	Invoices  *invoice.Handler
	Payroll   *payroll.Handler
	Deposits  *deposit.Handler
	Reference *reference.Handler
	Stats     *stats.Handler
	Photos    *photo.Handler
	Export    *export.Handler
	Import    *importcsv.Handler
}

func New(authSvc *auth.Service, allowedOrigins []string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			h.Auth.PublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate(authSvc))
				h.Auth.Routes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(authSvc))

			r.Route("/daily", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Daily.Routes(r)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Invoices.Routes(r)
			})

			r.Route("/payroll/{kind}", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Payroll.Routes(r)
			})

			r.Route("/deposits", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Deposits.Routes(r)
			})

			r.Route("/reference/{kind}", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Reference.Routes(r)
			})

			r.Route("/stats", h.Stats.Routes)
			r.Route("/photos", h.Photos.Routes)
			r.Route("/export", h.Export.Routes)
			r.Route("/import", h.Import.Routes)
		})
	})

	return router
}
