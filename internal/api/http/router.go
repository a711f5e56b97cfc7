package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/mindengage-qformat/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qformat/internal/bank"
	"github.com/mind-engage/mindengage-qformat/internal/i18n"
	"github.com/mind-engage/mindengage-qformat/internal/rbac"
)

type Deps struct {
	Auth          *auth.AuthService
	Accounts      auth.Accounts // nil disables /auth/login
	Store         bank.Store
	Exporter      Exporter
	Archive       ArchiveReader // nil disables /exports
	Localizer     i18n.Localizer
	DefaultFormat string
	CORSOrigins   []string
}

func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition", "X-Export-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if d.Accounts != nil {
		r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Accounts))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.With(rbac.Require("category:list")).
			Get("/categories", ListCategoriesHandler(d.Store))
		pr.With(rbac.Require("question:import")).
			Put("/categories/{id}", PutCategoryHandler(d.Store))
		pr.With(rbac.Require("question:export")).
			Get("/categories/{id}/export", ExportHandler(d.Exporter, d.Localizer, d.DefaultFormat))

		if d.Archive != nil {
			pr.Route("/exports", func(er chi.Router) {
				er.Use(rbac.RequireAny("export:download", "question:export"))
				MountExports(er, d.Archive)
			})
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	return r
}
