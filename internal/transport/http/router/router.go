package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/user-admin-service/internal/transport/http/response"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type UsersHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	FindAll(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type ScreensHandler interface {
	Open(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Close(w http.ResponseWriter, r *http.Request)
	Select(w http.ResponseWriter, r *http.Request)
	New(w http.ResponseWriter, r *http.Request)
	Form(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Page(w http.ResponseWriter, r *http.Request)
	Enter(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health  HealthHandler
	Users   UsersHandler
	Screens ScreensHandler

	AuthMW  func(http.Handler) http.Handler
	AdminMW func(http.Handler) http.Handler

	// CORSAllowedOrigins empty disables CORS handling.
	CORSAllowedOrigins []string
	// RateLimitPerMinute <= 0 disables per-IP limiting on /admin/v1.
	RateLimitPerMinute int
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("nil Users handler")
	}
	if deps.Screens == nil {
		return nil, fmt.Errorf("nil Screens handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderXRequestID},
			ExposedHeaders:   []string{middleware.HeaderXRequestID},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/admin/v1", func(r chi.Router) {
		if deps.RateLimitPerMinute > 0 {
			r.Use(httprate.Limit(
				deps.RateLimitPerMinute,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					response.WriteError(w, r, domain.ErrRateLimited("admin"))
				}),
			))
		}
		r.Use(deps.AuthMW)
		r.Use(deps.AdminMW)

		r.Get("/users", deps.Users.List)
		r.Get("/users/all", deps.Users.FindAll)
		r.Get("/users/{id}", deps.Users.Get)

		r.Post("/screens", deps.Screens.Open)
		r.Route("/screens/{sid}", func(r chi.Router) {
			r.Get("/", deps.Screens.Get)
			r.Delete("/", deps.Screens.Close)
			r.Post("/select", deps.Screens.Select)
			r.Post("/new", deps.Screens.New)
			r.Patch("/form", deps.Screens.Form)
			r.Post("/save", deps.Screens.Save)
			r.Post("/cancel", deps.Screens.Cancel)
			r.Post("/refresh", deps.Screens.Refresh)
			r.Post("/page", deps.Screens.Page)
			r.Get("/users/{id}/edit", deps.Screens.Enter)
		})
	})

	return r, nil
}
