package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/event-attendance-api/internal/auth"
	"github.com/gdg-garage/event-attendance-api/internal/config"
	"github.com/gdg-garage/event-attendance-api/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth      *auth.AuthHandler
	Checks    *CheckHandler
	Attendees *AttendeeHandler
	Events    *EventHandler
	APIKeys   *APIKeyHandler
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}, {"bearerAuth": {}}, {"apiKeyAuth": {}}}
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, l *zap.Logger, h Handlers) huma.API {
	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(l))
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-API-KEY"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(h.Auth.SessionMiddleware)

	apiConfig := huma.DefaultConfig("Event Attendance API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, apiConfig)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	huma.Post(api, "/attendees", h.Attendees.HandleRegister)

	// Auth routes
	r.Get("/auth/discord/login", h.Auth.HandleLogin)
	r.Get("/auth/discord/callback", h.Auth.HandleCallback)

	// Staff routes
	huma.Get(api, "/me", h.Auth.HandleMe, secured)
	huma.Get(api, "/events", h.Events.HandleList, secured)
	huma.Get(api, "/events/current", h.Events.HandleCurrent, secured)
	huma.Get(api, "/subevents", h.Events.HandleListSubEvents, secured)
	huma.Post(api, "/event-checks", h.Checks.HandleEventCheck, secured)
	huma.Post(api, "/subevent-checks", h.Checks.HandleSubEventCheck, secured)
	huma.Post(api, "/subevent-checkouts", h.Checks.HandleSubEventCheckout, secured)
	huma.Post(api, "/events", h.Events.HandleCreate, secured)
	huma.Post(api, "/subevents", h.Events.HandleCreateSubEvent, secured)
	huma.Get(api, "/events/{id}/attendees", h.Attendees.HandleList, secured)
	huma.Post(api, "/api-keys", h.APIKeys.HandleCreate, secured)
	huma.Get(api, "/api-keys", h.APIKeys.HandleList, secured)
	huma.Delete(api, "/api-keys/{id}", h.APIKeys.HandleDelete, secured)

	return api
}
