package api

import (
	"net/http"

	"github.com/Rrens/ai-debate/internal/api/handler"
	customMiddleware "github.com/Rrens/ai-debate/internal/api/middleware"
	"github.com/Rrens/ai-debate/internal/config"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/Rrens/ai-debate/internal/llm"
	"github.com/Rrens/ai-debate/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Dependencies are the wired components the HTTP layer serves
type Dependencies struct {
	Config     *config.Config
	Debates    *service.DebateService
	Menus      *service.MenuService
	Subscriber domain.EventSubscriber
	LLM        *llm.Router
	// Personas are listed next to the providers they run on
	Personas [2]domain.Persona
	// RateLimiter guards debate creation and triggers; nil disables limiting
	RateLimiter customMiddleware.Limiter
	Ready       map[string]handler.Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	debateHandler := handler.NewDebateHandler(deps.Debates)
	wsHandler := handler.NewWSHandler(deps.Debates, deps.Subscriber, deps.RateLimiter, cfg.Server.AllowedOrigins)
	menuHandler := handler.NewMenuHandler(deps.Menus)

	limit := func(next http.Handler) http.Handler { return next }
	if deps.RateLimiter != nil {
		limit = customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit
	}

	// Long-lived connection: no request timeout
	r.Get("/ws/debates/{sessionID}", wsHandler.Serve)

	r.Route("/api/v1", func(r chi.Router) {
		timeout := middleware.Timeout(cfg.Server.MiddlewareTimeout)

		r.Route("/debates", func(r chi.Router) {
			// Bounded by debate.sync_timeout rather than the request timeout
			r.With(limit).Post("/run", debateHandler.Run)

			r.With(timeout, limit).Post("/", debateHandler.Create)
			r.With(timeout).Get("/active", debateHandler.Active)
			r.With(timeout).Get("/recent", debateHandler.Recent)
			r.With(timeout).Get("/{sessionID}", debateHandler.Get)
			r.With(timeout, limit).Post("/{sessionID}/start", debateHandler.Start)
		})

		r.Group(func(r chi.Router) {
			r.Use(timeout)

			r.Get("/health", handler.HealthCheck)
			r.Get("/ready", handler.ReadyCheck(deps.Ready))
			r.Get("/llm-providers", handler.ListLLMProviders(deps.LLM, deps.Personas))

			r.Get("/menus", menuHandler.Active)

			r.Route("/admin/menus", func(r chi.Router) {
				r.Get("/", menuHandler.List)
				r.Post("/", menuHandler.Create)
				r.Put("/order", menuHandler.Reorder)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", menuHandler.Get)
					r.Put("/", menuHandler.Update)
					r.Patch("/toggle", menuHandler.Toggle)
					r.Delete("/", menuHandler.Delete)
				})
			})
		})
	})

	return r
}
