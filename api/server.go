/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. Logging:    Structured per-request logs (zerolog)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/schedule/*        Month views, draft writes, publish/discard
  /api/staff/*           Staff management
  /api/leave/*           Balances, history, cancellation, maternity
  /api/holidays/*        Public holiday management
  /api/scenarios/*       Demo scenarios and data reset

SECURITY NOTE:
  No authentication middleware. All endpoints are assumed to sit behind
  the pharmacy's internal network.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Schedule routes
		r.Get("/schedule", h.GetSchedule)
		r.Route("/schedule/{year}/{month}", func(r chi.Router) {
			r.Put("/draft", h.SaveDraft)
			r.Delete("/draft", h.DiscardDraft)
			r.Post("/publish", h.Publish)
		})

		// Staff routes
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.ListStaff)
			r.Post("/", h.CreateStaff)
			r.Get("/{id}", h.GetStaff)
			r.Put("/{id}", h.UpdateStaff)
			r.Delete("/{id}", h.DeactivateStaff)
		})

		// Leave routes
		r.Route("/leave", func(r chi.Router) {
			r.Get("/balances", h.GetBalances)
			r.Get("/history", h.GetHistory)
			r.Post("/history/{id}/cancel", h.CancelLeave)
			r.Post("/rl-grant", h.GrantRL)
			r.Route("/maternity", func(r chi.Router) {
				r.Get("/", h.ListMaternity)
				r.Post("/", h.CreateMaternity)
				r.Post("/{id}/cancel", h.CancelMaternity)
			})
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetData)
		})
	})

	return r
}

// requestLogger emits one structured log line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
