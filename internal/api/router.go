package api

import (
	"net/http"
	"time"

	"promptfeed/shared/config"
	"promptfeed/shared/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

// NewRouter assembles the service's routes behind the shared middleware
// stack: request id, structured request logging, panic recovery, per-IP
// rate limiting, and permissive CORS for browser frontends.
func NewRouter(handler *Handler, monitor *monitoring.Monitor, cfg *config.ServerConfig, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(cfg.RequestsPerMinute, time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", monitor.HealthHandler)
	r.Get("/status", monitor.StatusHandler)

	r.Get("/feed", handler.GetFeed)
	r.Post("/embedding", handler.PostEmbedding)
	r.Get("/score/{search}/{prompt}", handler.GetScore)

	return r
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	requestLog := logger.With().Str("component", "http").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			requestLog.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
