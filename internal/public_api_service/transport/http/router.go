package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/healthsms/golang_services/internal/public_api_service/middleware"
)

const requestTimeout = 60 * time.Second

// RouterConfig carries the handlers and auth settings for NewRouter.
type RouterConfig struct {
	Compliance       *ComplianceHandler
	Porting          *PortingHandler
	AuthorizedNumber *AuthorizedNumberHandler
	PhoneNumbers     *PhoneNumberHandler

	JWTSecret string
	// WebhookAuthToken enables provider signature checks on the port webhook when set.
	WebhookAuthToken string
	PublicBaseURL    string
}

// NewRouter builds the public API. Everything under /api needs a session token except
// the port status webhook, which the provider calls directly.
func NewRouter(cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(PrometheusMetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	authMW := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	r.Route("/api", func(api chi.Router) {
		api.Group(func(hook chi.Router) {
			if cfg.WebhookAuthToken != "" {
				hook.Use(middleware.TwilioSignatureMiddleware(cfg.WebhookAuthToken, cfg.PublicBaseURL, logger))
			}
			hook.Post("/porting/webhook", cfg.Porting.HandleStatusWebhook)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authMW)
			protected.Route("/compliance", cfg.Compliance.RegisterRoutes)
			protected.Route("/porting", cfg.Porting.RegisterRoutes)
			protected.Route("/authorized-forward-numbers", cfg.AuthorizedNumber.RegisterRoutes)
			protected.Route("/phone-numbers", cfg.PhoneNumbers.RegisterRoutes)
		})
	})

	return r
}
