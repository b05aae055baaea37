package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/session"
	"github.com/marcelsud/whatsapp-relay/webhook"
	"github.com/rs/zerolog"
)

// DefaultMaxUpload is the send-media limit when none is configured
const DefaultMaxUpload = 10 << 20

// Services groups what the admin API talks to
type Services struct {
	Logs       eventlog.UseCase
	Registry   webhook.Registry
	Dispatcher webhook.Deliverer
	Session    session.Controller

	// DefaultURL is reported by webhook info when no destination is configured
	DefaultURL string

	// UploadsDir is served under /uploads when set
	UploadsDir string

	// Metrics is served under /metrics when set
	Metrics http.Handler

	MaxUploadBytes int64
	Started        time.Time
}

// Handlers sets up the admin API routes
func Handlers(ctx context.Context, svc Services, logger zerolog.Logger) *chi.Mux {
	if svc.MaxUploadBytes <= 0 {
		svc.MaxUploadBytes = DefaultMaxUpload
	}
	if svc.Started.IsZero() {
		svc.Started = time.Now()
	}

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", getHealth(svc.Started).ServeHTTP)

		r.Route("/connection", func(r chi.Router) {
			r.Get("/status", getConnectionStatus(svc.Session).ServeHTTP)
			r.Post("/connect", postConnect(svc.Session).ServeHTTP)
			r.Post("/disconnect", postDisconnect(svc.Session).ServeHTTP)
			r.Post("/qr-code", postQRCode(svc.Session).ServeHTTP)
		})

		r.Post("/send-message", postSendMessage(svc.Session).ServeHTTP)
		r.Post("/send-media", postSendMedia(svc.Session, svc.MaxUploadBytes).ServeHTTP)

		r.Get("/messages/logs", getMessageLogs(svc.Logs).ServeHTTP)
		r.Delete("/messages/logs", deleteMessageLogs(svc.Logs).ServeHTTP)

		r.Route("/webhook", func(r chi.Router) {
			r.Get("/logs", getWebhookLogs(svc.Logs).ServeHTTP)
			r.Delete("/logs", deleteWebhookLogs(svc.Logs).ServeHTTP)
			r.Get("/info", getWebhookInfo(svc.Registry, svc.DefaultURL).ServeHTTP)
			r.Post("/configure", postConfigure(svc.Registry).ServeHTTP)
			r.Post("/test", postTest(svc.Dispatcher).ServeHTTP)
		})

		r.Get("/dashboard/stats", getStats(svc.Logs, svc.Started).ServeHTTP)
	})

	r.Post("/webhook/whatsapp", postExternalEvent(svc.Dispatcher).ServeHTTP)

	if svc.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(svc.UploadsDir))))
	}
	if svc.Metrics != nil {
		r.Handle("/metrics", svc.Metrics)
	}

	return r
}
