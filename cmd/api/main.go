package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/whatsapp-relay/config"
	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/events"
	"github.com/marcelsud/whatsapp-relay/internal/http/chi"
	"github.com/marcelsud/whatsapp-relay/internal/wire"
	"github.com/marcelsud/whatsapp-relay/metrics"
	"github.com/marcelsud/whatsapp-relay/session"
	"github.com/marcelsud/whatsapp-relay/session/whatsmeow"
	"github.com/marcelsud/whatsapp-relay/webhook"
	"github.com/marcelsud/whatsapp-relay/webhook/signature"
	"github.com/rs/zerolog"
)

const (
	TIMEOUT = 30 * time.Second

	// autoConnectDelay lets the server come up before the client starts pairing
	autoConnectDelay = 2 * time.Second
)

/* main wires the packages together and owns their lifecycle.
 * Imports only go downwards: cmd imports the domain packages, which import
 * the storage adapters through interfaces.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		return
	}

	logger := httplog.NewLogger("whatsapp-relay", httplog.Options{
		JSON:     cfg.LogJSON,
		LogLevel: cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	store, err := wire.OpenStore(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("opening store")
		return
	}
	defer store.Close(context.Background())

	destinations, err := wire.OpenDestinations(cfg, store)
	if err != nil {
		logger.Error().Err(err).Msg("opening registry")
		return
	}
	if destinations != store {
		defer destinations.Close(context.Background())
	}

	publisher, err := wire.OpenPublisher(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("connecting publisher")
		return
	}
	defer publisher.Close()

	blobs, err := wire.OpenMedia(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("opening media store")
		return
	}

	logs := eventlog.NewService(store, publisher, logger)
	registry := webhook.NewRegistry(destinations)
	dispatcher := webhook.NewDispatcher(registry, logs, cfg.DefaultWebhookURL, logger)
	if cfg.WebhookSigningSecret != "" {
		secret, err := signature.ParseSecret(cfg.WebhookSigningSecret)
		if err != nil {
			logger.Error().Err(err).Msg("parsing WEBHOOK_SIGNING_SECRET")
			return
		}
		dispatcher.Secret = secret
	}

	state := session.NewState()
	state.OnChange = func(s session.Snapshot) {
		logger.Info().Str("status", s.Status.String()).Msg("connection state changed")
		err := publisher.Publish(context.Background(), events.TopicSessionChanged, events.SessionChanged{
			Status:    s.Status.String(),
			SessionID: s.SessionID,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("publishing session change")
		}
	}

	bridge := session.NewBridge(state, logs, dispatcher, blobs, cfg.EventQueueSize, logger)
	bridgeDone := make(chan struct{})
	go func() {
		defer close(bridgeDone)
		_ = bridge.Run(ctx)
	}()

	client, err := whatsmeow.New(ctx, cfg.WhatsAppStorePath, bridge.Sink(), logger)
	if err != nil {
		logger.Error().Err(err).Msg("opening messaging client")
		return
	}
	ctrl := session.NewService(client, state, logs, blobs, logger)

	exporter, err := metrics.NewOTelExporter(metrics.NewRelayCollector(logs, ctrl))
	if err != nil {
		logger.Error().Err(err).Msg("creating metrics exporter")
		return
	}
	dispatcher.Recorder = exporter

	svc := chi.Services{
		Logs:           logs,
		Registry:       registry,
		Dispatcher:     dispatcher,
		Session:        ctrl,
		DefaultURL:     cfg.DefaultWebhookURL,
		Metrics:        exporter.ServeHTTP(),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Started:        time.Now(),
	}
	if cfg.MediaBackend == "local" {
		svc.UploadsDir = cfg.UploadsDir
	}
	r := chi.Handlers(ctx, svc, logger)
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	if cfg.AutoConnect {
		go autoConnect(ctx, ctrl, logger)
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().Str("port", cfg.Port).Msg("listening")
	logger.Info().Str("url", "http://localhost:"+cfg.Port+"/webhook/whatsapp").Msg("inbound event endpoint")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("serving")
		return
	}
	err = <-errShutdown

	// the client goes first so no new events arrive, then in-flight
	// deliveries finish before the stores close
	if cerr := client.Close(); cerr != nil {
		logger.Warn().Err(cerr).Msg("closing messaging client")
	}
	<-bridgeDone
	dispatcher.Wait()
	if merr := exporter.Shutdown(context.Background()); merr != nil {
		logger.Warn().Err(merr).Msg("shutting down metrics")
	}
	if err != nil {
		logger.Error().Err(err).Msg("shutdown")
		return
	}
}

func autoConnect(ctx context.Context, ctrl session.Controller, logger zerolog.Logger) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(autoConnectDelay):
	}
	logger.Info().Msg("initializing messaging client")
	if _, err := ctrl.Connect(ctx); err != nil {
		logger.Error().Err(err).Msg("auto connect")
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
