// Command salonsyncd runs the salon-chat synchronization service: an HTTP API
// for on-demand sync and provider login, plus the background sweeps that keep
// booking records, chats, and notifications converged.
//
// @title           Salon Chat Sync API
// @version         1.0
// @description     Synchronization bridge between a salon booking provider and the chat application.
// @BasePath        /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkrasov/salon-chat-sync/internal/config"
	httpapi "github.com/mkrasov/salon-chat-sync/internal/http"
	"github.com/mkrasov/salon-chat-sync/internal/jobs"
	"github.com/mkrasov/salon-chat-sync/internal/observability"
	"github.com/mkrasov/salon-chat-sync/internal/provider"
	"github.com/mkrasov/salon-chat-sync/internal/push"
	"github.com/mkrasov/salon-chat-sync/internal/repo"
	"github.com/mkrasov/salon-chat-sync/internal/services"
	"github.com/mkrasov/salon-chat-sync/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	sysutil.SetLogLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Storage
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	// External clients
	providerClient := provider.NewHTTPClient(provider.HTTPClientOptions{
		BaseURL:      cfg.Provider.BaseURL,
		PartnerToken: cfg.Provider.PartnerToken,
		UserToken:    cfg.Provider.UserToken,
		CompanyID:    cfg.Provider.CompanyID,
		HTTPClient:   &http.Client{Timeout: cfg.Provider.Timeout},
	})
	pushGateway := push.NewGateway(push.GatewayOptions{
		Endpoint:   cfg.Push.Endpoint,
		APIKey:     cfg.Push.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Push.Timeout},
	})

	// Services
	syncSvc := services.NewRecordSyncService(db, providerClient)
	syncSvc.Fetcher.PageSize = cfg.Provider.PageSize
	projectionSvc := services.NewChatProjectionService(db)
	dispatcher := &services.NotificationDispatcher{
		DB:         db,
		Push:       pushGateway,
		Quiescence: cfg.Jobs.NotifyQuiescence,
	}
	authSvc := &services.AuthService{DB: db, Provider: providerClient, Sync: syncSvc}

	// Background sweeps
	scheduler := jobs.NewScheduler(syncSvc, projectionSvc, dispatcher, log.Logger)
	scheduler.RecordSyncInterval = cfg.Jobs.RecordSyncInterval
	scheduler.ProjectionInterval = cfg.Jobs.ProjectionInterval
	scheduler.DispatchInterval = cfg.Jobs.DispatchInterval
	if cfg.Jobs.Enabled {
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	// HTTP transport
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, syncSvc, authSvc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
