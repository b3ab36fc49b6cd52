// Command server runs the advising chat backend.
//
// Startup order: load environment, parse configuration, configure logging,
// initialize tracing, open the persistence backend, pick the generation
// backend for the operating mode, wire the HTTP router, then serve until a
// shutdown signal arrives.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/campusmind/advising-backend/internal/ai"
	"github.com/campusmind/advising-backend/internal/config"
	httpapi "github.com/campusmind/advising-backend/internal/http"
	"github.com/campusmind/advising-backend/internal/observability"
	"github.com/campusmind/advising-backend/internal/store"
	"github.com/campusmind/advising-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	st, err := store.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("store open failed")
	}
	defer st.Close()

	catalog := ai.LoadCatalog(cfg.PromptsPath)

	var responder ai.Responder
	if cfg.MockMode {
		responder = ai.NewMockResponder(catalog, cfg.MockAIDelay, nil)
		log.Info().Dur("delay", cfg.MockAIDelay).Msg("mock mode: using rule-based responder and canned data")
	} else {
		responder = ai.NewLiveResponder(
			cfg.OpenAI.Endpoint,
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Deployment,
			cfg.OpenAI.APIVersion,
			catalog,
			cfg.OpenAI.RequestTimeout,
		)
	}

	r := gin.New()
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	httpapi.RegisterRoutes(r, st, responder, catalog, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Bool("mock_mode", cfg.MockMode).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("server stopped")
}
