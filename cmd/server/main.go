// Command server runs the reading API: generation, saved readings, the
// public feed and engagement.
//
// @title          Dream Storybook API
// @version        1.0
// @description    Dream, tarot and fortune readings generated by a text model and illustrated by an image model, with saved readings, a public feed and engagement.
// @BasePath       /api/v1
//
// @securityDefinitions.apikey UserID
// @in   header
// @name X-User-ID
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/dossbaby/dream-storybook-sub001/internal/blob"
	"github.com/dossbaby/dream-storybook-sub001/internal/config"
	httpapi "github.com/dossbaby/dream-storybook-sub001/internal/http"
	"github.com/dossbaby/dream-storybook-sub001/internal/imagegen"
	"github.com/dossbaby/dream-storybook-sub001/internal/llm"
	"github.com/dossbaby/dream-storybook-sub001/internal/media"
	"github.com/dossbaby/dream-storybook-sub001/internal/observability"
	"github.com/dossbaby/dream-storybook-sub001/internal/prompt"
	"github.com/dossbaby/dream-storybook-sub001/internal/repo"
	"github.com/dossbaby/dream-storybook-sub001/internal/services"
	"github.com/dossbaby/dream-storybook-sub001/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.ConfigureLogging(cfg.OTEL.ServiceName, cfg.LogLevel, cfg.LogPretty, os.Stderr)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("path", dir).Msg("create db directory")
		}
	}
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	store, err := blob.NewFSStore(cfg.BlobDir, cfg.BlobBaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.BlobDir).Msg("open blob store")
	}

	gen := cfg.Generation
	registry := media.NewRegistry(gen.MediaTTL)
	text := llm.NewClient(llm.Config{
		APIKey:  gen.Text.APIKey,
		BaseURL: gen.Text.BaseURL,
		Model:   gen.Text.Model,
		Timeout: gen.Text.Timeout,
	}, nil)
	images := imagegen.NewClient(imagegen.Config{
		APIKey:  gen.Image.APIKey,
		BaseURL: gen.Image.BaseURL,
		Model:   gen.Image.Model,
		Timeout: gen.Image.Timeout,
	}, nil, registry)
	if !text.Configured() || !images.Configured() {
		log.Warn().
			Bool("text_key", text.Configured()).
			Bool("image_key", images.Configured()).
			Msg("model API keys missing; generation requests will be refused")
	}

	persist := services.NewPersistenceService(db, store, registry)
	saves := services.NewSaveTasks(persist, gen.AutoSaveDelay, gen.SaveTimeout)
	readings := services.NewReadingService(prompt.NewBuilder(prompt.DefaultRNG()), text, images, saves, services.ReadingOptions{
		ImageInterval:    gen.ImageInterval,
		ImageConcurrency: gen.ImageConcurrency,
		AnimationStep:    gen.AnimationStep,
		RevealDelay:      gen.RevealDelay,
		MaxInputRunes:    gen.MaxInputChars,
		AutoSave:         gen.AutoSave,
	})
	idem := services.NewIdempotencyService(db, cfg.IdempotencyTTL)

	// Background housekeeping stops with ctx.
	go idem.RunPurger(ctx, time.Hour)
	go sweepMedia(ctx, registry, time.Minute)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, httpapi.Pipeline{
		Readings:    readings,
		Persistence: persist,
		SaveTasks:   saves,
		Idempotency: idem,
		Media:       registry,
	}, cfg)

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
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// In-flight background saves get their own bound.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), gen.SaveTimeout)
	defer cancelDrain()
	if err := saves.Wait(drainCtx); err != nil {
		log.Warn().Err(err).Msg("background saves still running at exit")
	}

	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("bye")
}

// sweepMedia evicts expired image handles until ctx is done.
func sweepMedia(ctx context.Context, reg *media.Registry, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := reg.Sweep(); n > 0 {
				log.Debug().Int("evicted", n).Msg("media sweep")
			}
		}
	}
}
