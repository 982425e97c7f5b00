package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptfeed/internal/api"
	"promptfeed/internal/feed"
	"promptfeed/shared/ai"
	"promptfeed/shared/config"
	"promptfeed/shared/monitoring"

	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The Gemini client is the only process-wide provider handle: built
	// once here, immutable afterwards, shared by every request.
	aiClient, err := ai.NewClient(ctx, &cfg.AI, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create AI client")
	}

	monitor := monitoring.NewMonitor()

	reporter, err := monitoring.NewReporter(monitor, cfg.Monitoring.ReportSchedule, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create status reporter")
	}
	reporter.Start()
	defer reporter.Stop()

	service := feed.NewService(aiClient, cfg, logger)
	handler := api.NewHandler(service, monitor, logger)
	router := api.NewRouter(handler, monitor, &cfg.Server, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown incomplete")
	}
}
