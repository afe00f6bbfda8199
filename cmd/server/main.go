// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/teastore-recommender/internal/api"
	"github.com/tomtom215/teastore-recommender/internal/config"
	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/supervisor"
	"github.com/tomtom215/teastore-recommender/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("persistence_url", cfg.Persistence.URL).
		Int("peers", len(cfg.Peers.URLs)).
		Str("algorithm", cfg.Recommend.Algorithm).
		Str("fallback_algorithm", cfg.Recommend.FallbackAlgorithm).
		Msg("Starting recommender")

	rec, err := initRecommender(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommender")
	}

	store, err := initHistory(cfg, rec.synchronizer)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open training history")
	}
	defer func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing training history")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewComponentSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	natsComponents, err := InitNATS(cfg, rec.synchronizer)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS")
	}
	defer natsComponents.Shutdown(context.Background())
	AddNATSToSupervisor(tree, natsComponents)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(rec.synchronizer, rec.selector)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree.AddTrainingService(services.NewRetrainService(rec.synchronizer, services.RetrainServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		Interval:       cfg.Recommend.RetrainInterval,
		RoundTimeout:   cfg.Recommend.RoundTimeout,
	}, logging.WithComponent("retrain")))

	if store != nil && !cfg.History.InMemory {
		tree.AddTrainingService(services.NewHistoryGCService(store, 0, logging.WithComponent("history")))
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Recommender stopped")
}
