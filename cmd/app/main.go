package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/config"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/logger"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/metrics"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/orchestrator"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/storage"
	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/store"
)

func main() {
	// A local .env is a convenience for development runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	_ = logger.Init(logger.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	})
	defer logger.Close()

	metrics.Init()
	if cfg.Metrics.Addr != "" {
		metrics.Serve(cfg.Metrics.Addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStore(ctx, cfg.Run)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init output store")
	}

	deps := orchestrator.Dependencies{
		Store: st,
		Run:   cfg.Run,
	}
	if cfg.Status.RedisURL != "" {
		rs, err := store.NewRedisStatus(cfg.Status.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init redis status store")
		}
		defer rs.Close()
		deps.Status = orchestrator.NewStatusAdapter(rs)
	}

	if _, err := orchestrator.New(deps).Run(ctx); err != nil {
		log.Error().Err(err).Msg("analysis run failed")
		pushMetrics(cfg)
		logger.Close()
		os.Exit(1)
	}
	pushMetrics(cfg)
}

// buildStore picks the storage backend from the output root. Roots of
// the form s3://bucket/prefix go to S3, everything else is a local
// directory.
func buildStore(ctx context.Context, run config.RunConfig) (storage.Store, error) {
	if bucket, prefix, ok := storage.ParseS3Root(run.OutputRoot); ok {
		return storage.NewS3(ctx, bucket, prefix, run.OriginalsDir)
	}
	return storage.NewLocal(run.OutputRoot, run.OriginalsDir), nil
}

// pushMetrics forwards counters to a Pushgateway when configured. Batch
// runs terminate before any scraper would come around, so pushing is the
// only way the run shows up.
func pushMetrics(cfg config.Config) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := metrics.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.PushJob); err != nil {
		log.Warn().Err(err).Msg("failed to push metrics")
	}
}
