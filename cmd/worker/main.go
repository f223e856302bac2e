package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusflow/backend/internal/config"
	"github.com/campusflow/backend/internal/db"
	"github.com/campusflow/backend/internal/events"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/campusflow/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	courseRepo := repositories.NewCourseRepo(pool)
	campusRepo := repositories.NewCampusRepo(pool)
	runRepo := repositories.NewCourseRunRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	leadRepo := repositories.NewLeadRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	runService := services.NewCourseRunService(runRepo, courseRepo, campusRepo, auditRepo, publisher, log)
	campaignService := services.NewCampaignService(campaignRepo, leadRepo, auditRepo, publisher, log)

	log.Info("worker started")

	// Run jobs on tickers
	reconcileTicker := time.NewTicker(cfg.ReconcileInterval)
	campaignTicker := time.NewTicker(cfg.CampaignCloseInterval)
	deadlineTicker := time.NewTicker(cfg.DeadlineCloseInterval)
	defer reconcileTicker.Stop()
	defer campaignTicker.Stop()
	defer deadlineTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-reconcileTicker.C:
			if n, err := runService.ReconcileSeatCounters(ctx); err != nil {
				log.Error("seat counter reconcile failed", zap.Error(err))
			} else if n > 0 {
				log.Info("seat counters reconciled", zap.Int("fixed", n))
			}
		case <-campaignTicker.C:
			if n, err := campaignService.CompleteExpired(ctx); err != nil {
				log.Error("campaign auto-complete failed", zap.Error(err))
			} else if n > 0 {
				log.Info("expired campaigns completed", zap.Int("count", n))
			}
		case <-deadlineTicker.C:
			if n, err := runService.CloseExpiredEnrollment(ctx); err != nil {
				log.Error("enrollment deadline close failed", zap.Error(err))
			} else if n > 0 {
				log.Info("enrollment closed past deadline", zap.Int("count", n))
			}
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}
