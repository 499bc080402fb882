package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/hazard-report-service/internal/adapter/httpapi"
	"github.com/couchcryptid/hazard-report-service/internal/adapter/huggingface"
	kafkaadapter "github.com/couchcryptid/hazard-report-service/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-report-service/internal/adapter/memory"
	"github.com/couchcryptid/hazard-report-service/internal/adapter/postgres"
	"github.com/couchcryptid/hazard-report-service/internal/adapter/rediscache"
	"github.com/couchcryptid/hazard-report-service/internal/config"
	"github.com/couchcryptid/hazard-report-service/internal/domain"
	"github.com/couchcryptid/hazard-report-service/internal/observability"
	"github.com/couchcryptid/hazard-report-service/internal/pipeline"
	"github.com/couchcryptid/hazard-report-service/internal/social"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		reportStore domain.ReportStore
		socialStore domain.SocialStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.RunMigrations(ctx); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		reportStore = pg
		socialStore = pg
		logger.Info("postgres storage enabled")
	} else {
		store := memory.NewStore()
		reportStore = store
		socialStore = store
		logger.Warn("no DATABASE_URL set, using in-memory storage")
	}

	// Social feed caching (feature-flagged via REDIS_ADDR).
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		socialStore = rediscache.NewSocialFeed(socialStore, client, cfg.SocialCacheTTL, logger)
		logger.Info("social feed caching enabled", "addr", cfg.RedisAddr, "ttl", cfg.SocialCacheTTL)
	} else {
		logger.Info("social feed caching disabled")
	}

	// Image classification (feature-flagged via HF_ENABLED / HF_API_TOKEN).
	var classifier domain.Classifier
	if cfg.HFEnabled {
		classifier = huggingface.NewClient(cfg.HFToken, cfg.HFModelURL, cfg.HFTimeout, logger)
		metrics.ClassifyEnabled.Set(1)
		logger.Info("image classification enabled", "model_url", cfg.HFModelURL, "timeout", cfg.HFTimeout)
	} else {
		logger.Info("image classification disabled")
	}

	// Scored-event publishing (feature-flagged via KAFKA_BROKERS).
	var publisher pipeline.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("scored-event publishing enabled", "topic", cfg.KafkaScoreTopic)
	} else {
		logger.Info("scored-event publishing disabled")
	}

	engine := pipeline.New(cfg.Scoring(), reportStore, classifier, publisher, logger, metrics)

	fetchers := buildFetchers(cfg, logger)
	ingester := social.NewIngester(socialStore, fetchers, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, reportStore, socialStore, engine, ingester, cfg.HotspotPrecision, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	// Let in-flight verification runs finish before closing the publisher.
	engine.Wait()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// buildFetchers wires the social sources that have the config they need.
func buildFetchers(cfg *config.Config, logger *slog.Logger) []social.Fetcher {
	const fetchTimeout = 10 * time.Second

	var fetchers []social.Fetcher
	if cfg.GNewsAPIKey != "" {
		fetchers = append(fetchers, social.NewGNewsFetcher(cfg.GNewsAPIKey, fetchTimeout, logger))
		logger.Info("news fetcher enabled")
	} else {
		logger.Info("news fetcher disabled, no GNEWS_API_KEY")
	}
	if len(cfg.RedditSubreddits) > 0 {
		fetchers = append(fetchers, social.NewRedditFetcher(cfg.RedditSubreddits, cfg.ScrapeDelay, fetchTimeout, logger))
		logger.Info("forum fetcher enabled", "subreddits", cfg.RedditSubreddits)
	}
	return fetchers
}
