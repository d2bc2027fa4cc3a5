// Command server wires the attendance service together and runs its HTTP
// surface. Backends are selected from config: empty URLs fall back to
// in-memory implementations so the service runs standalone in development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"geomark/internal/attendance/handler"
	attmetrics "geomark/internal/attendance/metrics"
	"geomark/internal/attendance/service"
	"geomark/internal/attendance/store"
	"geomark/internal/audit"
	"geomark/internal/platform/config"
	"geomark/internal/platform/httpserver"
	"geomark/internal/platform/logger"
	platformmetrics "geomark/internal/platform/metrics"
	"geomark/internal/platform/middleware"
	"geomark/internal/platform/postgres"
	"geomark/internal/platform/redis"
	rlmetrics "geomark/internal/ratelimit/metrics"
	ratelimit "geomark/internal/ratelimit/service"
	"geomark/internal/ratelimit/store/lastseen"
	"geomark/internal/recognition"
	"geomark/internal/staging"
)

const auditInboxSize = 256

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Attendance store: Postgres when configured, in-memory otherwise.
	var records store.Store = store.NewInMemoryStore()
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		records = pg
		log.Info("attendance store: postgres")
	} else {
		log.Info("attendance store: in-memory")
	}

	// Rate limiter store: Redis when configured, in-memory otherwise.
	var lastSeen ratelimit.Store = lastseen.NewInMemoryStore()
	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		lastSeen = lastseen.NewRedisStore(redisClient.Client)
		log.Info("rate limit store: redis")
	}
	limiter := ratelimit.New(lastSeen, cfg.RateWindow, log, ratelimit.WithMetrics(rlmetrics.New()))

	// Audit sink: Kafka when configured, bounded in-memory buffer otherwise.
	var sink audit.Sink
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit sink: kafka", "brokers", cfg.KafkaBrokers)
	} else {
		sink = audit.NewInMemoryStore(0)
	}
	inbox := make(chan audit.Event, auditInboxSize)
	publisher := audit.NewPublisher(inbox, log)
	auditWorker := audit.NewWorker(sink, inbox, log)

	// Recognition gateway: remote service when configured, otherwise a
	// gateway that never matches.
	var recognizer recognition.Recognizer = recognition.NoMatch{}
	if cfg.RecognizerURL != "" {
		recognizer = recognition.NewClient(cfg.RecognizerURL)
		log.Info("recognition gateway", "url", cfg.RecognizerURL)
	} else {
		log.Warn("no recognition gateway configured; all submissions will be rejected")
	}

	stager, err := staging.New(cfg.TempDir, log)
	if err != nil {
		log.Error("staging dir setup failed", "error", err)
		os.Exit(1)
	}

	pipeline := service.New(
		service.Config{
			RefLat:              cfg.RefLat,
			RefLon:              cfg.RefLon,
			RadiusMeters:        cfg.RadiusMeters,
			ConfidenceThreshold: cfg.ConfidenceThreshold,
		},
		limiter,
		stager,
		recognizer,
		records,
		log,
		service.WithMetrics(attmetrics.New()),
		service.WithAudit(publisher),
	)

	httpMetrics := platformmetrics.New()

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.ClientMetadata)
	router.Use(middleware.Logger(log))
	router.Use(httpMetrics.Latency)
	handler.New(pipeline, log, cfg.MaxUploadBytes).Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return auditWorker.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting geomark", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
