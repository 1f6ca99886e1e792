package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	auditshandler "dealeraudit/internal/audits/handler"
	auditsservice "dealeraudit/internal/audits/service"
	auditsstore "dealeraudit/internal/audits/store"
	"dealeraudit/internal/events"
	hierhandler "dealeraudit/internal/hierarchy/handler"
	hierservice "dealeraudit/internal/hierarchy/service"
	hierstore "dealeraudit/internal/hierarchy/store"
	"dealeraudit/internal/jwtauth"
	mdhandler "dealeraudit/internal/masterdata/handler"
	mdservice "dealeraudit/internal/masterdata/service"
	mdstore "dealeraudit/internal/masterdata/store"
	"dealeraudit/internal/notify"
	"dealeraudit/internal/platform/config"
	"dealeraudit/internal/platform/httpserver"
	"dealeraudit/internal/platform/logger"
	"dealeraudit/internal/platform/metrics"
	"dealeraudit/internal/platform/middleware"
	redisplatform "dealeraudit/internal/platform/redis"
	"dealeraudit/internal/sizing"
	"dealeraudit/pkg/domain"
)

// main wires stores, services and the HTTP router, and keeps the server
// lifecycle small. Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	hierStores, mdStores, auditStores, db, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	// Optional redis read-through cache on the master-data records the
	// resolver and sizing engine hit on every fillable-criteria request.
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		mdStores.Installations = mdstore.NewCachedInstallationStore(mdStores.Installations, redisClient.Client, cfg.Redis.TTL)
		mdStores.Dealerships = mdstore.NewCachedDealershipStore(mdStores.Dealerships, redisClient.Client, cfg.Redis.TTL)
		log.Info("redis cache enabled", "ttl", cfg.Redis.TTL)
	}

	publisher, cleanupEvents, err := buildPublisher(ctx, cfg, log)
	if err != nil {
		log.Error("event publisher setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanupEvents()

	catalog, err := buildSizingCatalog(cfg)
	if err != nil {
		log.Error("sizing configuration invalid", "error", err)
		os.Exit(1)
	}

	masterdata := mdservice.New(mdStores,
		mdservice.WithLogger(log),
		mdservice.WithMetrics(m),
		mdservice.WithEvents(publisher),
	)
	hierarchy := hierservice.New(hierStores,
		hierservice.WithLogger(log),
		hierservice.WithMetrics(m),
		hierservice.WithEvents(publisher),
		hierservice.WithReferenceChecker(masterdata),
	)
	auditOpts := []auditsservice.Option{
		auditsservice.WithLogger(log),
		auditsservice.WithMetrics(m),
		auditsservice.WithEvents(publisher),
		auditsservice.WithNotifier(notify.NewLogNotifier(log)),
	}
	if catalog != nil {
		auditOpts = append(auditOpts, auditsservice.WithSizing(catalog))
	}
	audits := auditsservice.New(auditStores, hierStores.Criterions, masterdata, auditOpts...)

	tokens := jwtauth.NewService(cfg.JWTSigningKey)
	login := jwtauth.NewHandler(tokens, log, cfg.AdminUser, cfg.AdminSecretHash)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	login.Register(router)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, log))
		hierhandler.New(hierarchy, log).Register(r)
		mdhandler.New(masterdata, log).Register(r)
		auditshandler.New(audits, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// buildStores selects postgres-backed stores when a DSN is configured and
// falls back to in-memory stores for dev runs.
func buildStores(ctx context.Context, cfg config.Config) (hierstore.Stores, mdstore.Stores, auditsstore.Stores, *sql.DB, error) {
	if cfg.PostgresDSN == "" {
		return hierstore.NewMemoryStores(), mdstore.NewMemoryStores(), auditsstore.NewMemoryStores(), nil, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return hierstore.Stores{}, mdstore.Stores{}, auditsstore.Stores{}, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return hierstore.Stores{}, mdstore.Stores{}, auditsstore.Stores{}, nil, err
	}

	for _, ensure := range []func(context.Context, *sql.DB) error{
		hierstore.EnsureSchema,
		mdstore.EnsureSchema,
		auditsstore.EnsureSchema,
	} {
		if err := ensure(ctx, db); err != nil {
			db.Close()
			return hierstore.Stores{}, mdstore.Stores{}, auditsstore.Stores{}, nil, err
		}
	}

	return hierstore.NewPostgresStores(db), mdstore.NewPostgresStores(db), auditsstore.NewPostgresStores(db), db, nil
}

// buildPublisher wires the kafka event stream behind a background worker
// so request handling never blocks on the broker. Without brokers the
// stream is disabled.
func buildPublisher(ctx context.Context, cfg config.Config, log *slog.Logger) (events.Publisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.Noop(), func() {}, nil
	}

	kafka, err := events.NewKafkaPublisher(ctx, cfg.Kafka)
	if err != nil {
		return nil, nil, err
	}

	worker := events.NewWorker(kafka, log, 256)
	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(workerCtx)
	}()

	cleanup := func() {
		cancel()
		<-done
		kafka.Close()
	}
	return worker, cleanup, nil
}

func buildSizingCatalog(cfg config.Config) (*sizing.Catalog, error) {
	if len(cfg.SizingBindings) == 0 {
		return nil, nil
	}
	bindings := make(map[domain.CriterionID]sizing.Kind, len(cfg.SizingBindings))
	for raw, kind := range cfg.SizingBindings {
		id, err := domain.ParseCriterionID(raw)
		if err != nil {
			return nil, err
		}
		bindings[id] = sizing.Kind(kind)
	}
	return sizing.NewCatalog(bindings)
}
