package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AIforimpact22/bootcampx/api/controllers"
	"github.com/AIforimpact22/bootcampx/api/routes"
	"github.com/AIforimpact22/bootcampx/internal/cashiers"
	"github.com/AIforimpact22/bootcampx/internal/dashboard"
	"github.com/AIforimpact22/bootcampx/internal/items"
	"github.com/AIforimpact22/bootcampx/internal/possession"
	"github.com/AIforimpact22/bootcampx/internal/sales"
	"github.com/AIforimpact22/bootcampx/pkg/cache"
	"github.com/AIforimpact22/bootcampx/pkg/config"
	"github.com/AIforimpact22/bootcampx/pkg/db"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"github.com/AIforimpact22/bootcampx/pkg/metrics"
	"github.com/AIforimpact22/bootcampx/pkg/migrate"
	"github.com/AIforimpact22/bootcampx/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	posMetrics := metrics.NewPOSMetrics(reg)

	var closers []func() error
	var readiness []controllers.ReadinessCheck

	var cacheStore cache.Store = cache.NewMemoryStore()
	if cfg.Cache.UsesRedis() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Check: redisClient.Ping})
		cacheStore = cache.NewRedisStore(redisClient, redisClient.CacheKey)
	}

	readCache := cache.New(cache.Options{
		Store:   cacheStore,
		TTL:     cfg.Cache.TTL,
		Metrics: posMetrics,
		Logger:  logg,
	})
	sessions := possession.NewStore(cacheStore, cfg.POS.SessionTTL)

	deps := routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Metrics:  posMetrics,
		Gatherer: reg,
		Sessions: sessions,
	}

	if threshold, err := decimal.NewFromString(cfg.POS.LowStockThreshold); err == nil {
		deps.LowStockThreshold = &threshold
	} else {
		logg.WarnErr(ctx, "invalid low stock threshold, using default", err)
	}

	if cfg.DB.Configured() {
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient.Close)
		readiness = append(readiness, controllers.ReadinessCheck{Name: "database", Check: dbClient.Ping})

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			logg.Error(ctx, "failed to run dev migrations", err)
			os.Exit(1)
		}

		if err := wireServices(&deps, dbClient, readCache); err != nil {
			logg.Error(ctx, "failed to wire services", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "database is not configured; store-backed routes will answer NOT_CONFIGURED")
	}
	deps.Readiness = readiness

	addr := ":" + cfg.App.Port
	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"cache_backend": cfg.Cache.Backend,
	})
	logg.Info(srvCtx, "starting api server")

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(deps),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(srvCtx, "api server stopped unexpectedly", err)
			closeAll(closers)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(srvCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(srvCtx, "graceful shutdown failed", err)
		}
	}

	if err := closeAll(closers); err != nil {
		logg.Error(srvCtx, "error closing resources", err)
	}
}

func wireServices(deps *routes.Deps, dbClient *db.Client, readCache *cache.Cache) error {
	cashierSvc, err := cashiers.NewService(cashiers.ServiceParams{
		Repo:   cashiers.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Cache:  readCache,
		Logger: deps.Logger,
	})
	if err != nil {
		return err
	}
	itemSvc, err := items.NewService(items.ServiceParams{
		Repo:   items.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Cache:  readCache,
		Logger: deps.Logger,
	})
	if err != nil {
		return err
	}
	salesSvc, err := sales.NewService(sales.ServiceParams{
		Repo:       sales.NewRepository(dbClient.DB()),
		Tx:         dbClient,
		Cashiers:   cashierSvc,
		Cache:      readCache,
		Metrics:    deps.Metrics,
		Logger:     deps.Logger,
		ReportDays: deps.Config.POS.SalesDefaultDays,
	})
	if err != nil {
		return err
	}
	dashSvc, err := dashboard.NewService(dashboard.ServiceParams{
		Repo:   dashboard.NewRepository(dbClient.DB()),
		Items:  itemSvc,
		Logger: deps.Logger,
	})
	if err != nil {
		return err
	}

	deps.DB = dbClient
	deps.Cashiers = cashierSvc
	deps.Items = itemSvc
	deps.Sales = salesSvc
	deps.Dashboard = dashSvc
	return nil
}

// closeAll closes in reverse order of acquisition.
func closeAll(closers []func() error) error {
	var errs error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, closers[i]())
	}
	return errs
}
