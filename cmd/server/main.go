package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/waimai/config"
	"github.com/d60-Lab/waimai/internal/api"
	"github.com/d60-Lab/waimai/internal/api/handler"
	"github.com/d60-Lab/waimai/internal/cache"
	"github.com/d60-Lab/waimai/internal/repository"
	"github.com/d60-Lab/waimai/internal/service"
	"github.com/d60-Lab/waimai/pkg/auth"
	"github.com/d60-Lab/waimai/pkg/database"
	"github.com/d60-Lab/waimai/pkg/idempotency"
	"github.com/d60-Lab/waimai/pkg/logger"
	"github.com/d60-Lab/waimai/pkg/tracing"
)

// @title WaiMai API
// @version 1.0
// @description 外卖订单与支付服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		logger.Error("server exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			SampleRate:       cfg.Sentry.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	var (
		rdb   *redis.Client
		idem  *idempotency.Store
		merchantCache *cache.MerchantCache
	)
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		idem = idempotency.NewStore(rdb, cfg.Redis.IdempotencyTTL)
		merchantCache = cache.NewMerchantCache(rdb, cfg.Redis.CacheTTL)
	}

	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expire)
	repos := repository.NewRepositories(db)
	tx := repository.NewTransactor(db, database.TxOptions(cfg.Database), cfg.Database.TxTimeout)

	h := handler.New(handler.Services{
		Auth:       service.NewAuthService(repos.Users, tokens, nil),
		Orders:     service.NewOrderService(tx, repos, service.WithTransitionPolicy(service.NewTransitionPolicy(cfg.Order.StrictTransitions))),
		Payments:   service.NewPaymentService(tx, repos, nil, cfg.Order.DefaultPaymentMethod),
		OrderLogs:  service.NewOrderLogService(repos.OrderLogs, nil),
		Statistics: service.NewStatisticsService(repos.Statistics, nil),
		Merchants:  service.NewMerchantService(repos.Users, repos.Merchants, merchantCache),
		Products:   service.NewProductService(repos.Merchants, repos.Products),
		Addresses:  service.NewAddressService(tx, repos.Addresses),
		Categories: service.NewCategoryService(repos.Categories),
	})

	router, err := api.NewRouter(cfg, tokens, h, idem)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("db_driver", cfg.Database.Driver),
			zap.Bool("redis", cfg.Redis.Enabled),
			zap.Bool("strict_transitions", cfg.Order.StrictTransitions),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
