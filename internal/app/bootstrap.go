package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/shop_checkout/config"
	cachemem "github.com/Gunvolt24/shop_checkout/internal/cache/memory"
	"github.com/Gunvolt24/shop_checkout/internal/kafka"
	"github.com/Gunvolt24/shop_checkout/internal/notify"
	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/Gunvolt24/shop_checkout/internal/repo/postgres"
	rest "github.com/Gunvolt24/shop_checkout/internal/transport/http"
	"github.com/Gunvolt24/shop_checkout/internal/usecase"
	"github.com/Gunvolt24/shop_checkout/pkg/logger"
	"github.com/Gunvolt24/shop_checkout/pkg/metrics"
	"github.com/Gunvolt24/shop_checkout/pkg/telemetry"
	"github.com/Gunvolt24/shop_checkout/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger        ports.Logger          // логгер
	HTTPServer    *http.Server          // HTTP API
	MetricsServer *http.Server          // отдельный /metrics (может быть nil)
	KafkaConsumer ports.MessageConsumer // консьюмер заявок (nil — выключен)
	// Closers — издатели и клиенты, закрываемые после остановки HTTP и консьюмера.
	Closers         []io.Closer
	gracefulTimeout time.Duration
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	metrics.MustRegister()

	pool, err := postgres.NewPool(ctx, postgres.PoolOptions{
		DSN:               cfg.Postgres.DSN,
		MaxConns:          cfg.Postgres.MaxConns,
		MinConns:          cfg.Postgres.MinConns,
		HealthCheckPeriod: cfg.Postgres.HealthCheckPeriod,
	})
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	if cfg.Postgres.AutoMigrate {
		applied, mErr := postgres.Migrate(ctx, cfg.Postgres.DSN)
		if mErr != nil {
			pool.Close()
			_ = cleanupLogger()
			return nil, func() {}, mErr
		}
		logg.Infof(ctx, "migrations applied: %d", applied)
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Уведомления: биллинг и зеркало остатков — Kafka, отзывы — Redis.
	billingProducer := kafka.NewProducer(&kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.BillingTopic,
		WriteTimeout: cfg.Checkout.NotifyTimeout,
	})
	stockProducer := kafka.NewProducer(&kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.StockMirrorTopic,
		WriteTimeout: cfg.Checkout.NotifyTimeout,
	})
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if pErr := rdb.Ping(ctx).Err(); pErr != nil {
		// отзывы — best-effort, старт не блокируем
		logg.Warnf(ctx, "redis ping failed addr=%s: %v", cfg.Redis.Addr, pErr)
	}

	orderCache := cachemem.NewOrderLRU(cfg.Cache.Capacity, cfg.Cache.TTL)
	orderRepo := postgres.NewOrderRepository(pool)
	checkout := usecase.NewCheckoutService(usecase.CheckoutDeps{
		Validator:   validate.NewOrderValidator(),
		Customers:   postgres.NewCustomerRepository(pool),
		Products:    postgres.NewProductRepository(pool),
		Orders:      orderRepo,
		Cache:       orderCache,
		Billing:     notify.NewBillingPublisher(billingProducer),
		StockMirror: notify.NewStockMirrorPublisher(stockProducer),
		Review:      notify.NewReviewRegistry(rdb, cfg.Redis.ReviewTTL),
		Log:         logg,
	}, usecase.CheckoutOptions{
		OrderDateWindow: cfg.Checkout.OrderDateWindow,
		NotifyTimeout:   cfg.Checkout.NotifyTimeout,
	})

	// Прогрев кэша
	if n := cfg.Cache.WarmUpN; n > 0 {
		if wErr := checkout.WarmUpCache(ctx, n); wErr != nil {
			logg.Warnf(ctx, "warm-up cache failed: %v", wErr)
		}
	}

	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	httpHandler := rest.NewHandler(checkout, logg, cfg.HTTP.HandlerTimeout)
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           rest.NewRouter(httpHandler, otelServiceName),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var metricsSrv *http.Server
	if addr := strings.TrimSpace(cfg.Metrics.Addr); addr != "" && addr != cfg.HTTP.Addr {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout}
	}

	var consumer ports.MessageConsumer
	if cfg.Kafka.ConsumerEnabled {
		consumer = kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.RequestsTopic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}, checkout, logg)
	} else {
		logg.Infof(ctx, "kafka consumer disabled")
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   metricsSrv,
		KafkaConsumer:   consumer,
		Closers:         []io.Closer{billingProducer, stockProducer, rdb},
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке). Консьюмер и издатели закрывает Run.
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		pool.Close()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер(ы) и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	for _, srv := range a.servers() {
		go func(srv *http.Server) {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range a.servers() {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server shutdown failed addr=%s: %v", srv.Addr, err)
		} else {
			a.Logger.Infof(ctx, "http server stopped gracefully addr=%s", srv.Addr)
		}
	}

	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	// Издатели и Redis — после того как новые оформления прекратились.
	for _, c := range a.Closers {
		if err := c.Close(); err != nil {
			a.Logger.Warnf(ctx, "close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}

func (a *App) servers() []*http.Server {
	out := []*http.Server{a.HTTPServer}
	if a.MetricsServer != nil {
		out = append(out, a.MetricsServer)
	}
	return out
}
