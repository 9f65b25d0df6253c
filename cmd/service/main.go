package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	application "dormeal/internal/app"
	"dormeal/internal/handlers/rest/available_orders_get"
	"dormeal/internal/handlers/rest/carrier_orders_get"
	"dormeal/internal/handlers/rest/healthcheck_head"
	"dormeal/internal/handlers/rest/order_details_get"
	"dormeal/internal/handlers/rest/order_status_get"
	"dormeal/internal/handlers/rest/order_transition_put"
	"dormeal/internal/handlers/rest/orders_post"
	"dormeal/internal/handlers/rest/ping_get"
	"dormeal/internal/pkg/config"
	"dormeal/internal/pkg/dotenv"
	"dormeal/internal/pkg/grpcclient"
	"dormeal/internal/pkg/kafka"
	metrics_system "dormeal/internal/pkg/metrics"
	"dormeal/internal/pkg/middlewares/auth"
	"dormeal/internal/pkg/middlewares/graceful_shutdown"
	"dormeal/internal/pkg/middlewares/metrics"
	"dormeal/internal/pkg/middlewares/rate_limiter"
	"dormeal/internal/pkg/middlewares/timeout"
	"dormeal/internal/pkg/migrations"
	"dormeal/internal/pkg/postgres"
	"dormeal/internal/service/lifecycle"
	"dormeal/pkg/logger"
	"dormeal/pkg/logger/zap_adapter"
	"dormeal/pkg/token_bucket"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

const serviceComponent = "dormeal-order-lifecycle"

func main() {
	port := flag.String("port", "", "override PORT from environment")
	flag.Parse()

	zapLogger, err := zap_adapter.NewZapAdapter()
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting dormeal application")

	if _, err := os.Stat(".env"); err == nil {
		if err := dotenv.Load(); err != nil {
			mainLog.Error("failed to load .env file", logger.NewField("error", err))
			return
		}
	} else {
		mainLog.Warn("No .env file found, using system environment variables")
	}

	if err := dotenv.OverridePort(*port); err != nil {
		mainLog.Error("override port", logger.NewField("error", err))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck // ongoingCtx и shutdownCtx намеренно от context.Background(), это часть graceful shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	if err := migrations.Up(ctx, pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// при PUSH_DRIVER=log соединения нет, уведомления уходят в лог
	var conn *grpc.ClientConn
	if cfg.Push.Driver == config.PushDriverGRPC {
		conn, err = grpcclient.NewConnClient(ctx, log, &cfg.Push)
		if err != nil {
			return fmt.Errorf("gRPC client: %w", err)
		}
		defer func() {
			err := conn.Close()
			if err != nil {
				runLog.Error("failed to close gRPC connection",
					logger.NewField("error", err),
				)
			}
		}()
	}

	producer, err := kafka.NewSyncProducer(ctx, log, &cfg.Kafka, kafka.ParseBrokers(cfg.Kafka.Brokers))
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			runLog.Error("failed to close kafka producer", logger.NewField("error", err))
		}
	}()

	businessApp, err := application.InitializeApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, conn, producer, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}
	defer businessApp.Countdown.Close()

	metrics_system.StartSystemMetricsCollector(ctx)

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, businessApp, pool, cfg),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	// основной http сервер

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pprofServerErr <- err
			}
		}()
	}
	// pprof http сервер

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr: // при выключенном pprof канал nil и кейс не срабатывает
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)

	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	// фоновые задачи остановились вместе с ctx, ждем текущий прогон
	businessApp.BackgroundWorkers.Wait()

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.Application,
	db healthcheck_head.Pinger,
	cfg *config.Config,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(timeout.Middleware(cfg.Server.RequestTimeout))
	router.Use(metrics.Middleware(log))
	router.Use(rate_limiter.Middleware(log, cfg.Server.RateLimiterQPS, token_bucket.NewTokenBucket(cfg.Server.RateLimiterQPS, float64(cfg.Server.RateLimiterBurst))))
	router.Use(auth.Middleware(log, cfg.Auth.JWTSecret, "/healthcheck", "/ping", "/metrics"))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, db)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log, serviceComponent)).Methods("GET")

	router.Handle("/orders", orders_post.New(log, app.ServiceOrder)).Methods("POST")
	router.Handle("/order/details/{orderId}", order_details_get.New(log, app.ServiceOrder)).Methods("GET")
	router.Handle("/available-orders/{userId}", available_orders_get.New(log, app.ServiceOrder)).Methods("GET")
	router.Handle("/carrier/orders/{userId}", carrier_orders_get.New(log, app.ServiceOrder)).Methods("GET")
	router.Handle("/get-order-status/{orderId}", order_status_get.New(log, app.ServiceOrder)).Methods("GET")

	router.Handle("/claim-order/{orderId}", order_transition_put.New(log, app.ServiceLifecycle, lifecycle.ActionClaim)).Methods("PUT")

	nearby := order_transition_put.New(log, app.ServiceLifecycle, lifecycle.ActionNearby)
	router.Handle("/order/nearby", nearby).Methods("PUT")
	router.Handle("/order/nearby/{orderId}", nearby).Methods("PUT")

	transitions := map[string]lifecycle.Action{
		"/order/pickup/{orderId}":            lifecycle.ActionPickup,
		"/order/at-exchange-point/{orderId}": lifecycle.ActionAtExchangePoint,
		"/order/dropoff/{orderId}":           lifecycle.ActionDropoff,
		"/order/handoff/{orderId}":           lifecycle.ActionHandoff,
		"/order/confirm-received/{orderId}":  lifecycle.ActionConfirmReceived,
		"/order/cancel/{orderId}":            lifecycle.ActionCancel,
	}
	for path, action := range transitions {
		router.Handle(path, order_transition_put.New(log, app.ServiceLifecycle, action)).Methods("PUT")
	}

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
