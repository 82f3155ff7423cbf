package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/axisvitor/sistema-cobranca/internal/api"
	"github.com/axisvitor/sistema-cobranca/internal/config"
	"github.com/axisvitor/sistema-cobranca/internal/db"
	"github.com/axisvitor/sistema-cobranca/internal/metrics"
	"github.com/axisvitor/sistema-cobranca/internal/queue"
	"github.com/axisvitor/sistema-cobranca/internal/report"
	"github.com/axisvitor/sistema-cobranca/internal/repository"
	"github.com/axisvitor/sistema-cobranca/internal/service"
	"github.com/axisvitor/sistema-cobranca/internal/whatsapp"
	"github.com/axisvitor/sistema-cobranca/internal/worker"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- redis (charge queue) ----
	rdb, err := db.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close() //nolint:errcheck

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	q := queue.New(queue.NewRedisListStore(rdb), cfg.QueueKey)
	repo := repository.NewPgCustomerRepository(pool)
	svc := service.NewChargeService(repo, q, logger)

	// ---- whatsapp session ----
	transport := whatsapp.NewGatewayTransport(
		cfg.GatewayBaseURL, cfg.GatewaySession, cfg.GatewayToken, cfg.GatewayTimeout, logger)
	session := whatsapp.NewSession(transport, whatsapp.SessionConfig{
		MaxReconnect: cfg.MaxReconnect,
		SendTimeout:  cfg.SendTimeout,
		SendRate:     rate.Limit(float64(cfg.SendPerMin) / 60.0),
		CountryCode:  cfg.CountryCode,
	}, logger)

	aggregator := report.NewAggregator(repo, session, logger)

	// Context for all background goroutines; cancelled on shutdown signal.
	bgCtx, cancelBg := context.WithCancel(ctx)
	defer cancelBg()

	// Dispatcher: reacts to transport disconnects and pairing requests.
	go session.Run(bgCtx)

	// Session event consumer keeps the connection gauge current.
	go func() {
		for {
			select {
			case <-bgCtx.Done():
				return
			case ev := <-session.Events():
				switch ev.Type {
				case whatsapp.EventPairingRequired:
					logger.Info("pairing required, scan the QR code on the gateway",
						zap.String("code", ev.PairingCode))
				case whatsapp.EventStateChanged:
					switch ev.State {
					case whatsapp.StateConnected:
						m.SessionState.Set(1)
					case whatsapp.StateConnecting:
						m.SessionReconnects.Inc()
						m.SessionState.Set(0)
					default:
						m.SessionState.Set(0)
					}
				}
			}
		}
	}()

	// Kick off the initial connect; failures are retried by the dispatcher
	// once the gateway starts emitting events, or manually via the API.
	go func() {
		if err := session.Connect(bgCtx); err != nil {
			logger.Warn("initial whatsapp connect failed", zap.Error(err))
		}
	}()

	// Queue depth sampler.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-bgCtx.Done():
				return
			case <-ticker.C:
				if depth, err := q.Depth(bgCtx); err == nil {
					m.QueueDepth.Set(float64(depth))
				}
			}
		}
	}()

	// ---- delivery worker ----
	onSent, onFailed := m.WorkerHooks()
	dw := worker.NewDeliveryWorker(q, repo, session, cfg.TickInterval, cfg.MaxAttempts, logger,
		worker.MetricHooks{OnSent: onSent, OnFailed: onFailed})
	go dw.Run(bgCtx)

	// ---- HTTP server ----
	router := api.NewRouter(svc, session, aggregator, q, cfg.ManagerPhone, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Stop the delivery worker and session dispatcher, then wait for the
	// in-flight tick to finish its current item. Unprocessed charges stay
	// in Redis and survive the restart.
	cancelBg()
	dw.Wait()

	// 3. Release the gateway connection.
	if err := session.Close(); err != nil {
		logger.Error("whatsapp session close error", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}
