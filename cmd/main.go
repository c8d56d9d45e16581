package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bannerd/internal/adapters/http/api"
	"bannerd/internal/adapters/http/docs"
	"bannerd/internal/adapters/mq/producer"
	"bannerd/internal/adapters/repository"
	app "bannerd/internal/app"
	"bannerd/internal/config"
	"bannerd/pkg/logger"
	"bannerd/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/collectors"
)

// readHeaderTimeout bounds header parsing; the remaining server timeouts
// come from configuration.
const readHeaderTimeout = 5 * time.Second

func main() {
	// Runtime and process collectors feed the custom registry served
	// at /metrics alongside the application metrics.
	metrics.GetRegistry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.Logging.Level); err != nil {
		loggerInstance.Warn(ctx, "invalid log level; falling back to info", logger.String("level", cfg.Logging.Level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create the service with configuration options. The Kafka producer
	// is only wired when brokers are configured; without it the service
	// skips the publication pipeline entirely.
	opts := []app.Option{
		app.WithLogger(loggerInstance),
		app.WithWorkerCount(cfg.Events.WorkerCount),
		app.WithQueueSize(cfg.Events.QueueSize),
	}

	var pub *producer.Producer
	if cfg.PublishEnabled() {
		pub = producer.NewProducer(producer.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		opts = append(opts, app.WithPublisher(pub))
		loggerInstance.Info(ctx, "event publication enabled",
			logger.Any("brokers", cfg.Kafka.Brokers),
			logger.String("topic", cfg.Kafka.Topic),
		)
	}

	svc := app.New(opts...)

	// Close the producer after the service has drained its queue.
	if pub != nil {
		defer func() {
			if err := pub.Close(); err != nil {
				loggerInstance.Warn(context.Background(), "failed to close producer", logger.Error(err))
			}
		}()
	}

	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Seed the catalog through the regular create path.
	for _, b := range cfg.Seed.Banners {
		if _, err := svc.Create(ctx, repository.CreateFields{
			ImageURL: b.ImageURL,
			ClickURL: b.ClickURL,
			Title:    b.Title,
			Weight:   b.Weight,
			IsLocal:  b.IsLocal,
		}); err != nil {
			loggerInstance.Error(ctx, "failed to seed banner", logger.String("image_url", b.ImageURL), logger.Error(err))
			return
		}
	}
	if n := len(cfg.Seed.Banners); n > 0 {
		loggerInstance.Info(ctx, "seeded banner catalog", logger.Int("banners", n))
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API reference under /api-docs
	docs.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}
