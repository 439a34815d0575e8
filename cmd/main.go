package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/shotform/internal/adapters/http/api"
	"github.com/okian/shotform/internal/adapters/http/swagger"
	app "github.com/okian/shotform/internal/app"
	"github.com/okian/shotform/internal/config"
	"github.com/okian/shotform/internal/domain/corpus"
	"github.com/okian/shotform/pkg/logger"
	"github.com/okian/shotform/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// We export our own system metrics on a private registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "shotform exited", logger.Error(err))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, l logger.Logger) error {
	svc, err := newService(ctx, cfg, l)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	mux, err := newMux(ctx, cfg, svc, l)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		l.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	l.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	l.Info(ctx, "server stopped")
	return nil
}

// newService loads the configured reference corpus and builds the service.
func newService(ctx context.Context, cfg *config.Config, l logger.Logger) (*app.Service, error) {
	c, err := corpus.Load(ctx, corpus.Source(cfg.CorpusSource), cfg.CorpusPath)
	if err != nil {
		return nil, err
	}
	l.Info(ctx, "reference corpus loaded",
		logger.String("source", cfg.CorpusSource), logger.Int("shooters", c.Len()))

	return app.New(
		app.WithLogger(l),
		app.WithCorpus(c),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxFramesPerJob(cfg.MaxFramesPerJob),
		app.WithTopMatches(cfg.TopMatches),
		app.WithFixListLimit(cfg.FixListLimit),
	)
}

// newMux registers the docs and business API routes.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service, l logger.Logger) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := swagger.Register(ctx, mux); err != nil {
		return nil, err
	}
	api.NewServer(svc, svc,
		api.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		api.WithLogger(l.Named("api")),
	).Register(ctx, mux)
	return mux, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics mirrors the service's sizes into gauges.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if athletes, ok := stats["athletes"].(int); ok {
		metrics.UpdateRepositoryAthletes(athletes)
	}
	if results, ok := stats["results"].(int); ok {
		metrics.UpdateRepositoryResults(results)
	}
}
