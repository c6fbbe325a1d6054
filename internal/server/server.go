package server

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"node-health-watcher/cmd/app"
	"node-health-watcher/internal/api/v1/handler"
	"node-health-watcher/internal/api/v1/middleware"
	"node-health-watcher/internal/common"
	"node-health-watcher/internal/features/dispatch"
	"node-health-watcher/internal/features/watcher"
	watcherservice "node-health-watcher/internal/features/watcher/service"
)

// Run starts the application. Startup failures (config, cluster API
// connection, initial node list) are fatal; once the watch loop is running
// nothing stops the process except SIGINT/SIGTERM.
func Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration first; the logger needs the cluster name and level
	cfg, err := app.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := common.NewLogger(common.LoggerConfig{
		Level:   common.LogLevel(cfg.Log.Level),
		Cluster: cfg.Cluster.Name,
	})

	// Stop on SIGINT/SIGTERM; the loop exits between events
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Info("shutdown_signal", slog.String("signal", sig.String()))
		cancel()
	}()

	// Cluster API client; kubeconfig with in-cluster fallback
	kcfg, err := app.NewKubeClients(&cfg.Kubernetes)
	if err != nil {
		log.Fatalf("failed to create kubernetes client: %v", err)
	}
	logger.Info("k8s_config", slog.String("mode", kcfg.Mode))

	// Dispatch gateway over both sinks
	gateway, err := dispatch.NewGateway(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create dispatch gateway: %v", err)
	}

	metrics := watcherservice.NewMetricsCollector()
	metrics.Register()

	watchService := watcher.NewService(cfg, kcfg.ClientSet, gateway, metrics, logger)

	// Initial full load; transitions are not classified during priming
	if err := watchService.Prime(ctx); err != nil {
		log.Fatalf("failed to load initial node state: %v", err)
	}

	// Operational HTTP surface runs beside the watch loop
	httpServer := newHTTPServer(cfg, watchService, logger)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", slog.String("error", err.Error()))
		}
	}()

	// The watch loop blocks until the context is canceled
	if err := watchService.Run(ctx); err != nil {
		logger.Error("watch_loop_error", slog.String("error", err.Error()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", slog.String("error", err.Error()))
	}

	logger.Info("shutdown_complete")
}

// newHTTPServer builds the gin router with health, status and metrics routes
func newHTTPServer(cfg *app.Config, watchService *watcherservice.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(logger))

	handler.NewHealthHandler().SetupRoutes(router)
	handler.NewStatusHandler(watchService).SetupRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}
}
