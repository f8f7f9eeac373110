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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/task-manager-api/internal/api"
	"github.com/janisto/task-manager-api/internal/http/routes"
	"github.com/janisto/task-manager-api/internal/platform/config"
	applog "github.com/janisto/task-manager-api/internal/platform/logging"
	appmiddleware "github.com/janisto/task-manager-api/internal/platform/middleware"
	"github.com/janisto/task-manager-api/internal/platform/respond"
)

// Version identifies the build and can be overridden at build time:
// -ldflags "-X main.Version=1.2.3". The API version reported to clients is api.Version.
var Version = "dev"

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load(config.Options{})
	if err != nil {
		applog.LogError(context.Background(), "config load failed", err)
		os.Exit(1)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		applog.LogError(context.Background(), "invalid log level", err, zap.String("level", cfg.Logging.Level))
		os.Exit(1)
	}

	srv := newServer(cfg.Addr(), newRouter())

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("build", Version),
			zap.Stringer("level", applog.Level()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		applog.LogError(ctx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}

// newRouter assembles the middleware stack, the error handlers and every route.
func newRouter() http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(api.DocsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP / X-Forwarded-For; only deploy behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	routes.Register(api.New(router))
	return router
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}
