package http

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/npm-release/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr   string
	secret string
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithSecret enables HMAC-SHA256 verification of plugin requests
func WithSecret(secret string) Option {
	return func(c *config) {
		c.secret = secret
	}
}

// WithLogger sets the logger used for requests and passed to lifecycle calls
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithOutput sets where npm subprocess output is streamed
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a plugin server exposing the lifecycle of one release run
func NewServer(
	ctx context.Context,
	lifecycleUC interfaces.LifecycleUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr:   "localhost:8080",
		logger: slog.Default(),
		stdout: io.Discard,
		stderr: io.Discard,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(cfg.logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", healthHandler(lifecycleUC, cfg.logger))

	pluginHandler := NewPluginHandler(lifecycleUC, cfg)
	router.Post("/plugin/{step}", pluginHandler.Handle)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
			BaseContext: func(net.Listener) context.Context {
				return ctx
			},
		},
	}

	return server, nil
}
