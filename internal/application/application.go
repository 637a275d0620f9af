package application

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/frontend-env/internal/api"
	"github.com/eugenenazirov/frontend-env/internal/config"
	"github.com/eugenenazirov/frontend-env/internal/environment"
)

// defaultOverlayDir is looked up from the working directory upwards, within
// the enclosing Go module, when no overlay directory is configured.
const defaultOverlayDir = "environments"

// App encapsulates the application dependencies and HTTP server.
type App struct {
	provider *environment.Provider
	logger   *zap.Logger
	server   *http.Server
}

type options struct {
	registry *environment.Registry
}

// Option customises New and NewLoader.
type Option func(*options)

// WithRegistry resolves targets against registry instead of the build's
// built-in records.
func WithRegistry(registry *environment.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// New loads the configured environment target and wires the HTTP server
// around it. Any environment error is returned unchanged in the chain so
// callers can match it with errors.Is.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	target, err := environment.ParseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}

	provider := environment.NewProvider(NewLoader(cfg, logger, opts...))
	record, err := provider.Load(target)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	logger.Info("environment loaded",
		zap.String("target", target.String()),
		zap.Bool("production", record.IsProduction),
		zap.String("api_server_url", record.APIServerURL),
		zap.String("callback_url", record.Auth.CallbackURL),
	)

	handler := api.NewHandler(provider, api.WithHandlerLogger(logger))
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithAllowedOrigin(allowedOrigin(record)),
	)

	return &App{
		provider: provider,
		logger:   logger,
		server:   NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// NewLoader translates service settings into environment loader options.
func NewLoader(cfg config.Config, logger *zap.Logger, opts ...Option) *environment.Loader {
	o := options{registry: environment.Builtin()}
	for _, opt := range opts {
		opt(&o)
	}

	loaderOpts := []environment.LoaderOption{
		environment.WithLogger(logger),
		environment.WithEnvPrefix(cfg.EnvPrefix),
	}
	if cfg.DisableEnvOverrides {
		loaderOpts = append(loaderOpts, environment.WithEnvPrefix(""))
	}

	switch {
	case cfg.OverlayFile != "":
		loaderOpts = append(loaderOpts, environment.WithOverlayFile(cfg.OverlayFile))
	case cfg.OverlayDir != "":
		loaderOpts = append(loaderOpts, environment.WithOverlayDir(cfg.OverlayDir))
	default:
		if dir, err := resolveProjectPath(defaultOverlayDir); err == nil {
			loaderOpts = append(loaderOpts, environment.WithOverlayDir(dir))
		}
	}

	return environment.NewLoader(o.registry, loaderOpts...)
}

// BuildRootHandler mounts the API and redirects the bare root to the record.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/api/environment", http.StatusFound)
	}))
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Provider returns the loaded environment provider.
func (a *App) Provider() *environment.Provider {
	return a.provider
}

// allowedOrigin pins CORS to the frontend origin in production builds.
func allowedOrigin(record environment.EnvironmentConfig) string {
	if !record.IsProduction {
		return "*"
	}
	u, err := url.Parse(record.Auth.CallbackURL)
	if err != nil || u.Host == "" {
		return "*"
	}
	return u.Scheme + "://" + u.Host
}

// resolveProjectPath locates relative from the working directory upwards
// without leaving the enclosing Go module.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findInModule(dir, relative)
}

// findInModule checks start and each parent up to the nearest directory
// holding go.mod. Outside a module nothing is found.
func findInModule(start, relative string) (string, error) {
	var dirs []string
	for dir := start; ; {
		dirs = append(dirs, dir)
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("unable to locate %s: %s is not inside a Go module", relative, start)
		}
		dir = parent
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
