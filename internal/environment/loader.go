package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultEnvPrefix prefixes the variables read by the environment overlay,
// e.g. FRONTEND_API_SERVER_URL or FRONTEND_AUTH_CLIENT_ID.
const DefaultEnvPrefix = "FRONTEND_"

// LoaderOption configures NewLoader.
type LoaderOption func(*Loader)

// WithOverlayDir makes the loader read "<dir>/<target>.yaml" when it exists.
func WithOverlayDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.overlayDir = dir
	}
}

// WithOverlayFile makes the loader read path, which must exist. It takes
// precedence over the overlay directory.
func WithOverlayFile(path string) LoaderOption {
	return func(l *Loader) {
		l.overlayFile = path
	}
}

// WithEnvPrefix changes the variable prefix. An empty prefix disables
// environment overrides.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithEnviron replaces the process environment, primarily for tests.
func WithEnviron(environ map[string]string) LoaderOption {
	return func(l *Loader) {
		l.environ = environ
	}
}

// WithLogger attaches a logger for overlay diagnostics.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader resolves a target into a validated record.
// Precedence: environment variables > overlay file > built-in record.
type Loader struct {
	registry    *Registry
	overlayDir  string
	overlayFile string
	envPrefix   string
	environ     map[string]string
	logger      *zap.Logger
}

// NewLoader builds a Loader over registry, or over Builtin() when registry is nil.
func NewLoader(registry *Registry, opts ...LoaderOption) *Loader {
	if registry == nil {
		registry = Builtin()
	}
	l := &Loader{
		registry:  registry,
		envPrefix: DefaultEnvPrefix,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry returns the registry the loader resolves against.
func (l *Loader) Registry() *Registry {
	return l.registry
}

// Resolve looks up target, applies overlays and validates the result.
func (l *Loader) Resolve(target Target) (EnvironmentConfig, error) {
	cfg, err := l.registry.Lookup(target)
	if err != nil {
		return EnvironmentConfig{}, err
	}

	fileOverlay, path, err := l.loadFileOverlay(target)
	if err != nil {
		return EnvironmentConfig{}, err
	}
	if !fileOverlay.empty() {
		if cfg, err = applyOverlay(cfg, fileOverlay); err != nil {
			return EnvironmentConfig{}, err
		}
		l.logger.Debug("applied overlay file",
			zap.String("target", target.String()),
			zap.String("path", path),
		)
	}

	if l.envPrefix != "" {
		envOverlay, err := readEnvOverlay(l.envPrefix, l.environ)
		if err != nil {
			return EnvironmentConfig{}, err
		}
		if !envOverlay.empty() {
			if cfg, err = applyOverlay(cfg, envOverlay); err != nil {
				return EnvironmentConfig{}, err
			}
			l.logger.Debug("applied environment overrides",
				zap.String("target", target.String()),
				zap.String("prefix", l.envPrefix),
			)
		}
	}

	if err := ValidateFor(target, cfg); err != nil {
		return EnvironmentConfig{}, err
	}

	return cfg, nil
}

func (l *Loader) loadFileOverlay(target Target) (overlay, string, error) {
	if l.overlayFile != "" {
		o, err := readOverlayFile(l.overlayFile)
		return o, l.overlayFile, err
	}
	if l.overlayDir == "" {
		return overlay{}, "", nil
	}

	path := filepath.Join(l.overlayDir, target.String()+".yaml")
	o, err := readOverlayFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return overlay{}, "", nil
	}
	if err != nil {
		return overlay{}, "", fmt.Errorf("load overlay for %s: %w", target, err)
	}
	return o, path, nil
}
