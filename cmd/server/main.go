package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/frontend-env/internal/application"
	"github.com/eugenenazirov/frontend-env/internal/config"
	"github.com/eugenenazirov/frontend-env/internal/environment"
	"github.com/eugenenazirov/frontend-env/internal/logging"
	"github.com/eugenenazirov/frontend-env/internal/render"
)

var signalNotify = signal.Notify

type cli struct {
	app *kingpin.Application

	configFile  *string
	target      *string
	overlayDir  *string
	overlayFile *string
	logLevel    *string

	serve          *kingpin.CmdClause
	port           *string
	rateLimitRPS   *float64
	rateLimitBurst *int

	render *kingpin.CmdClause
	format *string
	out    *string

	validate *kingpin.CmdClause
}

func newCLI() *cli {
	c := &cli{}
	c.app = kingpin.New("frontend-env", "Frontend environment configuration - resolves, validates and serves the build's EnvironmentConfig")
	c.configFile = c.app.Flag("config", "Path to YAML configuration file").String()
	c.target = c.app.Flag("target", "Environment target to load (defaults to the build's target)").String()
	c.overlayDir = c.app.Flag("overlay-dir", "Directory holding <target>.yaml overlay files").String()
	c.overlayFile = c.app.Flag("overlay-file", "Explicit overlay file; must exist").String()
	c.logLevel = c.app.Flag("log-level", "Log level (debug, info, warn, error)").String()

	c.serve = c.app.Command("serve", "Serve the environment record over HTTP").Default()
	c.port = c.serve.Flag("port", "HTTP port exposed by the service").String()
	c.rateLimitRPS = c.serve.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	c.rateLimitBurst = c.serve.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	c.render = c.app.Command("render", "Render the environment record for a frontend build")
	c.format = c.render.Flag("format", "Output format").Short('f').Default(string(render.FormatTypeScript)).Enum(formatNames()...)
	c.out = c.render.Flag("out", "Output file (defaults to stdout)").Short('o').String()

	c.validate = c.app.Command("validate", "Resolve and validate every built-in target")

	return c
}

func formatNames() []string {
	formats := render.Formats()
	names := make([]string, 0, len(formats))
	for _, format := range formats {
		names = append(names, string(format))
	}
	return names
}

func (c *cli) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: *c.configFile,
	}

	if *c.target != "" {
		overrides.Target = c.target
	}

	if *c.overlayDir != "" {
		overrides.OverlayDir = c.overlayDir
	}

	if *c.overlayFile != "" {
		overrides.OverlayFile = c.overlayFile
	}

	if *c.logLevel != "" {
		overrides.LogLevel = c.logLevel
	}

	if *c.port != "" {
		overrides.Port = c.port
	}

	if *c.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = c.rateLimitRPS
	}

	if *c.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = c.rateLimitBurst
	}

	return overrides
}

func main() {
	kingpin.FatalIfError(run(os.Args[1:], os.Stdout), "frontend-env")
}

func run(args []string, stdout io.Writer) error {
	c := newCLI()
	command, err := c.app.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.overrides())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case c.render.FullCommand():
		format, err := render.ParseFormat(*c.format)
		if err != nil {
			return err
		}
		return renderEnvironment(cfg, logger, format, *c.out, stdout)
	case c.validate.FullCommand():
		return validateTargets(cfg, logger, stdout)
	default:
		return serve(cfg, logger)
	}
}

func serve(cfg config.Config, logger *zap.Logger) error {
	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return err
	}

	if err := app.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	return nil
}

func renderEnvironment(cfg config.Config, logger *zap.Logger, format render.Format, out string, stdout io.Writer) error {
	target, err := environment.ParseTarget(cfg.Target)
	if err != nil {
		return err
	}

	provider := environment.NewProvider(application.NewLoader(cfg, logger))
	record, err := provider.Load(target)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, format, target, record); err != nil {
		return err
	}

	if out == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logger.Info("environment rendered",
		zap.String("target", target.String()),
		zap.String("format", string(format)),
		zap.String("path", out),
	)
	return nil
}

func validateTargets(cfg config.Config, logger *zap.Logger, stdout io.Writer) error {
	loader := application.NewLoader(cfg, logger)

	var errs []error
	targets := loader.Registry().Targets()
	for _, target := range targets {
		if _, err := loader.Resolve(target); err != nil {
			fmt.Fprintf(stdout, "FAIL %s: %v\n", target, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(stdout, "ok   %s\n", target)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d targets invalid: %w", len(errs), len(targets), errors.Join(errs...))
	}
	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server", zap.Duration("grace_period", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
