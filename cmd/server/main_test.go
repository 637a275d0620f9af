package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/eugenenazirov/frontend-env/internal/environment"
	"github.com/eugenenazirov/frontend-env/internal/render"
)

func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"PORT", "APP_ENV", "OVERLAY_DIR", "OVERLAY_FILE", "LOG_LEVEL",
		"FRONTEND_API_SERVER_URL", "FRONTEND_AUTH_DOMAIN_PREFIX", "FRONTEND_AUTH_AUDIENCE",
		"FRONTEND_AUTH_CLIENT_ID", "FRONTEND_AUTH_CALLBACK_URL"} {
		t.Setenv(key, "")
	}
	return t.TempDir()
}

func TestRunRenderUnsupportedTarget(t *testing.T) {
	dir := isolate(t)

	err := run([]string{"--overlay-dir", dir, "--log-level", "error", "--target", "staging", "render"}, &bytes.Buffer{})
	if !errors.Is(err, environment.ErrUnsupportedEnvironment) {
		t.Fatalf("expected ErrUnsupportedEnvironment, got %v", err)
	}
}

func TestRenderFormatFlagFollowsRenderFormats(t *testing.T) {
	for _, format := range render.Formats() {
		c := newCLI()
		if _, err := c.app.Parse([]string{"render", "--format", string(format)}); err != nil {
			t.Fatalf("expected format %s to be accepted: %v", format, err)
		}
		if *c.format != string(format) {
			t.Fatalf("expected format %s, got %s", format, *c.format)
		}
	}

	c := newCLI()
	if _, err := c.app.Parse([]string{"render"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *c.format != string(render.FormatTypeScript) {
		t.Fatalf("expected default format ts, got %s", *c.format)
	}

	if _, err := newCLI().app.Parse([]string{"render", "--format", "xml"}); err == nil {
		t.Fatalf("expected unknown format to be rejected")
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	isolate(t)

	if err := run([]string{"--no-such-flag"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCLIOverrides(t *testing.T) {
	c := newCLI()
	if _, err := c.app.Parse([]string{"--target", "development", "serve", "--port", "9001", "--rate-limit-rps", "0"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	overrides := c.overrides()
	if overrides.Target == nil || *overrides.Target != "development" {
		t.Fatalf("expected target override")
	}
	if overrides.Port == nil || *overrides.Port != "9001" {
		t.Fatalf("expected port override")
	}
	if overrides.RateLimitRPS == nil || *overrides.RateLimitRPS != 0 {
		t.Fatalf("expected rps override of 0")
	}
	if overrides.RateLimitBurst != nil {
		t.Fatalf("expected burst to be left unset")
	}
	if overrides.OverlayDir != nil || overrides.OverlayFile != nil {
		t.Fatalf("expected overlay overrides to be unset")
	}
}
