//go:build production

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/eugenenazirov/frontend-env/internal/environment"
)

func TestRunValidateUnlinkedProductionBuild(t *testing.T) {
	dir := isolate(t)
	if _, err := environment.NewLoader(nil, environment.WithEnvPrefix("")).Resolve(environment.Production); err == nil {
		t.Skip("production values are linked into this test binary")
	}

	var stdout bytes.Buffer
	err := run([]string{"--overlay-dir", dir, "--log-level", "error", "validate"}, &stdout)
	if !errors.Is(err, environment.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if !strings.Contains(stdout.String(), "FAIL production") {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
	for _, field := range []string{"apiServerUrl", "auth.domainPrefix", "auth.audience", "auth.clientId", "auth.callbackUrl"} {
		if !strings.Contains(stdout.String(), field) {
			t.Fatalf("expected %s in output:\n%s", field, stdout.String())
		}
	}
}
