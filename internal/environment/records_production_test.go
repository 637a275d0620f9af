//go:build production

package environment

import (
	"errors"
	"testing"
)

// linkValues stands in for the -ldflags -X substitution and restores the
// previous values when the test ends.
func linkValues(t *testing.T, apiServerURL, domainPrefix, audience, clientID, callbackURL string) {
	t.Helper()

	prev := [...]string{productionAPIServerURL, productionDomainPrefix, productionAudience, productionClientID, productionCallbackURL}
	t.Cleanup(func() {
		productionAPIServerURL = prev[0]
		productionDomainPrefix = prev[1]
		productionAudience = prev[2]
		productionClientID = prev[3]
		productionCallbackURL = prev[4]
	})

	productionAPIServerURL = apiServerURL
	productionDomainPrefix = domainPrefix
	productionAudience = audience
	productionClientID = clientID
	productionCallbackURL = callbackURL
}

func TestBuiltinRegistersProductionOnly(t *testing.T) {
	registry := Builtin()

	targets := registry.Targets()
	if len(targets) != 1 || targets[0] != Production {
		t.Fatalf("expected only %s, got %v", Production, targets)
	}
	if DefaultTarget != Production {
		t.Fatalf("expected default target %s, got %s", Production, DefaultTarget)
	}

	cfg, err := registry.Lookup(Production)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !cfg.IsProduction {
		t.Fatalf("expected production record to set isProduction")
	}
}

func TestProductionWithoutLinkedValuesIsInvalid(t *testing.T) {
	linkValues(t, "", "", "", "", "")

	_, err := NewLoader(Builtin(), WithEnvPrefix("")).Resolve(Production)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}

	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidConfigError, got %T", err)
	}
	if invalid.Target != Production {
		t.Fatalf("expected target %s, got %q", Production, invalid.Target)
	}

	fields := []string{"apiServerUrl", "auth.domainPrefix", "auth.audience", "auth.clientId", "auth.callbackUrl"}
	if len(invalid.Fields) != len(fields) {
		t.Fatalf("expected %d failing fields, got %+v", len(fields), invalid.Fields)
	}
	for _, field := range fields {
		if !invalid.HasField(field) {
			t.Fatalf("expected %s to be reported, got %+v", field, invalid.Fields)
		}
	}
}

func TestProductionWithLinkedValuesResolves(t *testing.T) {
	linkValues(t,
		"https://api.coffeeplace.example",
		"coffeeplace",
		"coffeeplace",
		"prod-client",
		"https://app.coffeeplace.example",
	)

	cfg, err := NewLoader(Builtin(), WithEnvPrefix("")).Resolve(Production)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !cfg.IsProduction || cfg.APIServerURL != "https://api.coffeeplace.example" || cfg.Auth.ClientID != "prod-client" {
		t.Fatalf("unexpected production record %+v", cfg)
	}
}
