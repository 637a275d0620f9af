//go:build !production

package environment

import (
	"net/url"
	"strings"
	"testing"
)

func TestBuiltinRegistersDevelopmentOnly(t *testing.T) {
	targets := Builtin().Targets()
	if len(targets) != 1 || targets[0] != Development {
		t.Fatalf("expected only %s, got %v", Development, targets)
	}
	if DefaultTarget != Development {
		t.Fatalf("expected default target %s, got %s", Development, DefaultTarget)
	}
}

func TestBuiltinRecordsAreValid(t *testing.T) {
	registry := Builtin()

	for _, target := range registry.Targets() {
		t.Run(target.String(), func(t *testing.T) {
			cfg, err := NewLoader(registry, WithEnvPrefix("")).Resolve(target)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if cfg.IsProduction {
				t.Fatalf("expected development build record to be non-production")
			}

			for name, value := range map[string]string{
				"auth.domainPrefix": cfg.Auth.DomainPrefix,
				"auth.audience":     cfg.Auth.Audience,
				"auth.clientId":     cfg.Auth.ClientID,
			} {
				if strings.TrimSpace(value) == "" {
					t.Fatalf("expected %s to be non-empty", name)
				}
			}

			for name, value := range map[string]string{
				"apiServerUrl":     cfg.APIServerURL,
				"auth.callbackUrl": cfg.Auth.CallbackURL,
			} {
				u, err := url.Parse(value)
				if err != nil || !u.IsAbs() || u.Hostname() == "" {
					t.Fatalf("expected %s to be an absolute URL, got %q", name, value)
				}
			}
		})
	}
}

func TestBuiltinDevelopmentMatchesLiteralRecord(t *testing.T) {
	got, err := Builtin().Lookup(Development)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if got != developmentRecord() {
		t.Fatalf("expected %+v, got %+v", developmentRecord(), got)
	}
}
