package environment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// overlay carries the string fields that may be overridden outside the
// build. IsProduction is deliberately absent: a YAML overlay that sets it is
// rejected as an unknown key.
type overlay struct {
	APIServerURL string      `yaml:"apiServerUrl" env:"API_SERVER_URL"`
	Auth         authOverlay `yaml:"auth" envPrefix:"AUTH_"`
}

type authOverlay struct {
	DomainPrefix string `yaml:"domainPrefix" env:"DOMAIN_PREFIX"`
	Audience     string `yaml:"audience" env:"AUDIENCE"`
	ClientID     string `yaml:"clientId" env:"CLIENT_ID"`
	CallbackURL  string `yaml:"callbackUrl" env:"CALLBACK_URL"`
}

func (o overlay) empty() bool {
	return o == overlay{}
}

func (o overlay) record() EnvironmentConfig {
	return EnvironmentConfig{
		APIServerURL: o.APIServerURL,
		Auth: AuthConfig{
			DomainPrefix: o.Auth.DomainPrefix,
			Audience:     o.Auth.Audience,
			ClientID:     o.Auth.ClientID,
			CallbackURL:  o.Auth.CallbackURL,
		},
	}
}

// readOverlayFile decodes a strict YAML overlay. An empty file is an empty overlay.
func readOverlayFile(path string) (overlay, error) {
	var o overlay

	data, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("read overlay: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return overlay{}, fmt.Errorf("parse overlay %s: %w", path, err)
	}

	return o, nil
}

// readEnvOverlay parses prefixed variables from environ, or from the process
// environment when environ is nil.
func readEnvOverlay(prefix string, environ map[string]string) (overlay, error) {
	var o overlay

	opts := env.Options{Prefix: prefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return overlay{}, fmt.Errorf("parse environment overrides: %w", err)
	}

	return o, nil
}

// applyOverlay returns base with every non-empty overlay value written over it.
func applyOverlay(base EnvironmentConfig, o overlay) (EnvironmentConfig, error) {
	if err := mergo.Merge(&base, o.record(), mergo.WithOverride); err != nil {
		return EnvironmentConfig{}, fmt.Errorf("merge overlay: %w", err)
	}
	return base, nil
}
