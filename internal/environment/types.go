package environment

import (
	"fmt"
	"net/url"
	"strings"
)

// Target names a deployment tier.
type Target string

const (
	// Development is the local tier served from 127.0.0.1.
	Development Target = "development"
	// Production is the deployed tier; its values are injected at build time.
	Production Target = "production"
)

func (t Target) String() string {
	return string(t)
}

// ParseTarget normalises a user supplied target name. It does not check that
// the target is registered; Registry.Lookup does that.
func ParseTarget(raw string) (Target, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", fmt.Errorf("empty target: %w", ErrUnsupportedEnvironment)
	}
	return Target(name), nil
}

// EnvironmentConfig is the configuration record consumed by the frontend
// shell. Values are handed out by copy; nothing in this package exposes a
// pointer to the stored record.
type EnvironmentConfig struct {
	IsProduction bool       `json:"isProduction" yaml:"isProduction"`
	APIServerURL string     `json:"apiServerUrl" yaml:"apiServerUrl" validate:"absurl"`
	Auth         AuthConfig `json:"auth" yaml:"auth"`
}

// AuthConfig holds the identity-provider settings.
type AuthConfig struct {
	DomainPrefix string `json:"domainPrefix" yaml:"domainPrefix" validate:"nonblank"`
	Audience     string `json:"audience" yaml:"audience" validate:"nonblank"`
	ClientID     string `json:"clientId" yaml:"clientId" validate:"nonblank"`
	CallbackURL  string `json:"callbackUrl" yaml:"callbackUrl" validate:"absurl"`
}

// IssuerURL returns the identity-provider tenant origin derived from the
// domain prefix, e.g. "coffeeplace-app.us" -> "https://coffeeplace-app.us.auth0.com/".
func (c EnvironmentConfig) IssuerURL() string {
	return "https://" + c.Auth.DomainPrefix + ".auth0.com/"
}

// LoginURL builds the implicit-flow authorize URL the frontend redirects to.
// The callback path is appended to the registered callback URL.
func (c EnvironmentConfig) LoginURL(callbackPath string) string {
	redirect := strings.TrimRight(c.Auth.CallbackURL, "/")
	if callbackPath != "" {
		redirect += "/" + strings.TrimLeft(callbackPath, "/")
	}

	query := url.Values{}
	query.Set("audience", c.Auth.Audience)
	query.Set("response_type", "token")
	query.Set("client_id", c.Auth.ClientID)
	query.Set("redirect_uri", redirect)

	return c.IssuerURL() + "authorize?" + query.Encode()
}
