// Package render writes an EnvironmentConfig in the formats a frontend build
// consumes: an Angular-style environment.ts module, JSON, or YAML.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/frontend-env/internal/environment"
)

// Format selects the output encoding.
type Format string

const (
	FormatTypeScript Format = "ts"
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
)

// ErrUnknownFormat is returned for formats other than ts, json and yaml.
var ErrUnknownFormat = errors.New("unknown render format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatTypeScript, FormatJSON, FormatYAML}
}

// ParseFormat accepts the format names plus the "js" and "yml" aliases.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ts", "js", "typescript":
		return FormatTypeScript, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// The module keeps the key names the frontend's environment.ts already uses.
var moduleTemplate = template.Must(template.New("environment.ts").Funcs(template.FuncMap{
	"quote": quote,
}).Parse(`// Generated for the {{ .Target }} environment. Do not edit.
export const environment = {
  production: {{ .Config.IsProduction }},
  apiServerUrl: {{ quote .Config.APIServerURL }},
  auth0: {
    url: {{ quote .Config.Auth.DomainPrefix }},
    audience: {{ quote .Config.Auth.Audience }},
    clientId: {{ quote .Config.Auth.ClientID }},
    callbackURL: {{ quote .Config.Auth.CallbackURL }},
  },
};
`))

// Render writes cfg to w in the requested format.
func Render(w io.Writer, format Format, target environment.Target, cfg environment.EnvironmentConfig) error {
	switch format {
	case FormatTypeScript:
		data := struct {
			Target environment.Target
			Config environment.EnvironmentConfig
		}{Target: target, Config: cfg}
		if err := moduleTemplate.Execute(w, data); err != nil {
			return fmt.Errorf("render module: %w", err)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("render YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("render YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ContentType returns the HTTP media type for format.
func ContentType(format Format) string {
	switch format {
	case FormatTypeScript:
		return "text/javascript; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// quote emits a JavaScript string literal; JSON string syntax is a subset.
func quote(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
