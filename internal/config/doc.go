// Package config loads the service's own runtime settings from multiple
// sources (YAML files, environment variables, CLI flags) with precedence:
// CLI flags > YAML config > Environment variables > Defaults. The frontend
// EnvironmentConfig record itself lives in package environment; this package
// only decides which target to load and where its overlays come from.
package config
