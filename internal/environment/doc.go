// Package environment holds the frontend EnvironmentConfig record, the closed
// set of build-selected environment targets, and the write-once Provider that
// resolves a record (built-in literals, optional overlay file, environment
// overrides), validates it and shares it read-only with the rest of the
// application.
package environment
