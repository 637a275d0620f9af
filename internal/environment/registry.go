package environment

import (
	"fmt"
	"sort"
)

// Registry is the closed set of environment records known to a build.
// It is immutable after construction.
type Registry struct {
	records map[Target]EnvironmentConfig
}

// NewRegistry copies the provided records into a new Registry.
func NewRegistry(records map[Target]EnvironmentConfig) *Registry {
	cloned := make(map[Target]EnvironmentConfig, len(records))
	for target, cfg := range records {
		cloned[target] = cfg
	}
	return &Registry{records: cloned}
}

// Builtin returns the registry compiled into this build. The default build
// carries the development record; building with -tags production carries
// the production record instead.
func Builtin() *Registry {
	return NewRegistry(builtinRecords())
}

// Lookup returns a copy of the record registered for target.
func (r *Registry) Lookup(target Target) (EnvironmentConfig, error) {
	cfg, ok := r.records[target]
	if !ok {
		return EnvironmentConfig{}, fmt.Errorf("%w: %q", ErrUnsupportedEnvironment, target)
	}
	return cfg, nil
}

// Targets returns the registered targets in lexical order.
func (r *Registry) Targets() []Target {
	out := make([]Target, 0, len(r.records))
	for target := range r.records {
		out = append(out, target)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
