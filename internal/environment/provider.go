package environment

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot is the loaded record together with its provenance.
type Snapshot struct {
	Target   Target
	LoadedAt time.Time
	Config   EnvironmentConfig
}

// ProviderOption configures NewProvider.
type ProviderOption func(*Provider)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) ProviderOption {
	return func(p *Provider) {
		p.clock = clock
	}
}

// Provider owns the single active EnvironmentConfig of a process. It moves
// from unloaded to loaded exactly once.
type Provider struct {
	loader *Loader
	clock  func() time.Time

	mu       sync.RWMutex
	loaded   bool
	snapshot Snapshot
}

// NewProvider returns an unloaded Provider backed by loader.
func NewProvider(loader *Loader, opts ...ProviderOption) *Provider {
	p := &Provider{
		loader: loader,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load resolves target and stores the result. Loading the same target again
// returns the stored record; a different target fails with ErrAlreadyLoaded.
// A failed Load leaves the provider unloaded.
func (p *Provider) Load(target Target) (EnvironmentConfig, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		if p.snapshot.Target != target {
			return EnvironmentConfig{}, fmt.Errorf("%w: loaded %q, requested %q", ErrAlreadyLoaded, p.snapshot.Target, target)
		}
		return p.snapshot.Config, nil
	}

	cfg, err := p.loader.Resolve(target)
	if err != nil {
		return EnvironmentConfig{}, fmt.Errorf("load %s: %w", target, err)
	}

	p.snapshot = Snapshot{
		Target:   target,
		LoadedAt: p.clock(),
		Config:   cfg,
	}
	p.loaded = true

	return cfg, nil
}

// Get returns a copy of the loaded record.
func (p *Provider) Get() (EnvironmentConfig, error) {
	snap, err := p.Snapshot()
	if err != nil {
		return EnvironmentConfig{}, err
	}
	return snap.Config, nil
}

// Snapshot returns a copy of the loaded record with its target and load time.
func (p *Provider) Snapshot() (Snapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.loaded {
		return Snapshot{}, ErrConfigurationMissing
	}
	return p.snapshot, nil
}

// Target reports the loaded target, if any.
func (p *Provider) Target() (Target, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.snapshot.Target, p.loaded
}
