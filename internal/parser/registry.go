package parser

import (
	"fmt"
	"log/slog"

	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultRegistry is the process-wide config cache.
var DefaultRegistry = NewRegistry()

// Registry caches built configs by domain name.
//
// Many callers may ask for the same domain on first use. Load builds the
// config at most once per name and every caller sees the same *Config.
type Registry struct {
	configs *xsync.MapOf[string, *Config]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: xsync.NewMapOf[string, *Config]()}
}

// Load returns the config cached under name, building it with build on
// first use. A failed build caches nothing, so a later Load retries.
func (r *Registry) Load(name string, build func() (*Config, error)) (*Config, error) {
	if cfg, ok := r.configs.Load(name); ok {
		return cfg, nil
	}

	var buildErr error
	cfg, _ := r.configs.Compute(name, func(old *Config, loaded bool) (*Config, bool) {
		if loaded {
			return old, false
		}
		built, err := build()
		if err != nil {
			buildErr = err
			return nil, true
		}
		slog.Debug("built parse config",
			"domain", name,
			"value_ops", len(built.valueOps),
			"no_value_ops", len(built.noValueOps),
			"fields", len(built.fields))
		return built, false
	})
	if buildErr != nil {
		return nil, fmt.Errorf("build parse config %q: %w", name, buildErr)
	}
	return cfg, nil
}

// Lookup returns the config cached under name without building it.
func (r *Registry) Lookup(name string) (*Config, bool) {
	return r.configs.Load(name)
}

// Len returns the number of cached configs.
func (r *Registry) Len() int {
	return r.configs.Size()
}

// Reset drops every cached config.
func (r *Registry) Reset() {
	r.configs.Clear()
}
