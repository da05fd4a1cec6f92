package scssbuild

import (
	"fmt"
	"sync/atomic"

	"github.com/yacobolo/scssbuild/internal/sass"
)

// ConfigFunctionName is the name stylesheets call to read the site configuration.
const ConfigFunctionName = "site-config"

// ConfigRegistry holds the site configuration for one build. It is set once
// before compiling and read from any goroutine.
type ConfigRegistry struct {
	value atomic.Pointer[snapshot]
}

type snapshot struct {
	v any
}

// NewConfigRegistry returns a registry holding null.
func NewConfigRegistry() *ConfigRegistry {
	return &ConfigRegistry{}
}

// Set stores the configuration. Callers must not mutate v afterwards.
func (r *ConfigRegistry) Set(v any) {
	r.value.Store(&snapshot{v: v})
}

// Get returns the stored configuration, or nil before Set.
func (r *ConfigRegistry) Get() any {
	s := r.value.Load()
	if s == nil {
		return nil
	}
	return s.v
}

// Accessor returns the site-config() implementation bound to r.
func (r *ConfigRegistry) Accessor() sass.Function {
	return func(args []sass.Value) (sass.Value, error) {
		if len(args) > 0 {
			return nil, fmt.Errorf("Only 0 arguments allowed, but %d were passed.", len(args))
		}
		return bridgeValue(r.Get()), nil
	}
}
