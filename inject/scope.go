package inject

import (
	"fmt"
	"sync"

	"github.com/wudcwctw/webapp/errors"
)

// Module contributes bindings to a scope. Modules are applied in order,
// so later modules can resolve what earlier ones bound.
type Module interface {
	Configure(s *Scope) error
}

// ModuleFunc adapts a function to the Module interface.
type ModuleFunc func(s *Scope) error

func (f ModuleFunc) Configure(s *Scope) error { return f(s) }

// BindInstance returns a module binding a single key to an instance.
func BindInstance(key string, instance any) Module {
	return ModuleFunc(func(s *Scope) error {
		return s.Bind(key, instance)
	})
}

// Scope is a typed registry of bindings constructed from modules.
type Scope struct {
	mu       sync.RWMutex
	bindings map[string]any
	closed   bool
}

// NewScope builds a scope by applying the given modules in order. When a
// module fails, bindings contributed by earlier modules are closed before
// the error is returned.
func NewScope(modules ...Module) (*Scope, error) {
	s := &Scope{bindings: make(map[string]any)}
	for i, m := range modules {
		if m == nil {
			continue
		}
		if err := m.Configure(s); err != nil {
			s.Close()
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
	}
	return s, nil
}

// Bind registers an instance under key. Duplicate keys are rejected so a
// later module cannot silently shadow an earlier binding.
func (s *Scope) Bind(key string, instance any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bindings[key]; exists {
		return fmt.Errorf("key %q already bound", key)
	}
	s.bindings[key] = instance
	return nil
}

// Resolve returns the instance bound under key.
func (s *Scope) Resolve(key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	instance, exists := s.bindings[key]
	if !exists {
		return nil, errors.NotBound(key)
	}
	return instance, nil
}

// Keys returns all bound keys, for diagnostics.
func (s *Scope) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.bindings))
	for k := range s.bindings {
		keys = append(keys, k)
	}
	return keys
}

// Close closes every bound instance that implements Close() error.
// Closing twice is a no-op.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for key, instance := range s.bindings {
		if closer, ok := instance.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", key, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scope close errors: %v", errs)
	}
	return nil
}
