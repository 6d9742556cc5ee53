package inject

import "fmt"

// Resolve resolves a binding with type safety, returning an error when the
// key is missing or the instance has the wrong type.
func Resolve[T any](s *Scope, key string) (T, error) {
	var zero T
	instance, err := s.Resolve(key)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("inject: binding %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// MustResolve resolves a binding with type safety, panicking on error.
func MustResolve[T any](s *Scope, key string) T {
	result, err := Resolve[T](s, key)
	if err != nil {
		panic(fmt.Sprintf("inject: %v", err))
	}
	return result
}

// TryResolve resolves a binding, returning false when it is absent or of
// the wrong type. Use this when a dependency is optional.
func TryResolve[T any](s *Scope, key string) (T, bool) {
	result, err := Resolve[T](s, key)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}
