// Package slate is the quest-generation scratch store: a string-keyed bag of
// values that quest nodes read their inputs from and write results to.
package slate

import (
	"sync"

	"github.com/spf13/cast"
)

// Slate holds values by key. Unset keys are distinct from zero values.
type Slate struct {
	mu     sync.RWMutex
	values map[string]any
}

// New returns an empty slate.
func New() *Slate {
	return &Slate{values: make(map[string]any)}
}

// FromMap returns a slate seeded with values.
func FromMap(values map[string]any) *Slate {
	s := New()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Set stores v under key, replacing any earlier value.
func (s *Slate) Set(key string, v any) {
	s.mu.Lock()
	s.values[key] = v
	s.mu.Unlock()
}

// Get returns the raw value under key. An empty key is never set.
func (s *Slate) Get(key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Exists reports whether key holds a value.
func (s *Slate) Exists(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// GetBool returns key converted to a bool. ok is false when the key is
// unset or holds something that is not bool-like.
func (s *Slate) GetBool(key string) (bool, bool) {
	v, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// GetInt returns key converted to an int.
func (s *Slate) GetInt(key string) (int, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetFloat returns key converted to a float64.
func (s *Slate) GetFloat(key string) (float64, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// GetString returns key converted to a string.
func (s *Slate) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return str, true
}

// Lookup returns the value under key if it has type T.
func Lookup[T any](s *Slate, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
