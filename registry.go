package endpoint

import (
	"reflect"
	"sync"
)

// Registry maps concrete result types to their encoders. It is consulted
// only while a Service is being built; the resolved encoders are captured
// by the Service and the registry is never read per request.
type Registry struct {
	mu       sync.RWMutex
	encoders map[reflect.Type]any
	fallback AnyEncoder
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithFallback sets a generic strategy used for types without a registered
// encoder, e.g. JSON() to encode any struct as JSON.
func WithFallback(g AnyEncoder) RegistryOption {
	return func(r *Registry) {
		r.fallback = g
	}
}

// NewRegistry creates a registry preloaded with the built-in encoders for
// string, []byte, Void and ErrorMap.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{encoders: make(map[reflect.Type]any)}
	for _, opt := range opts {
		opt(r)
	}
	Register(r, Text())
	Register(r, Bytes())
	Register(r, Empty())
	Register(r, JSONErrors())
	return r
}

// Register binds enc to A, replacing any earlier binding.
func Register[A any](r *Registry, enc Encoder[A]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[reflect.TypeFor[A]()] = enc
}

// Lookup returns the encoder for A. An explicit registration wins over the
// fallback strategy. Returns ErrNoEncoder if neither applies.
func Lookup[A any](r *Registry) (Encoder[A], error) {
	typ := reflect.TypeFor[A]()

	r.mu.RLock()
	enc, ok := r.encoders[typ]
	fallback := r.fallback
	r.mu.RUnlock()

	if ok {
		return enc.(Encoder[A]), nil //nolint:forcetypeassert // Register keys by the same type
	}
	if fallback != nil {
		return Typed[A](fallback), nil
	}
	return nil, noEncoder(typ.String())
}
