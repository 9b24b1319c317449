package mvc

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ErrNotRegistered is wrapped when a required type has no provider
var ErrNotRegistered = errors.New("no provider registered")

// Provider creates a value for one request
type Provider func(ctx context.Context) (any, error)

// Registry resolves the controllers and services routers built with
// New<C>RouterForType ask for
type Registry struct {
	mu        sync.RWMutex
	providers map[reflect.Type]Provider
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{providers: make(map[reflect.Type]Provider)}
}

// Register installs or replaces the provider of t
func (r *Registry) Register(t reflect.Type, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[t] = p
}

// Provide registers fn as the provider of T
func Provide[T any](r *Registry, fn func(ctx context.Context) (T, error)) {
	r.Register(reflect.TypeFor[T](), func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
}

// Singleton registers v as the value of T for every request
func Singleton[T any](r *Registry, v T) {
	r.Register(reflect.TypeFor[T](), func(context.Context) (any, error) {
		return v, nil
	})
}

// Resolve creates the value of t
func (r *Registry) Resolve(ctx context.Context, t reflect.Type) (any, error) {
	r.mu.RLock()
	p, ok := r.providers[t]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrInternal("cannot resolve "+t.String(), ErrNotRegistered)
	}
	return p(ctx)
}

// Types returns the registered types by name
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]reflect.Type, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}

// Require resolves t through the request and checks the result is a T
func Require[T any](ctx Context, t reflect.Type) (T, error) {
	var out T
	v, err := ctx.Require(t)
	if err != nil {
		return out, err
	}
	out, ok := v.(T)
	if !ok {
		return out, ErrInternal(fmt.Sprintf("provider of %s returned %T", t, v), nil)
	}
	return out, nil
}
