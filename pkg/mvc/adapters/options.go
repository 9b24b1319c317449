// Package adapters installs generated routers on echo, gin, fiber and chi.
// Every adapter implements mvc.App; its request contexts implement
// mvc.Context and results are rendered as JSON.
package adapters

import "github.com/toyz/mvcgen/pkg/mvc"

// Option configures the environment an adapter hands to requests
type Option func(env *mvc.Environment)

// WithRegistry resolves New<C>RouterForType controllers from r
func WithRegistry(r *mvc.Registry) Option {
	return func(env *mvc.Environment) {
		env.Registry = r
	}
}

// WithSessions replaces the in-memory session manager
func WithSessions(s *mvc.Sessions) Option {
	return func(env *mvc.Environment) {
		env.Sessions = s
	}
}

// WithDispatcher replaces the executors of dispatch queues
func WithDispatcher(d *mvc.Dispatcher) Option {
	return func(env *mvc.Environment) {
		env.Dispatcher = d
	}
}

// WithEnvironment shares one environment between adapters
func WithEnvironment(shared *mvc.Environment) Option {
	return func(env *mvc.Environment) {
		*env = *shared
	}
}

func newEnvironment(opts []Option) *mvc.Environment {
	env := mvc.NewEnvironment()
	for _, opt := range opts {
		opt(env)
	}
	return env
}
