// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pipeline

import (
	"errors"
	"sync"
)

// # Stage Definitions

// Handler processes a request. A non-nil error is a fault that travels back
// through the chain to the [ExceptionInterceptor].
type Handler func(c *Context) error

// Middleware is a pipeline stage: it receives the remainder of the chain and
// returns a new chain entry that may run logic before and/or after next.
//
// On the non-error path a stage calls next exactly once, or short-circuits by
// writing a response and returning without calling it.
type Middleware func(next Handler) Handler

// # Builder

// Builder collects stages in the order they are added.
type Builder struct {
	stages []Middleware
}

// NewBuilder returns an empty [Builder].
func NewBuilder() *Builder {
	return &Builder{}
}

// Use appends a stage. Earlier stages wrap later ones.
func (builder *Builder) Use(stage Middleware) *Builder {
	builder.stages = append(builder.stages, stage)
	return builder
}

// Len returns the number of collected stages.
func (builder *Builder) Len() int {
	return len(builder.stages)
}

// Handler folds the collected stages over terminal.
//
//	Use(A); Use(B); Handler(T)  // Request order:  A → B → T
//	                            // Response order: T → B → A
func (builder *Builder) Handler(terminal Handler) Handler {
	if terminal == nil {
		panic("pipeline: terminal handler must not be nil")
	}

	handler := terminal
	for index := len(builder.stages) - 1; index >= 0; index-- {
		handler = builder.stages[index](handler)
	}
	return handler
}

// # Filters

// Configure adds stages to a [Builder].
type Configure func(builder *Builder)

// Filter receives the configuration built so far and returns a new one.
//
// A filter that calls next before [Builder.Use] appends its stage (it runs
// after everything configured so far, closest to the terminal handler). A
// filter that calls Use before next prepends it (it runs first).
type Filter func(next Configure) Configure

// Build folds filters over configure in registration order, runs the result
// against a fresh [Builder] and returns the composed handler.
//
// Registering A then B where both append yields A → B → terminal on the
// forward path. Build is a pure composition and runs once at startup.
func Build(filters []Filter, configure Configure, terminal Handler) Handler {
	if configure == nil {
		configure = func(*Builder) {}
	}

	for _, filter := range filters {
		configure = filter(configure)
	}

	builder := NewBuilder()
	configure(builder)

	return builder.Handler(terminal)
}

// # Registry

// ErrRegistryFrozen is returned when a filter is registered after the pipeline was built.
var ErrRegistryFrozen = errors.New("pipeline: filter registered after the pipeline was built")

// Registry keeps filters in registration order until the pipeline is built.
//
// # Concurrency
//
// Registration may happen from several goroutines during startup; the
// registry is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	filters []Filter
	frozen  bool
}

// Register appends a filter. It fails once the registry is frozen.
func (registry *Registry) Register(filter Filter) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if registry.frozen {
		return ErrRegistryFrozen
	}
	registry.filters = append(registry.filters, filter)
	return nil
}

// Filters returns a copy of the registered filters in registration order.
func (registry *Registry) Filters() []Filter {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	return append([]Filter(nil), registry.filters...)
}

// Freeze stops further registrations and returns the final filter list.
func (registry *Registry) Freeze() []Filter {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.frozen = true
	return append([]Filter(nil), registry.filters...)
}
