// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pipeline implements the fault-contained request pipeline of the dashboard.

A request flows through an ordered chain of stages built once at startup:

	outermost filter → ... → ExceptionInterceptor → ... → terminal router

Architecture:

  - Context: the per-request record threaded through every stage by pointer.
  - Builder / Filter: ordered composition. Filters receive the configuration
    built so far and choose to run their stage before or after it.
  - ExceptionInterceptor: turns downstream faults into exactly one response,
    branching on the deployment [config.Environment].
  - Renderer: produces the sanitized production error page. It may fail; the
    interceptor then writes [FallbackBody].

Faults travel backwards as returned errors (or recovered panics) and are
consumed by the interceptor. Cancellation is never rendered.
*/
package pipeline

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/taibuivan/dashboard/internal/platform/config"
	"github.com/taibuivan/dashboard/internal/platform/ctxkey"
	"github.com/taibuivan/dashboard/internal/platform/ctxutil"
)

// # Request Context

// Context is the per-request mutable record shared by every stage.
//
// # Ownership
//
// A Context is created by [Serve] when a request enters the pipeline and is
// owned by the goroutine serving that request. It is never shared across
// requests and is discarded once the response completes.
type Context struct {
	// Request is the current request. Stages may replace it (e.g. error re-execution).
	Request *http.Request

	// Writer is the response sink for this request.
	Writer ResponseWriter

	// TraceID is the ambient trace identifier supplied by the tracing layer.
	// It is empty when no span context is active.
	TraceID string

	// RequestID is the request-scoped identifier assigned by the hosting layer.
	RequestID string

	// Environment is the process-wide deployment tag.
	Environment config.Environment

	// PathBase is the mount prefix used when building asset URLs.
	PathBase string

	// Fault is set while the error page is re-executed for a primary fault.
	Fault *Fault

	correlationID string
	pending       error
}

// NewContext builds the Context for an inbound request and attaches it to the
// request's [context.Context] so router endpoints can find it with [FromRequest].
func NewContext(writer http.ResponseWriter, request *http.Request, environment config.Environment) *Context {
	c := &Context{
		Writer:      newResponseWriter(writer),
		TraceID:     traceIDFrom(request.Context()),
		RequestID:   ctxutil.GetRequestID(request.Context()),
		Environment: environment,
	}

	c.Request = request.WithContext(context.WithValue(request.Context(), ctxkey.KeyPipeline, c))
	return c
}

// FromRequest returns the Context attached to request, or nil outside the pipeline.
func FromRequest(request *http.Request) *Context {
	c, _ := request.Context().Value(ctxkey.KeyPipeline).(*Context)
	return c
}

// Path returns the path of the current request.
func (c *Context) Path() string {
	return c.Request.URL.Path
}

// Method returns the method of the current request.
func (c *Context) Method() string {
	return c.Request.Method
}

// traceIDFrom reads the OpenTelemetry span context carried by ctx.
func traceIDFrom(ctx context.Context) string {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.HasTraceID() {
		return ""
	}
	return spanContext.TraceID().String()
}

// fail records an error raised by a router endpoint (see [Adapt]).
func (c *Context) fail(err error) {
	if c.pending == nil {
		c.pending = err
	}
}

// takePending returns and clears the error recorded by [Context.fail].
func (c *Context) takePending() error {
	err := c.pending
	c.pending = nil
	return err
}
