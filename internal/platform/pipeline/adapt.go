// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/dashboard/internal/platform/config"
	"github.com/taibuivan/dashboard/internal/platform/ctxutil"
)

// # net/http Bridges

// FromHTTP runs a standard net/http middleware as a pipeline stage.
//
// The request and writer handed to the inner handler become the Context's
// for the rest of the chain, and are restored once the stage returns. Errors
// returned downstream pass through the middleware untouched.
func FromHTTP(middleware func(http.Handler) http.Handler) Middleware {
	return func(next Handler) Handler {
		return func(c *Context) error {
			request, writer := c.Request, c.Writer
			defer func() {
				c.Request, c.Writer = request, writer
			}()

			var err error
			middleware(http.HandlerFunc(func(innerWriter http.ResponseWriter, innerRequest *http.Request) {
				c.Request, c.Writer = innerRequest, newResponseWriter(innerWriter)
				err = next(c)
			})).ServeHTTP(writer, request)

			return err
		}
	}
}

// Adapt turns a pipeline [Handler] into a router endpoint.
//
// The returned error is recorded on the Context and surfaces from [Terminal],
// so the interceptor sees it like any other fault. Outside the pipeline the
// endpoint answers with [FallbackBody].
func Adapt(handler Handler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		c := FromRequest(request)
		if c == nil {
			ctxutil.GetLogger(request.Context()).Error("pipeline_context_missing",
				slog.String("path", request.URL.Path),
			)
			writeFallback(writer)
			return
		}

		originalRequest, originalWriter := c.Request, c.Writer
		c.Request, c.Writer = request, newResponseWriter(writer)
		defer func() {
			c.Request, c.Writer = originalRequest, originalWriter
		}()

		if err := handler(c); err != nil {
			c.fail(err)
		}
	}
}

// Terminal wraps a router as the terminal [Handler] of the pipeline.
//
// Routing always starts fresh, even when the request already passed through
// another chi router or is being re-executed for the error page.
func Terminal(router http.Handler) Handler {
	return func(c *Context) error {
		request := c.Request.WithContext(context.WithValue(c.Request.Context(), chi.RouteCtxKey, nil))
		router.ServeHTTP(c.Writer, request)
		return c.takePending()
	}
}

// # Hosting Entry Point

// Serve exposes a built pipeline as an [http.Handler].
//
// It creates the [Context] for every request. Only cancellations and faults
// raised by stages placed before the [ExceptionInterceptor] reach this point;
// the latter still receive the fallback response.
func Serve(environment config.Environment, handler Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		c := NewContext(writer, request, environment)

		err := handler(c)
		if err == nil {
			return
		}

		logger := ctxutil.GetLogger(request.Context())
		if isCancellation(request, err) {
			logger.DebugContext(request.Context(), "request_cancelled", slog.Any("error", err))
			return
		}

		logger.ErrorContext(request.Context(), "fault_escaped_pipeline",
			slog.String("correlation_id", c.CorrelationID()),
			slog.Any("error", err),
		)

		if !c.Writer.Written() {
			writeFallback(c.Writer)
		}
	})
}
