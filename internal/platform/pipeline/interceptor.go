// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/taibuivan/dashboard/internal/platform/config"
	"github.com/taibuivan/dashboard/internal/platform/ctxutil"
	"github.com/taibuivan/dashboard/internal/platform/respond"
)

// errEmptyErrorPage is the secondary fault raised when a renderer succeeds without a body.
var errEmptyErrorPage = errors.New("pipeline: error renderer produced an empty body")

// errUnspecifiedFault stands in for a [Fault] returned without an error.
var errUnspecifiedFault = errors.New("pipeline: fault without an underlying error")

const headerStrictTransportSecurity = "Strict-Transport-Security"

// InterceptorOptions configures the [ExceptionInterceptor].
type InterceptorOptions struct {
	// Environment selects sanitized (Production) or raw (Development) output.
	Environment config.Environment

	// Renderer produces the production error page. Defaults to ReExecute(DefaultErrorPath).
	Renderer Renderer

	// Logger is used when the request carries no per-request logger.
	Logger *slog.Logger
}

// # Exception Interceptor

// ExceptionInterceptor returns the stage that contains every downstream fault.
//
// # State Machine
//
//   - Running: invoke next. No fault: the downstream response passes through.
//   - Faulted, Development: write raw diagnostics (message, stack). No renderer call.
//   - Faulted, Production: resolve the correlation identifier, render the error
//     page into a buffer and commit it. A failing renderer (error, panic or
//     empty body) is a secondary fault: [FallbackBody] is written instead.
//
// Each request gets exactly one response and the fault is consumed, with two
// exceptions: a cancelled request is returned upward unrendered, and
// [http.ErrAbortHandler] panics are re-raised for net/http.
func ExceptionInterceptor(options InterceptorOptions) Middleware {
	if !options.Environment.Valid() {
		panic(fmt.Sprintf("pipeline: exception interceptor requires a valid environment, got %q", options.Environment))
	}

	renderer := options.Renderer
	if renderer == nil {
		renderer = ReExecute(DefaultErrorPath)
	}

	return func(next Handler) Handler {
		return func(c *Context) error {
			owned := c.Writer.Header().Clone()

			fault := invoke(next, c)
			if fault == nil {
				return nil
			}

			// 1. Aborted requests are not faults and produce no output
			if isCancellation(c.Request, fault.Err) {
				return fault.Err
			}

			// 2. Deliberate client errors are answered with their own status
			if appError := fault.explicitStatus(); appError != nil {
				if !c.Writer.Written() {
					respond.Text(c.Writer, appError.HTTPStatus, appError.Message)
				}
				return nil
			}

			logger := options.logger(c)
			attrs := []any{
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Any("error", fault.Err),
				slog.Bool("panic", fault.Panicked),
			}
			if len(fault.Stack) > 0 {
				attrs = append(attrs, slog.String("stack", string(fault.Stack)))
			}

			// 3. Nothing can be changed once the client has received headers
			if c.Writer.Written() {
				logger.ErrorContext(c.Request.Context(), "unhandled_fault_after_response_started", attrs...)
				return nil
			}

			// Headers set by the failed stages never reach the client
			resetHeader(c.Writer.Header(), owned)

			// 4. Development: raw diagnostics, no correlation identifier
			if options.Environment.IsDevelopment() {
				logger.ErrorContext(c.Request.Context(), "unhandled_fault", attrs...)
				writeDiagnostics(c, fault)
				return nil
			}

			// 5. Production: sanitized page, then the guaranteed fallback
			correlationID := c.CorrelationID()
			logger.ErrorContext(c.Request.Context(), "unhandled_fault",
				append(attrs, slog.String("correlation_id", correlationID))...)

			if err := render(renderer, c, fault, next); err != nil {
				logger.ErrorContext(c.Request.Context(), "error_page_render_failed",
					slog.String("correlation_id", correlationID),
					slog.Any("error", err),
				)
				writeFallback(c.Writer)
			}

			return nil
		}
	}
}

// logger prefers the per-request logger injected by the hosting layer.
func (options InterceptorOptions) logger(c *Context) *slog.Logger {
	logger := ctxutil.GetLogger(c.Request.Context())
	if logger == slog.Default() && options.Logger != nil {
		return options.Logger
	}
	return logger
}

// invoke runs next and converts a returned error or a panic into a [Fault].
func invoke(next Handler, c *Context) (fault *Fault) {
	defer func() {
		if value := recover(); value != nil {
			if value == http.ErrAbortHandler {
				panic(value)
			}
			fault = newPanicFault(value, debug.Stack())
		}
	}()

	if err := next(c); err != nil {
		var existing *Fault
		if !errors.As(err, &existing) {
			return &Fault{Err: err}
		}
		if existing.Err == nil {
			return &Fault{Err: errUnspecifiedFault, Stack: existing.Stack, Panicked: existing.Panicked}
		}
		return existing
	}
	return nil
}

// resetHeader drops every header set after owned was captured. The transport
// security header is kept because it describes the host, not the response.
func resetHeader(header http.Header, owned http.Header) {
	hsts := header.Values(headerStrictTransportSecurity)

	for key := range header {
		delete(header, key)
	}
	for key, values := range owned {
		header[key] = values
	}
	if len(hsts) > 0 && len(header.Values(headerStrictTransportSecurity)) == 0 {
		header[headerStrictTransportSecurity] = hsts
	}
}

// render runs the renderer against a buffer and commits the page on success.
//
// The committed status is the renderer's when it chose a server error status,
// the fault's status otherwise.
func render(renderer Renderer, c *Context, fault *Fault, next Handler) (err error) {
	writer := c.Writer
	buffer := newBufferedWriter()
	c.Writer = buffer

	defer func() {
		c.Writer = writer
		if value := recover(); value != nil {
			if value == http.ErrAbortHandler {
				panic(value)
			}
			err = newPanicFault(value, debug.Stack())
		}
	}()

	if err := renderer.Render(c, fault, next); err != nil {
		return err
	}

	if buffer.body.Len() == 0 {
		return errEmptyErrorPage
	}

	status := buffer.Status()
	if status < http.StatusInternalServerError {
		status = fault.Status()
	}

	buffer.commitTo(writer, status)
	return nil
}

// writeDiagnostics emits the raw fault detail used in Development.
func writeDiagnostics(c *Context, fault *Fault) {
	var builder strings.Builder

	status := fault.Status()
	fmt.Fprintf(&builder, "%d %s\n\n", status, http.StatusText(status))
	builder.WriteString("An unhandled exception occurred while processing the request.\n\n")
	fmt.Fprintf(&builder, "%s %s\n\n", c.Method(), c.Path())
	fmt.Fprintf(&builder, "%T: %s\n", fault.Err, fault.Err.Error())

	if len(fault.Stack) > 0 {
		builder.WriteString("\nStack:\n")
		builder.Write(fault.Stack)
	}

	respond.Text(c.Writer, status, builder.String())
}
