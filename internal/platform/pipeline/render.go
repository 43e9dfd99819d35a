// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pipeline

import (
	"net/http"
)

// # Error Renderer

// DefaultErrorPath is the route re-executed by [ReExecute] when none is configured.
const DefaultErrorPath = "/error"

// FallbackBody is written when the error page itself cannot be rendered.
// It depends on nothing but this constant.
const FallbackBody = "500 Internal Server Error\n\nAn unexpected error occurred while processing your request.\n"

// Renderer produces the sanitized production error page for a fault.
//
// The Context's Writer is a buffer during the call: nothing reaches the client
// unless Render returns nil. next is the remainder of the chain after the
// interceptor, available to renderers that re-execute a route.
type Renderer interface {
	Render(c *Context, fault *Fault, next Handler) error
}

// RendererFunc adapts a function to the [Renderer] interface.
type RendererFunc func(c *Context, fault *Fault, next Handler) error

// Render calls f.
func (f RendererFunc) Render(c *Context, fault *Fault, next Handler) error {
	return f(c, fault, next)
}

// ReExecute returns a [Renderer] that runs the downstream chain again as a GET
// for path, with [Context.Fault] set so the error view can read it.
//
// Any stage on the way (including the error view) may fail; that failure is
// returned to the interceptor as a secondary fault.
func ReExecute(path string) Renderer {
	if path == "" {
		path = DefaultErrorPath
	}

	return RendererFunc(func(c *Context, fault *Fault, next Handler) error {
		originalRequest, originalFault := c.Request, c.Fault
		defer func() {
			c.Request, c.Fault = originalRequest, originalFault
		}()

		request := originalRequest.Clone(originalRequest.Context())
		request.Method = http.MethodGet
		request.URL.Path = path
		request.URL.RawPath = ""
		request.URL.RawQuery = ""
		request.RequestURI = path
		request.Body = http.NoBody
		request.ContentLength = 0

		c.Request, c.Fault = request, fault
		return next(c)
	})
}

// writeFallback emits the renderer-independent 500 response.
func writeFallback(writer http.ResponseWriter) {
	header := writer.Header()
	header.Del("Content-Length")
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("X-Content-Type-Options", "nosniff")
	writer.WriteHeader(http.StatusInternalServerError)
	_, _ = writer.Write([]byte(FallbackBody))
}
