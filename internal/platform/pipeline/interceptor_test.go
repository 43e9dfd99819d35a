// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
	"github.com/taibuivan/dashboard/internal/platform/config"
	"github.com/taibuivan/dashboard/internal/platform/pipeline"
)

// # Helpers

// spyRenderer counts calls and writes a page carrying the correlation identifier.
type spyRenderer struct {
	calls int
}

func (spy *spyRenderer) Render(c *pipeline.Context, fault *pipeline.Fault, next pipeline.Handler) error {
	spy.calls++
	c.Writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := fmt.Fprintf(c.Writer, "<p>Something went wrong. Request ID: %s</p>", c.CorrelationID())
	return err
}

// intercepted composes the interceptor in front of terminal.
func intercepted(environment config.Environment, renderer pipeline.Renderer, terminal pipeline.Handler) pipeline.Handler {
	return pipeline.NewBuilder().
		Use(pipeline.ExceptionInterceptor(pipeline.InterceptorOptions{
			Environment: environment,
			Renderer:    renderer,
		})).
		Handler(terminal)
}

func failing(message string) pipeline.Handler {
	return func(c *pipeline.Context) error {
		return errors.New(message)
	}
}

/*
TestInterceptor_PassThrough verifies that non-faulting responses are untouched.
*/
func TestInterceptor_PassThrough(t *testing.T) {
	for _, environment := range []config.Environment{config.Development, config.Production} {
		t.Run(environment.String(), func(t *testing.T) {
			spy := &spyRenderer{}
			handler := intercepted(environment, spy, func(c *pipeline.Context) error {
				c.Writer.Header().Set("X-Terminal", "yes")
				c.Writer.WriteHeader(http.StatusCreated)
				_, err := c.Writer.Write([]byte("created"))
				return err
			})

			c, recorder := newContext(t, http.MethodPost, "/items", environment)
			require.NoError(t, handler(c))

			assert.Equal(t, http.StatusCreated, recorder.Code)
			assert.Equal(t, "created", recorder.Body.String())
			assert.Equal(t, "yes", recorder.Header().Get("X-Terminal"))
			assert.Zero(t, spy.calls)
		})
	}
}

/*
TestInterceptor_ProductionRendersCorrelationID verifies the sanitized page.
*/
func TestInterceptor_ProductionRendersCorrelationID(t *testing.T) {
	spy := &spyRenderer{}
	handler := intercepted(config.Production, spy, failing("secret boom"))

	c, recorder := newContext(t, http.MethodGet, "/throw", config.Production)
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Request ID: req-12345678")
	assert.NotContains(t, recorder.Body.String(), "secret boom")
	assert.Equal(t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Equal(t, 1, spy.calls)
}

/*
TestInterceptor_ProductionPrefersTraceID verifies that an ambient trace ID reaches the page.
*/
func TestInterceptor_ProductionPrefersTraceID(t *testing.T) {
	handler := intercepted(config.Production, &spyRenderer{}, failing("boom"))

	c, recorder := newContext(t, http.MethodGet, "/throw", config.Production)
	c.TraceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	require.NoError(t, handler(c))

	assert.Contains(t, recorder.Body.String(), "Request ID: 4bf92f3577b34da6a3ce929d0e0e4736")
}

/*
TestInterceptor_DevelopmentShowsDiagnostics verifies the raw path and that the renderer is skipped.
*/
func TestInterceptor_DevelopmentShowsDiagnostics(t *testing.T) {
	spy := &spyRenderer{}
	handler := intercepted(config.Development, spy, failing("dev-boom"))

	c, recorder := newContext(t, http.MethodGet, "/throw", config.Development)
	require.NoError(t, handler(c))

	assert.GreaterOrEqual(t, recorder.Code, http.StatusInternalServerError)
	assert.Contains(t, recorder.Body.String(), "dev-boom")
	assert.Contains(t, recorder.Body.String(), "GET /throw")
	assert.NotContains(t, recorder.Body.String(), "Request ID:")
	assert.Zero(t, spy.calls)
}

/*
TestInterceptor_DevelopmentPanicIncludesStack verifies that recovered panics carry their stack.
*/
func TestInterceptor_DevelopmentPanicIncludesStack(t *testing.T) {
	handler := intercepted(config.Development, nil, func(c *pipeline.Context) error {
		panic("kaboom")
	})

	c, recorder := newContext(t, http.MethodGet, "/throw", config.Development)
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "panic: kaboom")
	assert.Contains(t, recorder.Body.String(), "Stack:")
	assert.NotContains(t, recorder.Body.String(), "Request ID:")
}

/*
TestInterceptor_ProductionPanicIsRendered verifies that panics follow the fault path.
*/
func TestInterceptor_ProductionPanicIsRendered(t *testing.T) {
	spy := &spyRenderer{}
	handler := intercepted(config.Production, spy, func(c *pipeline.Context) error {
		panic(errors.New("nil map write"))
	})

	c, recorder := newContext(t, http.MethodGet, "/throw", config.Production)
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Request ID:")
	assert.NotContains(t, recorder.Body.String(), "nil map write")
	assert.Equal(t, 1, spy.calls)
}

/*
TestInterceptor_DoubleFault verifies the guaranteed fallback for every way a renderer can fail.
*/
func TestInterceptor_DoubleFault(t *testing.T) {
	tests := []struct {
		name     string
		renderer pipeline.RendererFunc
	}{
		{"returns_error", func(c *pipeline.Context, fault *pipeline.Fault, next pipeline.Handler) error {
			return errors.New("template exploded")
		}},
		{"panics", func(c *pipeline.Context, fault *pipeline.Fault, next pipeline.Handler) error {
			panic("template exploded")
		}},
		{"empty_body", func(c *pipeline.Context, fault *pipeline.Fault, next pipeline.Handler) error {
			c.Writer.WriteHeader(http.StatusInternalServerError)
			return nil
		}},
		{"partial_write", func(c *pipeline.Context, fault *pipeline.Fault, next pipeline.Handler) error {
			c.Writer.WriteHeader(http.StatusOK)
			_, _ = c.Writer.Write([]byte("<html><body>Request ID: "))
			return errors.New("template exploded halfway")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := intercepted(config.Production, tt.renderer, failing("original"))

			c, recorder := newContext(t, http.MethodGet, "/throw", config.Production)
			require.NoError(t, handler(c))

			assert.GreaterOrEqual(t, recorder.Code, http.StatusInternalServerError)
			assert.Equal(t, pipeline.FallbackBody, recorder.Body.String())
			assert.NotContains(t, recorder.Body.String(), "original")
		})
	}
}

/*
TestInterceptor_RenderedStatus verifies which status the committed page carries.
*/
func TestInterceptor_RenderedStatus(t *testing.T) {
	tests := []struct {
		name     string
		rendered int
		fault    error
		want     int
	}{
		{"default", 0, errors.New("boom"), http.StatusInternalServerError},
		{"renderer_5xx_kept", http.StatusServiceUnavailable, errors.New("boom"), http.StatusServiceUnavailable},
		{"renderer_2xx_overridden", http.StatusOK, errors.New("boom"), http.StatusInternalServerError},
		{"fault_status_used", http.StatusOK, apperr.ServiceUnavailable("Database offline", nil), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := pipeline.RendererFunc(func(c *pipeline.Context, fault *pipeline.Fault, next pipeline.Handler) error {
				if tt.rendered != 0 {
					c.Writer.WriteHeader(tt.rendered)
				}
				_, err := c.Writer.Write([]byte("Request ID: " + c.CorrelationID()))
				return err
			})
			handler := intercepted(config.Production, renderer, func(c *pipeline.Context) error {
				return tt.fault
			})

			c, recorder := newContext(t, http.MethodGet, "/throw", config.Production)
			require.NoError(t, handler(c))

			assert.Equal(t, tt.want, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "Request ID: req-12345678")
		})
	}
}

/*
TestInterceptor_ExplicitStatus verifies that client errors are answered, not rendered.
*/
func TestInterceptor_ExplicitStatus(t *testing.T) {
	spy := &spyRenderer{}
	handler := intercepted(config.Production, spy, func(c *pipeline.Context) error {
		return fmt.Errorf("lookup: %w", apperr.NotFound("Page"))
	})

	c, recorder := newContext(t, http.MethodGet, "/missing", config.Production)
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Page not found", recorder.Body.String())
	assert.Zero(t, spy.calls)
}

/*
TestInterceptor_Cancellation verifies that aborted requests are propagated and never rendered.
*/
func TestInterceptor_Cancellation(t *testing.T) {
	spy := &spyRenderer{}
	handler := intercepted(config.Production, spy, func(c *pipeline.Context) error {
		return c.Request.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	request := httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(ctx)
	recorder := httptest.NewRecorder()
	c := pipeline.NewContext(recorder, request, config.Production)

	err := handler(c)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, spy.calls)
	assert.Zero(t, recorder.Body.Len())
}

/*
TestInterceptor_ResponseAlreadyStarted verifies that a started response is left alone.
*/
func TestInterceptor_ResponseAlreadyStarted(t *testing.T) {
	spy := &spyRenderer{}
	handler := intercepted(config.Production, spy, func(c *pipeline.Context) error {
		_, _ = c.Writer.Write([]byte("partial"))
		return errors.New("late failure")
	})

	c, recorder := newContext(t, http.MethodGet, "/stream", config.Production)
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "partial", recorder.Body.String())
	assert.Zero(t, spy.calls)
}

/*
TestInterceptor_DropsHeadersOfFailedStages verifies that only headers owned by
the outer layers survive a fault.
*/
func TestInterceptor_DropsHeadersOfFailedStages(t *testing.T) {
	export := func(c *pipeline.Context) error {
		header := c.Writer.Header()
		header.Set("Content-Disposition", "attachment; filename=secret.csv")
		header.Set("X-Internal-Debug", "db=primary-7")
		header.Set("Strict-Transport-Security", "max-age=60")
		http.SetCookie(c.Writer, &http.Cookie{Name: "export", Value: "1"})
		return errors.New("export failed")
	}

	tests := []struct {
		name        string
		environment config.Environment
		renderer    pipeline.Renderer
	}{
		{"production_page", config.Production, &spyRenderer{}},
		{"production_fallback", config.Production, pipeline.RendererFunc(func(c *pipeline.Context, fault *pipeline.Fault, next pipeline.Handler) error {
			return errors.New("template exploded")
		})},
		{"development", config.Development, &spyRenderer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := intercepted(tt.environment, tt.renderer, export)

			c, recorder := newContext(t, http.MethodGet, "/export", tt.environment)
			recorder.Header().Set("X-Request-ID", "req-12345678")
			require.NoError(t, handler(c))

			header := recorder.Result().Header
			assert.Equal(t, http.StatusInternalServerError, recorder.Code)
			assert.Empty(t, header.Get("Content-Disposition"))
			assert.Empty(t, header.Get("X-Internal-Debug"))
			assert.Empty(t, header.Values("Set-Cookie"))
			assert.Equal(t, "req-12345678", header.Get("X-Request-ID"))
			assert.Equal(t, "max-age=60", header.Get("Strict-Transport-Security"))
			assert.NotEmpty(t, recorder.Body.String())
		})
	}
}

/*
TestInterceptor_FaultWithoutError verifies that an empty Fault is still handled.
*/
func TestInterceptor_FaultWithoutError(t *testing.T) {
	empty := func(c *pipeline.Context) error {
		return &pipeline.Fault{}
	}

	t.Run("development", func(t *testing.T) {
		handler := intercepted(config.Development, &spyRenderer{}, empty)

		c, recorder := newContext(t, http.MethodGet, "/empty", config.Development)
		require.NotPanics(t, func() { require.NoError(t, handler(c)) })

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "fault without an underlying error")
	})

	t.Run("production", func(t *testing.T) {
		spy := &spyRenderer{}
		handler := intercepted(config.Production, spy, empty)

		c, recorder := newContext(t, http.MethodGet, "/empty", config.Production)
		require.NoError(t, handler(c))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Request ID: req-12345678")
		assert.Equal(t, 1, spy.calls)
	})

	assert.EqualError(t, &pipeline.Fault{}, "pipeline: fault without an underlying error")
}

/*
TestInterceptor_AbortHandlerRepanics verifies that net/http's abort sentinel is not swallowed.
*/
func TestInterceptor_AbortHandlerRepanics(t *testing.T) {
	handler := intercepted(config.Production, &spyRenderer{}, func(c *pipeline.Context) error {
		panic(http.ErrAbortHandler)
	})

	c, _ := newContext(t, http.MethodGet, "/abort", config.Production)
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		_ = handler(c)
	})
}

/*
TestInterceptor_InvalidEnvironment verifies that the interceptor refuses an unknown tag.
*/
func TestInterceptor_InvalidEnvironment(t *testing.T) {
	assert.Panics(t, func() {
		pipeline.ExceptionInterceptor(pipeline.InterceptorOptions{Environment: "Staging"})
	})
}

/*
TestReExecute verifies the route-based renderer and its double-fault behaviour.
*/
func TestReExecute(t *testing.T) {
	router := chi.NewRouter()
	router.HandleFunc("/throw", pipeline.Adapt(failing("original")))
	router.Get("/error", pipeline.Adapt(func(c *pipeline.Context) error {
		require.NotNil(t, c.Fault)
		assert.EqualError(t, c.Fault, "original")
		_, err := fmt.Fprintf(c.Writer, "<h1>Error</h1><p>Request ID: %s</p>", c.CorrelationID())
		return err
	}))

	configure := func(builder *pipeline.Builder) {
		builder.Use(pipeline.ExceptionInterceptor(pipeline.InterceptorOptions{
			Environment: config.Production,
			Renderer:    pipeline.ReExecute("/error"),
		}))
	}

	t.Run("renders_error_route", func(t *testing.T) {
		handler := pipeline.Build(nil, configure, pipeline.Terminal(router))

		c, recorder := newContext(t, http.MethodPost, "/throw", config.Production)
		require.NoError(t, handler(c))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Request ID: req-12345678")
		assert.Equal(t, "/throw", c.Path())
		assert.Nil(t, c.Fault)
	})

	t.Run("error_route_faults", func(t *testing.T) {
		breakErrorPage := pipeline.Append(func(next pipeline.Handler) pipeline.Handler {
			return func(c *pipeline.Context) error {
				if c.Path() == "/error" {
					return errors.New("error in error view")
				}
				return next(c)
			}
		})
		handler := pipeline.Build([]pipeline.Filter{breakErrorPage}, configure, pipeline.Terminal(router))

		c, recorder := newContext(t, http.MethodGet, "/throw", config.Production)
		require.NoError(t, handler(c))

		assert.GreaterOrEqual(t, recorder.Code, http.StatusInternalServerError)
		assert.Equal(t, pipeline.FallbackBody, recorder.Body.String())
	})
}
