// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
	"github.com/taibuivan/dashboard/internal/platform/config"
	"github.com/taibuivan/dashboard/internal/platform/ctxutil"
	"github.com/taibuivan/dashboard/internal/platform/pipeline"
	"github.com/taibuivan/dashboard/internal/platform/sec"
	"github.com/taibuivan/dashboard/internal/web"
)

// serve runs one request through the web routes without the interceptor.
func serve(t *testing.T, request *http.Request, pathBase string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	views, err := web.NewViews()
	require.NoError(t, err)

	router := chi.NewRouter()
	web.NewHandler(views).Register(router, "/error")

	request = request.WithContext(ctxutil.WithRequestID(request.Context(), "req-0000abcd"))
	recorder := httptest.NewRecorder()
	c := pipeline.NewContext(recorder, request, config.Production)
	c.PathBase = pathBase

	return recorder, pipeline.Terminal(router)(c)
}

func TestDashboard(t *testing.T) {
	recorder, err := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), "")
	require.NoError(t, err)

	body := recorder.Body.String()
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Congratulations Norris")
	assert.Contains(t, body, "Transactions")
	assert.Contains(t, body, "Weekly Overview")
	assert.Contains(t, body, `src="/js/dashboards-analytics.js"`)
	assert.Contains(t, body, `data-values="40,65,50,45,90,55,70"`)
}

func TestDashboard_PathBase(t *testing.T) {
	recorder, err := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), "/app")
	require.NoError(t, err)

	assert.Contains(t, recorder.Body.String(), "/app/js/dashboards-analytics.js")
	assert.Contains(t, recorder.Body.String(), "/app/js/main.js")
}

func TestDashboard_SignedIn(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.SessionClaims{UserID: "u-1", DisplayName: "E2E User"}))

	recorder, err := serve(t, request, "")
	require.NoError(t, err)
	assert.Contains(t, recorder.Body.String(), "E2E User")
	assert.Contains(t, recorder.Body.String(), "Log out")
}

func TestErrorView(t *testing.T) {
	recorder, err := serve(t, httptest.NewRequest(http.MethodGet, "/error", nil), "")
	require.NoError(t, err)

	assert.Contains(t, recorder.Body.String(), "Request ID:")
	assert.Contains(t, recorder.Body.String(), "req-0000abcd")
}

func TestStaticFiles(t *testing.T) {
	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/js/main.js", "javascript", "Main"},
		{"/js/dashboards-analytics.js", "javascript", "weeklyOverviewChart"},
		{"/css/core.css", "text/css", ".card"},
		{"/img/illustrations/trophy.png", "image/png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			recorder, err := serve(t, httptest.NewRequest(http.MethodGet, tt.path, nil), "")
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Contains(t, recorder.Header().Get("Content-Type"), tt.contentType)
			assert.NotZero(t, recorder.Body.Len())
			assert.Contains(t, recorder.Body.String(), tt.contains)
		})
	}
}

func TestStaticFiles_Missing(t *testing.T) {
	for _, target := range []string{"/js/does-not-exist.js", "/img/illustrations", "/css/../templates/layout.html"} {
		t.Run(target, func(t *testing.T) {
			recorder, err := serve(t, httptest.NewRequest(http.MethodGet, target, nil), "")

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
			assert.Zero(t, recorder.Body.Len())
		})
	}
}
