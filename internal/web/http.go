// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
	"github.com/taibuivan/dashboard/internal/platform/ctxutil"
	"github.com/taibuivan/dashboard/internal/platform/pipeline"
)

//go:embed static
var staticFS embed.FS

// Handler serves the dashboard, the error view and the static assets.
type Handler struct {
	views  *Views
	static fs.FS
}

// NewHandler constructs a new [Handler].
func NewHandler(views *Views) *Handler {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The directory is compiled in; a failure here is a build defect.
		panic(err)
	}
	return &Handler{views: views, static: static}
}

// Register mounts the page and asset routes on router.
//
// # Endpoints
//   - GET /          : analytics dashboard.
//   - GET {errorPath}: sanitized error view, also the re-execution target.
//   - GET /js/*, /css/*, /img/* : embedded static files.
func (handler *Handler) Register(router chi.Router, errorPath string) {
	router.Get("/", pipeline.Adapt(handler.dashboard))
	router.Get(errorPath, pipeline.Adapt(handler.errorPage))

	static := pipeline.Adapt(handler.asset)
	router.Get("/js/*", static)
	router.Get("/css/*", static)
	router.Get("/img/*", static)
}

// NewPage builds the common view data for the current request.
func NewPage(c *pipeline.Context, title string) Page {
	page := Page{Title: title, PathBase: c.PathBase}
	if claims := ctxutil.GetAuthUser(c.Request.Context()); claims != nil {
		page.UserName = claims.DisplayName
	}
	return page
}

// RenderDashboard writes the dashboard with status and an optional greeting.
func (handler *Handler) RenderDashboard(c *pipeline.Context, status int, greeting string) error {
	page := NewPage(c, "Analytics")
	page.Greeting = greeting
	page.Dashboard = SampleDashboard()
	return handler.views.Render(c.Writer, status, ViewDashboard, page)
}

// Views exposes the parsed views to sibling page handlers.
func (handler *Handler) Views() *Views {
	return handler.views
}

func (handler *Handler) dashboard(c *pipeline.Context) error {
	return handler.RenderDashboard(c, http.StatusOK, "")
}

// errorPage renders the sanitized error view. The interceptor decides the
// final status when the view is re-executed for a fault.
func (handler *Handler) errorPage(c *pipeline.Context) error {
	page := NewPage(c, "Error")
	page.RequestID = c.CorrelationID()
	return handler.views.Render(c.Writer, http.StatusOK, ViewError, page)
}

// asset serves one embedded static file.
func (handler *Handler) asset(c *pipeline.Context) error {
	name := strings.TrimPrefix(path.Clean(c.Path()), "/")

	info, err := fs.Stat(handler.static, name)
	if err != nil || info.IsDir() {
		return apperr.NotFound("File")
	}

	http.ServeFileFS(c.Writer, c.Request, handler.static, name)
	return nil
}
