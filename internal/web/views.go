// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package web renders the dashboard pages and serves the embedded static assets.

Architecture:

  - Views: html/template pages sharing one layout, parsed once at startup.
  - Handler: router endpoints written as pipeline handlers, so a failing page
    surfaces as a fault to the exception interceptor.
  - Static files: compiled into the binary with embed.
*/
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/taibuivan/dashboard/internal/platform/respond"
)

//go:embed templates/*.html
var templateFS embed.FS

// View names known to [Views].
const (
	ViewDashboard = "dashboard"
	ViewError     = "error"
	ViewLogin     = "login"
	ViewRegister  = "register"
)

// Page is the data every view is executed with.
type Page struct {
	Title    string
	PathBase string

	// UserName is the signed-in display name, empty for anonymous visitors.
	UserName string

	// Greeting is shown above the dashboard after a successful sign-in.
	Greeting string

	// RequestID is the correlation identifier shown by the error view.
	RequestID string

	// Error is the form-level failure message of the auth pages.
	Error string
	Form  FormValues

	Dashboard *Dashboard
}

// FormValues echoes non-secret fields back into a re-rendered form.
type FormValues struct {
	Username string
	Email    string
}

// Views holds one parsed template set per page.
type Views struct {
	pages map[string]*template.Template
}

// NewViews parses the embedded templates. It fails at startup on a broken template.
func NewViews() (*Views, error) {
	views := &Views{pages: make(map[string]*template.Template)}

	for _, name := range []string{ViewDashboard, ViewError, ViewLogin, ViewRegister} {
		page, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("web: failed to parse view %q: %w", name, err)
		}
		views.pages[name] = page
	}

	return views, nil
}

// Render executes a view into memory and writes it with status.
// Nothing is written when execution fails.
func (views *Views) Render(writer http.ResponseWriter, status int, name string, page Page) error {
	view, ok := views.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown view %q", name)
	}

	var buffer bytes.Buffer
	if err := view.ExecuteTemplate(&buffer, "layout", page); err != nil {
		return fmt.Errorf("web: failed to render view %q: %w", name, err)
	}

	respond.HTML(writer, status, buffer.Bytes())
	return nil
}
