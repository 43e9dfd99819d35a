// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
	"github.com/taibuivan/dashboard/internal/platform/middleware"
	"github.com/taibuivan/dashboard/internal/platform/pipeline"
	"github.com/taibuivan/dashboard/internal/web"
)

// maxFormBytes caps the size of a submitted auth form.
const maxFormBytes = 16 << 10

// Authenticator is the boundary the form handlers call into.
//
// [Service] is the production implementation; tests substitute their own.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Logout(ctx context.Context, token string) error
}

// CookieOptions controls the session cookie written after sign-in.
type CookieOptions struct {
	Name   string
	Path   string
	Secure bool
}

// Handler implements the sign-in, sign-up and sign-out pages.
type Handler struct {
	authenticator Authenticator
	pages         *web.Handler
	cookie        CookieOptions
}

// NewHandler constructs a new [Handler].
func NewHandler(authenticator Authenticator, pages *web.Handler, cookie CookieOptions) *Handler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &Handler{authenticator: authenticator, pages: pages, cookie: cookie}
}

// Register mounts the authentication routes on router.
//
// # Endpoints
//   - GET  /auth/login    : sign-in form.
//   - POST /auth/login    : verifies credentials; 400 with the form on failure.
//   - GET  /auth/register : sign-up form.
//   - POST /auth/register : creates the account; 400 with the form on failure.
//   - POST /auth/logout   : revokes the session (signed-in visitors only).
func (handler *Handler) Register(router chi.Router) {
	router.Route("/auth", func(router chi.Router) {
		router.Get("/login", pipeline.Adapt(handler.loginForm))
		router.Post("/login", pipeline.Adapt(handler.login))
		router.Get("/register", pipeline.Adapt(handler.registerForm))
		router.Post("/register", pipeline.Adapt(handler.register))
		router.With(middleware.RequireAuth("/auth/login")).Post("/logout", pipeline.Adapt(handler.logout))
	})
}

// # Sign-in

func (handler *Handler) loginForm(c *pipeline.Context) error {
	return handler.renderForm(c, http.StatusOK, web.ViewLogin, web.FormValues{}, "")
}

func (handler *Handler) login(c *pipeline.Context) error {
	if err := parseForm(c); err != nil {
		return err
	}

	form := web.FormValues{Email: c.Request.PostFormValue(FieldEmail)}
	session, err := handler.authenticator.Login(c.Request.Context(), LoginInput{
		Login:    form.Email,
		Password: c.Request.PostFormValue(FieldPassword),
	})
	if err != nil {
		return handler.formFailure(c, web.ViewLogin, form, err)
	}

	handler.setSessionCookie(c, session)
	return handler.pages.RenderDashboard(c, http.StatusOK, fmt.Sprintf("Welcome back, %s!", session.User.DisplayName))
}

// # Sign-up

func (handler *Handler) registerForm(c *pipeline.Context) error {
	return handler.renderForm(c, http.StatusOK, web.ViewRegister, web.FormValues{}, "")
}

func (handler *Handler) register(c *pipeline.Context) error {
	if err := parseForm(c); err != nil {
		return err
	}

	form := web.FormValues{
		Username: c.Request.PostFormValue(FieldUsername),
		Email:    c.Request.PostFormValue(FieldEmail),
	}
	session, err := handler.authenticator.Register(c.Request.Context(), RegisterInput{
		Username:      form.Username,
		Email:         form.Email,
		Password:      c.Request.PostFormValue(FieldPassword),
		AcceptedTerms: c.Request.PostFormValue(FieldTerms) != "",
	})
	if err != nil {
		return handler.formFailure(c, web.ViewRegister, form, err)
	}

	handler.setSessionCookie(c, session)
	return handler.pages.RenderDashboard(c, http.StatusOK, fmt.Sprintf("Welcome, %s!", session.User.DisplayName))
}

// # Sign-out

func (handler *Handler) logout(c *pipeline.Context) error {
	if cookie, err := c.Request.Cookie(handler.cookie.Name); err == nil {
		if err := handler.authenticator.Logout(c.Request.Context(), cookie.Value); err != nil {
			return err
		}
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     handler.cookie.Name,
		Value:    "",
		Path:     handler.cookie.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(c.Writer, c.Request, c.PathBase+"/", http.StatusSeeOther)
	return nil
}

// # Helpers

// formFailure re-renders the form with 400 for client errors. Anything else is
// a fault for the pipeline.
func (handler *Handler) formFailure(c *pipeline.Context, view string, form web.FormValues, err error) error {
	appError := apperr.As(err)
	if appError == nil || appError.HTTPStatus >= http.StatusInternalServerError {
		return err
	}

	message := appError.Message
	if len(appError.Details) > 0 {
		message = appError.Details[0].Message
	}

	return handler.renderForm(c, http.StatusBadRequest, view, form, message)
}

func (handler *Handler) renderForm(c *pipeline.Context, status int, view string, form web.FormValues, message string) error {
	title := "Login"
	if view == web.ViewRegister {
		title = "Register"
	}

	page := web.NewPage(c, title)
	page.Form = form
	page.Error = message
	return handler.pages.Views().Render(c.Writer, status, view, page)
}

func (handler *Handler) setSessionCookie(c *pipeline.Context, session *Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     handler.cookie.Name,
		Value:    session.Token,
		Path:     handler.cookie.Path,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   handler.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// parseForm reads a size-limited urlencoded body.
func parseForm(c *pipeline.Context) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)
	if err := c.Request.ParseForm(); err != nil {
		return apperr.ValidationError("Invalid form submission")
	}
	return nil
}
