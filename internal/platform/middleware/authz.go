// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/dashboard/internal/platform/ctxutil"
	"github.com/taibuivan/dashboard/internal/platform/sec"
)

// SessionVerifier defines what the session middleware needs from the auth layer.
//
// Defining it here keeps the middleware decoupled from the auth service so
// tests can inject a stub.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*sec.SessionClaims, error)
}

// Authenticate reads the session cookie and attaches its claims to the request.
//
// # Flow
//  1. No cookie: the request proceeds as anonymous.
//  2. Cookie present: verify it via [SessionVerifier].
//  3. Invalid or revoked: proceed as anonymous and expire the cookie.
//  4. Valid: inject [*sec.SessionClaims] into the request context.
func Authenticate(verifier SessionVerifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifySession(request.Context(), cookie.Value)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "session_rejected",
					slog.Any("error", err),
				)
				http.SetCookie(writer, &http.Cookie{
					Name:     cookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				next.ServeHTTP(writer, request)
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
		})
	}
}

// RequireAuth redirects anonymous visitors to loginPath.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if ctxutil.GetAuthUser(request.Context()) == nil {
				http.Redirect(writer, request, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
