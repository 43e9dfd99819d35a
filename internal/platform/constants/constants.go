// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: IP tracking intervals.
  - Sessions: cookie naming and token lifetime.
  - Headers: the HTTP header names shared by middleware.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "dashboard"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "dashboard"

	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "dashboard_session"

	// SessionTTL is the lifetime of a session token and its cookie.
	SessionTTL = 12 * time.Hour

	// HSTSMaxAge is the max-age advertised by the Strict-Transport-Security header.
	HSTSMaxAge = 365 * 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID              = "X-Request-ID"
	HeaderXRealIP                 = "X-Real-IP"
	HeaderXForwardedFor           = "X-Forwarded-For"
	HeaderStrictTransportSecurity = "Strict-Transport-Security"
)

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes

const (
	RedisPrefixRevokedSession = "dashboard:session:revoked:"
)
