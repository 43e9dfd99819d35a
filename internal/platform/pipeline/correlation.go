// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pipeline

import (
	"strings"

	"github.com/taibuivan/dashboard/pkg/uuidv7"
)

// # Correlation Resolver

// CorrelationID returns the identifier tying this request's error output to
// server-side logs. It is resolved on first use and cached on the Context.
func (c *Context) CorrelationID() string {
	if c.correlationID == "" {
		c.correlationID = ResolveCorrelationID(c.TraceID, c.RequestID)
	}
	return c.correlationID
}

// ResolveCorrelationID applies the fallback order:
//
//  1. the ambient trace identifier, when present and non-blank;
//  2. the request-scoped identifier assigned by the hosting layer.
//
// An absent and a blank trace identifier are treated alike. The result is
// never empty: a fresh UUIDv7 is generated if the hosting layer did not
// assign a request identifier.
func ResolveCorrelationID(traceID, requestID string) string {
	if id := strings.TrimSpace(traceID); id != "" {
		return id
	}
	if id := strings.TrimSpace(requestID); id != "" {
		return id
	}
	return uuidv7.New()
}
