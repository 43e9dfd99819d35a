// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 issues the time-ordered identifiers handed out by the
// dashboard: account ids, session token ids and the correlation id shown on
// the error page when a request carries no trace.
package uuidv7

import "github.com/google/uuid"

// New returns a fresh UUIDv7 in canonical form. Ids issued later sort after
// earlier ones, which keeps account rows in insertion order.
//
// It panics only when the system random source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}
