// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// UserStore defines the data access contract for user accounts.
//
// # Implementations
//
//   - [PostgresUserStore]: the production store.
//   - [MemoryUserStore]: local runs without DATABASE_URL, and tests.
type UserStore interface {
	// FindByEmail returns the account with the given normalized email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username.
	//
	// Returns [apperr.NotFound] if the username is available.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create persists a brand-new account.
	//
	// Returns [apperr.Conflict] if the email or username is already taken.
	Create(ctx context.Context, user *User) error
}

// SessionStore tracks revoked session tokens until they expire on their own.
type SessionStore interface {
	// Revoke marks a session as signed out for ttl.
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error

	// IsRevoked reports whether the session was signed out.
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
