// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
)

// # Memory User Store

// MemoryUserStore keeps accounts in process memory. Safe for concurrent use.
type MemoryUserStore struct {
	mu         sync.RWMutex
	byEmail    map[string]*User
	byUsername map[string]*User
}

// NewMemoryUserStore returns an empty [MemoryUserStore].
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail:    make(map[string]*User),
		byUsername: make(map[string]*User),
	}
}

// FindByEmail implements [UserStore].
func (store *MemoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	user, ok := store.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

// FindByUsername implements [UserStore].
func (store *MemoryUserStore) FindByUsername(_ context.Context, username string) (*User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	user, ok := store.byUsername[username]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

// Create implements [UserStore].
func (store *MemoryUserStore) Create(_ context.Context, user *User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, taken := store.byEmail[user.Email]; taken {
		return apperr.Conflict("Email is already registered")
	}
	if _, taken := store.byUsername[user.Username]; taken {
		return apperr.Conflict("Username is already taken")
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	copied := *user
	store.byEmail[user.Email] = &copied
	store.byUsername[user.Username] = &copied
	return nil
}

// # Memory Session Store

// MemorySessionStore keeps revoked session ids in process memory.
type MemorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemorySessionStore returns an empty [MemorySessionStore].
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke implements [SessionStore].
func (store *MemorySessionStore) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.revoked[sessionID] = store.now().Add(ttl)
	return nil
}

// IsRevoked implements [SessionStore]. Expired entries are dropped on read.
func (store *MemorySessionStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	expiresAt, ok := store.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if store.now().After(expiresAt) {
		delete(store.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
