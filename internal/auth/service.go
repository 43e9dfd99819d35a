// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
	"github.com/taibuivan/dashboard/internal/platform/sec"
	"github.com/taibuivan/dashboard/internal/platform/validate"
	"github.com/taibuivan/dashboard/pkg/slug"
	"github.com/taibuivan/dashboard/pkg/uuidv7"
)

// ErrInvalidCredentials is returned for an unknown account or a wrong password.
// The message is identical in both cases to prevent account enumeration.
var ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")

// TokenIssuer defines the contract for signing and verifying session tokens.
type TokenIssuer interface {
	GenerateSessionToken(userID, displayName string, timeToLive time.Duration) (string, error)
	VerifyToken(tokenString string) (*sec.SessionClaims, error)
}

// Service implements the authentication use cases.
type Service struct {
	users      UserStore
	sessions   SessionStore
	tokens     TokenIssuer
	sessionTTL time.Duration
	now        func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(users UserStore, sessions SessionStore, tokens TokenIssuer, sessionTTL time.Duration) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data submitted by the sign-up form.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	AcceptedTerms bool
}

// Register validates, hashes and persists a new account, then signs it in.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	displayName := strings.TrimSpace(input.Username)
	username := slug.From(displayName)

	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, displayName).
		MaxLen(FieldUsername, displayName, 50).
		Custom(FieldUsername, displayName != "" && username == "", "Must contain letters or digits").
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		MinLen(FieldPassword, input.Password, 8).
		Custom(FieldPassword, len(input.Password) > sec.MaxPasswordBytes, "Password is too long").
		Custom(FieldTerms, !input.AcceptedTerms, "You must accept the privacy policy & terms")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Uniqueness checks give precise messages; the store still enforces them
	if _, err := service.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("auth: email lookup failed: %w", err)
	}

	if _, err := service.users.FindByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("auth: username lookup failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	user := &User{
		ID:           uuidv7.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		CreatedAt:    service.now(),
	}

	if err := service.users.Create(ctx, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth: failed to create account: %w", err)
	}

	return service.issue(user)
}

// # Authentication Flow

// LoginInput holds the credentials submitted by the sign-in form.
type LoginInput struct {
	// Login is an email address or a username.
	Login    string
	Password string
}

// Login verifies credentials and issues a session token.
func (service *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	login := strings.TrimSpace(input.Login)
	if login == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := service.users.FindByEmail(ctx, normalizeEmail(login))
	if isNotFound(err) {
		user, err = service.users.FindByUsername(ctx, slug.From(login))
	}
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: account lookup failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return service.issue(user)
}

// Logout revokes the session carried by token. Unknown or expired tokens are ignored.
func (service *Service) Logout(ctx context.Context, token string) error {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil
	}

	remaining := service.sessionTTL
	if claims.ExpiresAt != nil {
		remaining = claims.ExpiresAt.Sub(service.now())
	}
	if err := service.sessions.Revoke(ctx, claims.SessionID(), remaining); err != nil {
		return fmt.Errorf("auth: failed to revoke session: %w", err)
	}
	return nil
}

// VerifySession validates a session token and checks it was not signed out.
func (service *Service) VerifySession(ctx context.Context, token string) (*sec.SessionClaims, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := service.sessions.IsRevoked(ctx, claims.SessionID())
	if err != nil {
		return nil, fmt.Errorf("auth: revocation lookup failed: %w", err)
	}
	if revoked {
		return nil, apperr.Unauthorized("Session has been signed out")
	}

	return claims, nil
}

// issue signs a session token for user.
func (service *Service) issue(user *User) (*Session, error) {
	token, err := service.tokens.GenerateSessionToken(user.ID, user.DisplayName, service.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to issue session: %w", err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: service.now().Add(service.sessionTTL),
		User:      user,
	}, nil
}

// # Helpers

// normalizeEmail trims and case-folds an address so lookups are case-insensitive.
// A Caser is stateful, so one is created per call.
func normalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func isNotFound(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.Code == "NOT_FOUND"
}
