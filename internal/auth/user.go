// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the sign-in and registration flows of the dashboard.

Architecture:

  - Service: registration, login and logout use cases (bcrypt + session tokens).
  - Stores: users in PostgreSQL (or memory for local runs), revoked sessions
    in Redis (or memory).
  - Handler: the HTML form endpoints, depending only on [Authenticator].
*/
package auth

import "time"

// # Domain Entities

// User represents a registered dashboard account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the outcome of a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// # Field Identifiers

// Form field names shared by validation and the HTML forms.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldTerms    = "terms"
)
