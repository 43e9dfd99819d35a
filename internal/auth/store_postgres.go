// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/dashboard/internal/platform/database/schema"
	"github.com/taibuivan/dashboard/internal/platform/dberr"
)

// PostgresUserStore implements [UserStore] using pgx.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a new PostgreSQL implementation of [UserStore].
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

var (
	insertAccount = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.DashboardAccount.Table,
		schema.DashboardAccount.ColumnList(),
	)

	selectAccount = fmt.Sprintf(`SELECT %s FROM %s`,
		schema.DashboardAccount.ColumnList(),
		schema.DashboardAccount.Table,
	)
)

// Create persists a new account. Duplicate usernames or emails surface as a conflict.
func (store *PostgresUserStore) Create(ctx context.Context, user *User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := store.pool.Exec(ctx, insertAccount,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.CreatedAt,
	)
	return dberr.Wrap(err, "User")
}

// FindByEmail retrieves an account by its normalized email address.
func (store *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return store.findOne(ctx, schema.DashboardAccount.Email, email)
}

// FindByUsername retrieves an account by its username.
func (store *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return store.findOne(ctx, schema.DashboardAccount.Username, username)
}

func (store *PostgresUserStore) findOne(ctx context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectAccount, column)

	user := &User{}
	err := store.pool.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}
