// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
	"github.com/taibuivan/dashboard/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "User"))

	t.Run("no_rows", func(t *testing.T) {
		appError := apperr.As(dberr.Wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "User"))
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
		assert.Equal(t, "User not found", appError.Message)
	})

	t.Run("unique_violation", func(t *testing.T) {
		err := dberr.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: "account_email_key"}, "User")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
	})

	t.Run("other", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := dberr.Wrap(cause, "User")
		assert.ErrorIs(t, err, cause)
		assert.False(t, apperr.IsAppError(err))
	})
}
