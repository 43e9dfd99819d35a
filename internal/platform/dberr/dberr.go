// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/dashboard/internal/platform/apperr"
)

// uniqueViolation is the SQLSTATE raised for duplicate keys.
const uniqueViolation = "23505"

// Wrap inspects a database error and classifies it as an [apperr.AppError].
// It hides internal database details from the client.
//
//   - pgx.ErrNoRows: 404 for resource.
//   - unique violation: 409 for resource.
//   - anything else: the error is returned wrapped, to surface as a fault.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == uniqueViolation {
		conflict := apperr.Conflict(resource + " already exists")
		conflict.Cause = err
		return conflict
	}

	return fmt.Errorf("dberr: %s query failed: %w", resource, err)
}
