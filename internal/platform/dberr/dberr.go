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

	"github.com/taibuivan/csemotors/internal/platform/apperr"
)

// SQLSTATE codes the stores care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// ErrNotFound is returned when a queried row doesn't exist and the caller
// did not name the resource.
var ErrNotFound = apperr.NotFound("Resource")

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// The action is recorded in the cause chain for server-side logs only.
func Wrap(err error, action string) error {
	return wrap(err, action, ErrNotFound)
}

// WrapAs is [Wrap] with a named resource for the not-found case,
// e.g. WrapAs(err, "get_vehicle", "Vehicle") yields "Vehicle not found".
func WrapAs(err error, action, resource string) error {
	return wrap(err, action, apperr.NotFound(resource))
}

func wrap(err error, action string, notFound *apperr.AppError) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	// 2. Constraint violations surface as conflicts
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			conflict := apperr.Conflict("A record with the same value already exists.")
			conflict.Cause = fmt.Errorf("%s: %w", action, err)
			return conflict
		case codeForeignKeyViolation:
			invalid := apperr.ValidationError("A referenced record does not exist.")
			invalid.Cause = fmt.Errorf("%s: %w", action, err)
			return invalid
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
