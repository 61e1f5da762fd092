// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/csemotors/internal/platform/ctxkey"
	"github.com/taibuivan/csemotors/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithAuthUser returns a new context carrying verified token claims.
func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, claims)
}

// GetAuthUser retrieves the verified [*sec.AuthClaims] from the [context.Context].
// It returns nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// # Request Identity

// Identity is a per-request slot filled in once the account behind the
// request is known. The access log reads it after the handler chain returns,
// so it sees what inner middleware learned.
type Identity struct {
	AccountID int
}

// WithIdentity returns a new context carrying an empty [*Identity] slot.
func WithIdentity(ctx context.Context) (context.Context, *Identity) {
	identity := &Identity{}
	return context.WithValue(ctx, ctxkey.KeyIdentity, identity), identity
}

// SetAccountID records id in the request's identity slot. It is a no-op
// when the context carries no slot.
func SetAccountID(ctx context.Context, id int) {
	if identity, ok := ctx.Value(ctxkey.KeyIdentity).(*Identity); ok && identity != nil {
		identity.AccountID = id
	}
}
