// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the shared session store.

Every page load reads the visitor's session record and most writes save it
back, so the pool is sized for one short round trip per request. Records
carry SESSION_TTL as their Redis expiry; several web nodes can share one
instance without any sweeping on their side.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// clientName labels the session connections in CLIENT LIST.
const clientName = "csemotors-sessions"

// Session lookups sit on the request path, so they fail fast instead of
// stalling a page behind a slow Redis.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 500 * time.Millisecond
	writeTimeout = 500 * time.Millisecond
	pingTimeout  = 2 * time.Second
)

// NewClient parses redisURL and returns a connected client for the session
// store. sessionTTL is only reported in the startup log.
func NewClient(context stdctx.Context, redisURL string, sessionTTL time.Duration, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("session_redis_url_invalid: %w", err)
	}

	options.ClientName = clientName
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.MaxIdleConns = 5

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	// A session store that cannot be reached would log every visitor out.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("session_redis_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Duration("session_ttl", sessionTTL),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping checks the session store for the readiness check.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("session_redis_ping_failed: %w", err)
	}

	return nil
}
