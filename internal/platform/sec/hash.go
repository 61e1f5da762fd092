// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
)

// PasswordHasher hashes and verifies passwords with bcrypt.
//
// # Concurrency
//
// bcrypt at cost 12 takes a few hundred milliseconds of CPU. A weighted
// semaphore caps how many hashes run at once so a burst of logins queues
// instead of starving every other request. Waiting honours the caller's
// context, so a timed-out request gives up its place.
type PasswordHasher struct {
	cost  int
	slots *semaphore.Weighted
}

// NewPasswordHasher creates a hasher with the given bcrypt cost and at most
// concurrency simultaneous hash operations.
func NewPasswordHasher(cost, concurrency int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &PasswordHasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(concurrency)),
	}
}

// Hash returns a salted bcrypt hash of plain.
func (hasher *PasswordHasher) Hash(context context.Context, plain string) (string, error) {
	if err := hasher.slots.Acquire(context, 1); err != nil {
		return "", fmt.Errorf("sec_hash_slot_wait_failed: %w", err)
	}
	defer hasher.slots.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), hasher.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   "account_password",
				Message: "Password must be at most 72 bytes.",
			})
		}
		return "", fmt.Errorf("sec_hash_failed: %w", err)
	}
	return string(hashed), nil
}

// Verify compares plain with an existing hash.
//
// A mismatch returns (false, nil). Only a malformed hash or a cancelled
// wait returns an error.
func (hasher *PasswordHasher) Verify(context context.Context, plain, hash string) (bool, error) {
	if err := hasher.slots.Acquire(context, 1); err != nil {
		return false, fmt.Errorf("sec_verify_slot_wait_failed: %w", err)
	}
	defer hasher.slots.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("sec_verify_malformed_hash: %w", err)
	}
}
