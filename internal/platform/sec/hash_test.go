// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/csemotors/internal/platform/sec"
)

/*
TestPasswordHasher_RoundTrip verifies that a hash verifies its own plaintext only.
*/
func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "Sup3r$ecretPass")
	require.NoError(t, err)
	assert.NotContains(t, hash, "Sup3r$ecretPass")

	ok, err := hasher.Verify(ctx, "Sup3r$ecretPass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify(ctx, "sup3r$ecretPass", hash)
	require.NoError(t, err)
	assert.False(t, ok, "wrong password must not verify")
}

/*
TestPasswordHasher_Salted verifies that hashing the same input twice yields different hashes.
*/
func TestPasswordHasher_Salted(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()

	first, err := hasher.Hash(ctx, "Sup3r$ecretPass")
	require.NoError(t, err)
	second, err := hasher.Hash(ctx, "Sup3r$ecretPass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestPasswordHasher_MutatedHash verifies that tampering with the digest fails closed
without surfacing an error.
*/
func TestPasswordHasher_MutatedHash(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "Sup3r$ecretPass")
	require.NoError(t, err)

	last := hash[len(hash)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	mutated := hash[:len(hash)-1] + string(replacement)

	ok, err := hasher.Verify(ctx, "Sup3r$ecretPass", mutated)
	require.NoError(t, err)
	assert.False(t, ok)
}

/*
TestPasswordHasher_MalformedHash verifies that a non-bcrypt string is reported as an error.
*/
func TestPasswordHasher_MalformedHash(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost, 1)

	ok, err := hasher.Verify(context.Background(), "anything", "not-a-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

/*
TestPasswordHasher_TooLong verifies the bcrypt input limit surfaces as a validation error.
*/
func TestPasswordHasher_TooLong(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost, 1)

	_, err := hasher.Hash(context.Background(), strings.Repeat("a", 80))
	require.Error(t, err)
}

/*
TestPasswordHasher_CancelledWait verifies a caller whose context is done does not hash.
*/
func TestPasswordHasher_CancelledWait(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, "Sup3r$ecretPass")
	assert.ErrorIs(t, err, context.Canceled)
}

/*
TestPasswordHasher_Concurrent verifies that parallel callers all complete through the bounded executor.
*/
func TestPasswordHasher_Concurrent(t *testing.T) {
	hasher := sec.NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			hash, err := hasher.Hash(ctx, "Sup3r$ecretPass")
			if err != nil {
				return
			}
			results[index], _ = hasher.Verify(ctx, "Sup3r$ecretPass", hash)
		}(i)
	}
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
}
