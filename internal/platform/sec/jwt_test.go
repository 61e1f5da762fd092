// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/csemotors/internal/platform/sec"
)

func newTokenService(t *testing.T, secret string, now *time.Time) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(secret, "csemotors", time.Hour)
	require.NoError(t, err)
	return service.WithClock(func() time.Time { return *now })
}

func employeeClaims() sec.AuthClaims {
	return sec.AuthClaims{
		AccountID: 12,
		FirstName: "Happy",
		LastName:  "Employee",
		Email:     "happy@340.edu",
		Role:      sec.RoleEmployee,
	}
}

/*
TestTokenService_RoundTrip verifies that issued claims come back unchanged.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	service := newTokenService(t, "signing-secret", &now)

	token, err := service.Issue(employeeClaims())
	require.NoError(t, err)

	claims, err := service.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, 12, claims.AccountID)
	assert.Equal(t, "Happy", claims.FirstName)
	assert.Equal(t, "Employee", claims.LastName)
	assert.Equal(t, "happy@340.edu", claims.Email)
	assert.Equal(t, sec.RoleEmployee, claims.Role)
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

/*
TestTokenService_Expired verifies that a token stops verifying once the ttl has passed.
*/
func TestTokenService_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	service := newTokenService(t, "signing-secret", &now)

	token, err := service.Issue(employeeClaims())
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	_, err = service.Verify(token)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = service.Verify(token)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
	assert.Equal(t, "expired", sec.TokenFailureKind(err))
}

/*
TestTokenService_Failures verifies each class of verify failure is typed.
*/
func TestTokenService_Failures(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	service := newTokenService(t, "signing-secret", &now)
	other := newTokenService(t, "another-secret", &now)

	foreign, err := other.Issue(employeeClaims())
	require.NoError(t, err)

	genuine, err := service.Issue(employeeClaims())
	require.NoError(t, err)
	parts := strings.Split(genuine, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name  string
		token string
		want  error
		kind  string
	}{
		{"garbage", "not-a-token", sec.ErrTokenMalformed, "malformed"},
		{"empty", "", sec.ErrTokenMalformed, "malformed"},
		{"other_secret", foreign, sec.ErrTokenSignature, "signature"},
		{"tampered_signature", tampered, sec.ErrTokenSignature, "signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, sec.TokenFailureKind(err))
		})
	}
}

/*
TestTokenService_Construction verifies configuration guards.
*/
func TestTokenService_Construction(t *testing.T) {
	_, err := sec.NewTokenService("", "csemotors", time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenService("secret", "csemotors", 0)
	assert.Error(t, err)

	service, err := sec.NewTokenService("secret", "csemotors", time.Hour)
	require.NoError(t, err)
	_, err = service.Issue(sec.AuthClaims{Role: sec.RoleClient})
	assert.Error(t, err, "a token without an account id must not be issued")
}
