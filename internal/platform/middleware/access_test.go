// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/csemotors/internal/platform/constants"
	"github.com/taibuivan/csemotors/internal/platform/ctxutil"
	"github.com/taibuivan/csemotors/internal/platform/middleware"
	"github.com/taibuivan/csemotors/internal/platform/sec"
	"github.com/taibuivan/csemotors/internal/session"
)

type fixture struct {
	store    *session.MemoryStore
	sessions *session.Manager
	tokens   *sec.TokenService
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: session.NewMemoryStore(),
		now:   time.Now(),
	}

	sessions, err := session.NewManager(f.store, session.Options{
		Secret:          "session-secret",
		TTL:             time.Hour,
		TokenCookieName: "jwt",
		TokenTTL:        time.Hour,
	})
	require.NoError(t, err)
	f.sessions = sessions

	tokens, err := sec.NewTokenService("token-secret", constants.AuthIssuer, time.Hour)
	require.NoError(t, err)
	f.tokens = tokens.WithClock(func() time.Time { return f.now })

	return f
}

// login performs a real login and returns the cookies a browser would keep.
func (f *fixture) login(t *testing.T, id int, role sec.Role) []*http.Cookie {
	t.Helper()

	token, err := f.tokens.Issue(sec.AuthClaims{AccountID: id, FirstName: "Test", Role: role})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/account/login", nil)
	recorder := httptest.NewRecorder()
	f.sessions.Load(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		snapshot := session.Snapshot{AccountID: id, FirstName: "Test", Role: role}
		require.NoError(t, f.sessions.Login(writer, request, snapshot, token))
	})).ServeHTTP(recorder, request)

	return recorder.Result().Cookies()
}

// chain mirrors the production ordering: Load, ReconcileAuth, then gate.
func (f *fixture) chain(gate func(http.Handler) http.Handler, final http.HandlerFunc) http.Handler {
	handler := http.Handler(final)
	if gate != nil {
		handler = gate(handler)
	}
	handler = middleware.ReconcileAuth(f.sessions, f.tokens)(handler)
	return f.sessions.Load(handler)
}

func do(handler http.Handler, cookies []*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/inv/", nil)
	for _, cookie := range cookies {
		if cookie.MaxAge >= 0 {
			request.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
		}
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

/*
TestCheckInventoryAccess verifies only verified Employee or Admin tokens pass
and every denial looks the same to the visitor.
*/
func TestCheckInventoryAccess(t *testing.T) {
	tests := []struct {
		name    string
		role    sec.Role
		anon    bool
		age     time.Duration
		allowed bool
	}{
		{name: "anonymous visitor", anon: true},
		{name: "client role", role: sec.RoleClient},
		{name: "employee role", role: sec.RoleEmployee, allowed: true},
		{name: "admin role", role: sec.RoleAdmin, allowed: true},
		{name: "expired admin token", role: sec.RoleAdmin, age: 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			var cookies []*http.Cookie
			if !tt.anon {
				cookies = f.login(t, 5, tt.role)
			}
			f.now = f.now.Add(tt.age)

			reached := false
			handler := f.chain(middleware.CheckInventoryAccess(f.sessions, f.tokens), func(writer http.ResponseWriter, request *http.Request) {
				reached = true
				claims := ctxutil.GetAuthUser(request.Context())
				require.NotNil(t, claims)
				assert.Equal(t, tt.role, claims.Role)
			})

			recorder := do(handler, cookies)

			if tt.allowed {
				assert.True(t, reached)
				assert.Equal(t, http.StatusOK, recorder.Code)
				return
			}

			assert.False(t, reached)
			assert.Equal(t, http.StatusFound, recorder.Code)
			assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))

			// The flash rides the session cookie into the login page.
			next := do(f.sessions.Load(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				flashes, err := f.sessions.PopFlashes(request)
				require.NoError(t, err)
				assert.Equal(t, []string{middleware.InventoryDeniedMessage}, flashes[constants.FlashError])
			})), recorder.Result().Cookies())
			assert.Equal(t, http.StatusOK, next.Code)
		})
	}
}

/*
TestCheckLogin verifies the session gate redirects anonymous visitors with a flash.
*/
func TestCheckLogin(t *testing.T) {
	f := newFixture(t)

	reached := false
	handler := f.chain(middleware.CheckLogin(f.sessions), func(writer http.ResponseWriter, request *http.Request) {
		reached = true
	})

	recorder := do(handler, nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
	assert.NotNil(t, cookieNamed(recorder.Result().Cookies(), constants.SessionCookieName))

	recorder = do(handler, f.login(t, 9, sec.RoleClient))
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestReconcileAuth_ExpiredToken verifies an expired token ends the session on the next
request and the visitor continues anonymously.
*/
func TestReconcileAuth_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, 4, sec.RoleEmployee)
	f.now = f.now.Add(2 * time.Hour)

	handler := f.chain(nil, func(writer http.ResponseWriter, request *http.Request) {
		assert.False(t, f.sessions.IsAuthenticated(request))
		assert.Nil(t, ctxutil.GetAuthUser(request.Context()))
		_, err := request.Cookie("jwt")
		assert.ErrorIs(t, err, http.ErrNoCookie)
	})

	recorder := do(handler, cookies)
	assert.Equal(t, http.StatusOK, recorder.Code)

	jwtCookie := cookieNamed(recorder.Result().Cookies(), "jwt")
	sessionCookie := cookieNamed(recorder.Result().Cookies(), constants.SessionCookieName)
	require.NotNil(t, jwtCookie)
	require.NotNil(t, sessionCookie)
	assert.Less(t, jwtCookie.MaxAge, 0)
	assert.Less(t, sessionCookie.MaxAge, 0)
	assert.Equal(t, 0, f.store.Len())
}

/*
TestReconcileAuth_Disagreement covers the remaining mismatches between the two channels.
*/
func TestReconcileAuth_Disagreement(t *testing.T) {
	f := newFixture(t)

	loggedIn := f.login(t, 4, sec.RoleClient)
	other := f.login(t, 8, sec.RoleClient)

	tests := []struct {
		name    string
		cookies []*http.Cookie
	}{
		{
			name:    "session without token",
			cookies: []*http.Cookie{cookieNamed(loggedIn, constants.SessionCookieName)},
		},
		{
			name:    "token without session",
			cookies: []*http.Cookie{cookieNamed(loggedIn, "jwt")},
		},
		{
			name:    "token for another account",
			cookies: []*http.Cookie{cookieNamed(loggedIn, constants.SessionCookieName), cookieNamed(other, "jwt")},
		},
		{
			name:    "garbage token",
			cookies: []*http.Cookie{cookieNamed(other, constants.SessionCookieName), {Name: "jwt", Value: "not-a-token"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := f.chain(nil, func(writer http.ResponseWriter, request *http.Request) {
				assert.False(t, f.sessions.IsAuthenticated(request))
				assert.Nil(t, ctxutil.GetAuthUser(request.Context()))
			})

			recorder := do(handler, tt.cookies)
			jwtCookie := cookieNamed(recorder.Result().Cookies(), "jwt")
			require.NotNil(t, jwtCookie)
			assert.Less(t, jwtCookie.MaxAge, 0)
		})
	}
}

/*
TestReconcileAuth_Agreement verifies a consistent pair passes through with claims attached.
*/
func TestReconcileAuth_Agreement(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, 4, sec.RoleAdmin)

	handler := f.chain(nil, func(writer http.ResponseWriter, request *http.Request) {
		assert.True(t, f.sessions.IsAuthenticated(request))
		claims := ctxutil.GetAuthUser(request.Context())
		require.NotNil(t, claims)
		assert.Equal(t, 4, claims.AccountID)
	})

	recorder := do(handler, cookies)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies())
}

/*
TestStructuredLogger_AccountID verifies the access log names the account that
ReconcileAuth verified further down the chain, and only that account.
*/
func TestStructuredLogger_AccountID(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, 4, sec.RoleEmployee)

	finished := func(t *testing.T, logs *bytes.Buffer) map[string]any {
		t.Helper()
		var entry map[string]any
		for _, line := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
			var decoded map[string]any
			require.NoError(t, json.Unmarshal(line, &decoded))
			if decoded["msg"] == "http_request_finished" {
				entry = decoded
			}
		}
		require.NotNil(t, entry)
		return entry
	}

	tests := []struct {
		name      string
		cookies   []*http.Cookie
		accountID any
	}{
		{name: "verified session", cookies: cookies, accountID: float64(4)},
		{name: "anonymous visitor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, nil))

			handler := middleware.StructuredLogger(logger, nil)(f.chain(nil, func(http.ResponseWriter, *http.Request) {}))
			do(handler, tt.cookies)

			entry := finished(t, &logs)
			assert.Equal(t, tt.accountID, entry["account_id"])
		})
	}
}
