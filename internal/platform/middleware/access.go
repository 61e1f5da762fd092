// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/csemotors/internal/platform/constants"
	"github.com/taibuivan/csemotors/internal/platform/ctxutil"
	"github.com/taibuivan/csemotors/internal/platform/metrics"
	"github.com/taibuivan/csemotors/internal/platform/sec"
	"github.com/taibuivan/csemotors/internal/session"
)

// Visitor-facing denial messages. The inventory message is the same for
// every failed check so a denial does not reveal which check failed.
const (
	LoginRequiredMessage   = "Please log in to access this page."
	InventoryDeniedMessage = "Please log in with an employee or administrator account to manage inventory."
)

// TokenVerifier verifies a bearer token string.
//
// # Why an interface?
//
// It decouples the gates from [sec.TokenService] so tests can inject
// tokens signed with their own clock.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.AuthClaims, error)
}

// Sessions is the slice of [session.Manager] the gates use.
type Sessions interface {
	Current(request *http.Request) session.View
	IsAuthenticated(request *http.Request) bool
	AddFlash(writer http.ResponseWriter, request *http.Request, key, message string) error
	Logout(writer http.ResponseWriter, request *http.Request) error
	TokenCookieName() string
}

// # Reconciliation

// ReconcileAuth keeps the session and the bearer token in agreement before
// any handler runs. Must be registered after the session Load middleware.
//
// # Flow
//  1. Neither an authenticated session nor a token: anonymous, continue.
//  2. Token present and valid for the same account as the session: attach
//     the claims to the context and continue.
//  3. Anything else (missing, invalid or expired token, missing session,
//     account mismatch): log out both channels and continue anonymously,
//     with the token cookie removed from the downstream request.
func ReconcileAuth(sessions Sessions, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookieName := sessions.TokenCookieName()
			authenticated := sessions.IsAuthenticated(request)
			token := tokenFrom(request, cookieName)

			if !authenticated && token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			var (
				claims *sec.AuthClaims
				reason string
				err    error
			)
			switch {
			case token == "":
				reason = "token_missing"
			default:
				claims, err = verifier.Verify(token)
				switch {
				case err != nil:
					reason = "token_" + sec.TokenFailureKind(err)
				case !authenticated:
					reason = "session_missing"
				case claims.AccountID != sessions.Current(request).ID:
					reason = "account_mismatch"
				}
			}

			logger := ctxutil.GetLogger(request.Context())

			if reason != "" {
				logger.WarnContext(request.Context(), "session_revoked", slog.String("reason", reason))
				metrics.RecordSessionRevoked(reason)
				if logoutErr := sessions.Logout(writer, request); logoutErr != nil {
					logger.ErrorContext(request.Context(), "session_logout_failed", slog.Any("error", logoutErr))
				}
				next.ServeHTTP(writer, withoutCookie(request, cookieName))
				return
			}

			ctxutil.SetAccountID(request.Context(), claims.AccountID)
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, logger.With(slog.Int("account_id", claims.AccountID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Gates

// CheckLogin requires an authenticated session. Otherwise it flashes
// [LoginRequiredMessage] and redirects to the login page.
func CheckLogin(sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if sessions.IsAuthenticated(request) {
				next.ServeHTTP(writer, request)
				return
			}

			metrics.RecordAccessDenied("login", "session_missing")
			deny(writer, request, sessions, LoginRequiredMessage)
		})
	}
}

// CheckInventoryAccess requires a bearer token cookie that verifies and
// names the Employee or Admin role. The decision uses the token only.
//
// # Flow
//  1. Read the token cookie.
//  2. Verify signature, issuer and expiry.
//  3. Check the role claim.
//  4. On any failure flash [InventoryDeniedMessage] and redirect to login;
//     the specific reason is logged and counted, never shown.
func CheckInventoryAccess(sessions Sessions, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			reason := ""
			var claims *sec.AuthClaims

			token := tokenFrom(request, sessions.TokenCookieName())
			if token == "" {
				reason = "token_missing"
			} else {
				verified, err := verifier.Verify(token)
				switch {
				case err != nil:
					reason = "token_" + sec.TokenFailureKind(err)
				case !verified.Role.AtLeast(sec.RoleEmployee):
					reason = "role"
				default:
					claims = verified
				}
			}

			if reason != "" {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "inventory_access_denied",
					slog.String("reason", reason),
				)
				metrics.RecordAccessDenied("inventory", reason)
				deny(writer, request, sessions, InventoryDeniedMessage)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// deny flashes message and redirects to the login page.
func deny(writer http.ResponseWriter, request *http.Request, sessions Sessions, message string) {
	if err := sessions.AddFlash(writer, request, constants.FlashError, message); err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "flash_store_failed", slog.Any("error", err))
	}
	http.Redirect(writer, request, constants.LoginPath, http.StatusFound)
}

// # Helpers

func tokenFrom(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// withoutCookie returns a shallow copy of request whose Cookie header no
// longer carries name.
func withoutCookie(request *http.Request, name string) *http.Request {
	kept := make([]*http.Cookie, 0)
	for _, cookie := range request.Cookies() {
		if cookie.Name != name {
			kept = append(kept, cookie)
		}
	}

	clone := request.Clone(request.Context())
	clone.Header.Del("Cookie")
	for _, cookie := range kept {
		clone.AddCookie(cookie)
	}
	return clone
}
