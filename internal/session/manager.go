// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/csemotors/internal/platform/constants"
	"github.com/taibuivan/csemotors/internal/platform/ctxkey"
	"github.com/taibuivan/csemotors/internal/platform/ctxutil"
)

// Options configures a [Manager].
type Options struct {
	// Secret keys the HMAC that signs session id cookies.
	Secret string
	// TTL is the lifetime of a stored record after its last write.
	TTL time.Duration
	// Secure marks both cookies Secure (production).
	Secure bool
	// TokenCookieName is the cookie carrying the bearer token.
	TokenCookieName string
	// TokenTTL is the bearer token lifetime, used as its cookie max-age.
	TokenTTL time.Duration
}

// Manager owns the session lifecycle: load, login, logout and flashes.
//
// Every mutation is written through to the [Store] immediately, so a
// handler that redirects right after AddFlash or Login needs no extra step.
type Manager struct {
	store  Store
	opts   Options
	secret []byte
}

// state is the per-request holder placed in the context by [Manager.Load].
type state struct {
	id   string
	data *Data
}

// NewManager creates a Manager over store.
func NewManager(store Store, opts Options) (*Manager, error) {
	if opts.Secret == "" {
		return nil, errors.New("session: secret must not be empty")
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("session: ttl must be positive, got %s", opts.TTL)
	}
	if opts.TokenCookieName == "" {
		opts.TokenCookieName = "jwt"
	}
	return &Manager{store: store, opts: opts, secret: []byte(opts.Secret)}, nil
}

// TokenCookieName returns the name of the bearer token cookie.
func (manager *Manager) TokenCookieName() string {
	return manager.opts.TokenCookieName
}

// # Request Lifecycle

// Load resolves the session cookie into a record and attaches it to the
// request context. Unknown, expired or tampered ids yield an empty anonymous
// session; no cookie is written until something is stored.
func (manager *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		current := &state{data: &Data{}}

		if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
			if id, ok := manager.unsign(cookie.Value); ok {
				data, err := manager.store.Get(request.Context(), id)
				switch {
				case err == nil:
					current.id = id
					current.data = data
				case errors.Is(err, ErrNotFound):
				default:
					ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_load_failed",
						slog.Any("error", err),
					)
				}
			}
		}

		ctx := context.WithValue(request.Context(), ctxkey.KeySession, current)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// Current returns the session view model for the request.
func (manager *Manager) Current(request *http.Request) View {
	return stateFrom(request).data.view()
}

// IsAuthenticated reports whether the request carries a logged-in session.
func (manager *Manager) IsAuthenticated(request *http.Request) bool {
	return manager.Current(request).Authenticated
}

// # Login & Logout

// Login stores the snapshot under a fresh session id and sets both the
// session cookie and the bearer token cookie. The previous id, if any, is
// destroyed so a pre-login id cannot be replayed. Pending flashes survive.
func (manager *Manager) Login(writer http.ResponseWriter, request *http.Request, snapshot Snapshot, token string) error {
	current := stateFrom(request)

	id, err := newID()
	if err != nil {
		return err
	}

	data := &Data{
		Authenticated: true,
		Account:       &snapshot,
		Flash:         current.data.Flash,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := manager.store.Save(request.Context(), id, data, manager.opts.TTL); err != nil {
		return fmt.Errorf("session_login_save_failed: %w", err)
	}

	if current.id != "" {
		if err := manager.store.Delete(request.Context(), current.id); err != nil {
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_rotate_delete_failed",
				slog.Any("error", err),
			)
		}
	}

	current.id = id
	current.data = data

	manager.setSessionCookie(writer, id)
	manager.setTokenCookie(writer, token)
	return nil
}

// Refresh replaces the snapshot of the current authenticated session and
// reissues the token cookie, e.g. after the account changed its name or email.
func (manager *Manager) Refresh(writer http.ResponseWriter, request *http.Request, snapshot Snapshot, token string) error {
	current := stateFrom(request)
	if current.id == "" || !current.data.Authenticated {
		return errors.New("session: refresh requires an authenticated session")
	}

	current.data.Account = &snapshot
	current.data.UpdatedAt = time.Now().UTC()
	if err := manager.store.Save(request.Context(), current.id, current.data, manager.opts.TTL); err != nil {
		return fmt.Errorf("session_refresh_save_failed: %w", err)
	}

	manager.setTokenCookie(writer, token)
	return nil
}

// Logout destroys the stored record and clears both cookies together.
// Calling it on an anonymous request only clears the cookies.
func (manager *Manager) Logout(writer http.ResponseWriter, request *http.Request) error {
	current := stateFrom(request)

	var err error
	if current.id != "" {
		if deleteErr := manager.store.Delete(request.Context(), current.id); deleteErr != nil {
			err = fmt.Errorf("session_logout_delete_failed: %w", deleteErr)
		}
	}

	current.id = ""
	current.data = &Data{}

	manager.clearCookie(writer, constants.SessionCookieName)
	manager.clearCookie(writer, manager.opts.TokenCookieName)
	return err
}

// # Flash Channel

// AddFlash appends a message under key. An anonymous visitor without a
// stored session gets one so the message survives the redirect.
func (manager *Manager) AddFlash(writer http.ResponseWriter, request *http.Request, key, message string) error {
	current := stateFrom(request)

	if current.id == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		current.id = id
		manager.setSessionCookie(writer, id)
	}

	if current.data.Flash == nil {
		current.data.Flash = make(map[string][]string)
	}
	current.data.Flash[key] = append(current.data.Flash[key], message)
	current.data.UpdatedAt = time.Now().UTC()

	if err := manager.store.Save(request.Context(), current.id, current.data, manager.opts.TTL); err != nil {
		return fmt.Errorf("session_flash_save_failed: %w", err)
	}
	return nil
}

// PopFlashes returns and clears every pending flash message. Each message
// is returned exactly once.
func (manager *Manager) PopFlashes(request *http.Request) (map[string][]string, error) {
	current := stateFrom(request)
	if len(current.data.Flash) == 0 {
		return nil, nil
	}

	flashes := current.data.Flash
	current.data.Flash = nil

	if current.id == "" {
		return flashes, nil
	}
	if err := manager.store.Save(request.Context(), current.id, current.data, manager.opts.TTL); err != nil {
		return flashes, fmt.Errorf("session_flash_clear_failed: %w", err)
	}
	return flashes, nil
}

// # Cookies

func (manager *Manager) setSessionCookie(writer http.ResponseWriter, id string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    manager.sign(id),
		Path:     "/",
		MaxAge:   int(manager.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   manager.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (manager *Manager) setTokenCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     manager.opts.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(manager.opts.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   manager.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (manager *Manager) clearCookie(writer http.ResponseWriter, name string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   manager.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// # Id Signing

func (manager *Manager) sign(id string) string {
	return id + "." + manager.mac(id)
}

func (manager *Manager) unsign(value string) (string, bool) {
	separator := strings.LastIndexByte(value, '.')
	if separator <= 0 {
		return "", false
	}
	id, signature := value[:separator], value[separator+1:]
	if !hmac.Equal([]byte(signature), []byte(manager.mac(id))) {
		return "", false
	}
	return id, true
}

func (manager *Manager) mac(id string) string {
	digest := hmac.New(sha256.New, manager.secret)
	digest.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(digest.Sum(nil))
}

func newID() (string, error) {
	buffer := make([]byte, 32)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// stateFrom returns the request holder, or a detached empty one when
// [Manager.Load] did not run (e.g. panic pages rendered before it).
func stateFrom(request *http.Request) *state {
	if current, ok := request.Context().Value(ctxkey.KeySession).(*state); ok && current != nil {
		return current
	}
	return &state{data: &Data{}}
}
