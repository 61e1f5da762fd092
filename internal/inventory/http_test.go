// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/csemotors/internal/platform/ctxutil"
	"github.com/taibuivan/csemotors/internal/platform/sec"
	"github.com/taibuivan/csemotors/internal/session"
	"github.com/taibuivan/csemotors/internal/web/view"
)

type stubSessions struct {
	flashes map[string][]string
}

func (stub *stubSessions) Current(*http.Request) session.View { return session.View{} }

func (stub *stubSessions) IsAuthenticated(*http.Request) bool { return false }

func (stub *stubSessions) AddFlash(_ http.ResponseWriter, _ *http.Request, key, message string) error {
	if stub.flashes == nil {
		stub.flashes = make(map[string][]string)
	}
	stub.flashes[key] = append(stub.flashes[key], message)
	return nil
}

func (stub *stubSessions) PopFlashes(*http.Request) (map[string][]string, error) {
	flashes := stub.flashes
	stub.flashes = nil
	return flashes, nil
}

func (stub *stubSessions) Logout(http.ResponseWriter, *http.Request) error { return nil }

func (stub *stubSessions) TokenCookieName() string { return "jwt" }

func newHandler(t *testing.T) (*Handler, *Service) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	service := NewService(NewMemoryRepository("sedan", "suv"), logger)
	sessions := &stubSessions{}

	nav := func(context.Context) ([]view.NavItem, error) { return nil, nil }
	renderer, err := view.NewRenderer(nav, sessions, logger)
	require.NoError(t, err)

	return NewHandler(service, sessions, nil, renderer), service
}

func classificationPost(t *testing.T, name string) *http.Request {
	t.Helper()
	body := url.Values{FieldClassificationName: {name}}.Encode()
	request := httptest.NewRequest(http.MethodPost, "/inv/add-classification", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

/*
TestHandler_WriteRequiresClaims verifies a staff write without verified
claims in the context is refused before anything is stored.
*/
func TestHandler_WriteRequiresClaims(t *testing.T) {
	handler, service := newHandler(t)

	recorder := httptest.NewRecorder()
	handler.addClassification(recorder, classificationPost(t, "coupe"))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	classifications, err := service.Classifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, classifications, 2)
}

/*
TestHandler_WriteAudited verifies a staff write is logged against the
account named by the verified claims.
*/
func TestHandler_WriteAudited(t *testing.T) {
	handler, service := newHandler(t)

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	claims := &sec.AuthClaims{AccountID: 7, Role: sec.RoleEmployee}

	request := classificationPost(t, "Coupe")
	ctx := ctxutil.WithAuthUser(request.Context(), claims)
	ctx = ctxutil.WithLogger(ctx, logger)

	recorder := httptest.NewRecorder()
	handler.addClassification(recorder, request.WithContext(ctx))

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, managementPath, recorder.Header().Get("Location"))

	classifications, err := service.Classifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, classifications, 3)

	var entry map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(line, &decoded))
		if decoded["msg"] == "inventory_changed" {
			entry = decoded
		}
	}
	require.NotNil(t, entry)
	assert.Equal(t, "classification_added", entry["action"])
	assert.EqualValues(t, 7, entry["staff_id"])
	assert.Equal(t, "Employee", entry["staff_role"])
}
