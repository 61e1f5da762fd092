// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package view_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/session"
	"github.com/taibuivan/csemotors/internal/web/view"
)

/*
TestFormatting verifies currency, number and title formatting.
*/
func TestFormatting(t *testing.T) {
	assert.Equal(t, "$25,990.00", view.USD(25990))
	assert.Equal(t, "$0.50", view.USD(0.5))
	assert.Equal(t, "74,750", view.Number(74750))
	assert.Equal(t, "0", view.Number(0))
	assert.Equal(t, "Suv", view.Title("suv"))
	assert.Equal(t, "Sport Truck", view.Title("sport truck"))
}

/*
TestFieldError verifies the first message for a field is returned.
*/
func TestFieldError(t *testing.T) {
	errs := []apperr.FieldError{
		{Field: "inv_make", Message: "Make is required."},
		{Field: "inv_year", Message: "Valid year required."},
	}
	assert.Equal(t, "Valid year required.", view.FieldError(errs, "inv_year"))
	assert.Empty(t, view.FieldError(errs, "inv_price"))
}

type stubSessions struct {
	view    session.View
	flashes map[string][]string
}

func (stub *stubSessions) Current(*http.Request) session.View { return stub.view }

func (stub *stubSessions) PopFlashes(*http.Request) (map[string][]string, error) {
	flashes := stub.flashes
	stub.flashes = nil
	return flashes, nil
}

func newRenderer(t *testing.T, sessions view.Sessions, nav view.NavSource) *view.Renderer {
	t.Helper()
	if nav == nil {
		nav = func(context.Context) ([]view.NavItem, error) {
			return []view.NavItem{{ID: 1, Name: "sedan"}, {ID: 2, Name: "suv"}}, nil
		}
	}
	renderer, err := view.NewRenderer(nav, sessions, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	return renderer
}

/*
TestRenderer_Render verifies the layout chrome: navigation, session and flashes.
*/
func TestRenderer_Render(t *testing.T) {
	sessions := &stubSessions{
		view:    session.View{ID: 3, FirstName: "Ann", Authenticated: true},
		flashes: map[string][]string{"message": {"Saved."}},
	}
	renderer := newRenderer(t, sessions, nil)

	recorder := httptest.NewRecorder()
	renderer.Render(recorder, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, view.PageHome, view.Page{Title: "Home"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))
	body := recorder.Body.String()
	assert.Contains(t, body, "Welcome Ann")
	assert.Contains(t, body, `href="/inv/type/2"`)
	assert.Contains(t, body, "Suv")
	assert.Contains(t, body, "Saved.")
}

/*
TestRenderer_Error verifies status mapping and that causes never reach the page.
*/
func TestRenderer_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		contains string
	}{
		{"not found", apperr.NotFound("Vehicle"), http.StatusNotFound, "Vehicle not found"},
		{"forbidden", apperr.Forbidden("Nope."), http.StatusForbidden, "Nope."},
		{"internal", apperr.Internal(errors.New("db password leaked")), http.StatusInternalServerError, view.GenericErrorMessage},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, view.GenericErrorMessage},
	}

	renderer := newRenderer(t, &stubSessions{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			renderer.Error(recorder, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.contains)
			assert.NotContains(t, recorder.Body.String(), "leaked")
		})
	}
}

/*
TestRenderer_Invalid verifies validation details fill the field list.
*/
func TestRenderer_Invalid(t *testing.T) {
	renderer := newRenderer(t, &stubSessions{}, nil)

	err := apperr.ValidationError("Validation failed", apperr.FieldError{Field: "classification_name", Message: "Must be at least 3 characters."})
	recorder := httptest.NewRecorder()
	renderer.Invalid(recorder, httptest.NewRequest(http.MethodPost, "/inv/add-classification", nil), view.PageAddClassification,
		view.Page{Title: "Add New Classification", Form: map[string]string{"classification_name": "ev"}}, err)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Must be at least 3 characters.")
	assert.Contains(t, recorder.Body.String(), `value="ev"`)
}

/*
TestRenderer_NavFailure verifies a broken navigation source yields the error page.
*/
func TestRenderer_NavFailure(t *testing.T) {
	calls := 0
	renderer := newRenderer(t, &stubSessions{}, func(context.Context) ([]view.NavItem, error) {
		calls++
		return nil, errors.New("database down")
	})

	recorder := httptest.NewRecorder()
	renderer.Render(recorder, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, view.PageHome, view.Page{Title: "Home"})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), view.GenericErrorMessage)
	assert.Equal(t, 2, calls)
}
