// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and form
parsing, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/ctxutil"
	"github.com/taibuivan/csemotors/internal/platform/sec"
)

// maxFormBytes bounds urlencoded bodies.
const maxFormBytes = 1 << 20

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam parses a positive integer URL parameter.

Returns:
  - int: The parsed identifier
  - error: apperr.NotFound when the segment is not a positive integer, since
    no resource can live at such a path
*/
func IntParam(request *http.Request, name, resource string) (int, error) {
	raw := Param(request, name)

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return value, nil
}

/*
ParseForm parses an urlencoded body with a size cap.
*/
func ParseForm(writer http.ResponseWriter, request *http.Request) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxFormBytes)
	if err := request.ParseForm(); err != nil {
		return apperr.ValidationError(fmt.Sprintf("Invalid form submission: %v", err))
	}
	return nil
}

/*
Form returns a trimmed form value. ParseForm must have been called.
*/
func Form(request *http.Request, name string) string {
	return strings.TrimSpace(request.PostForm.Get(name))
}

/*
RawForm returns a form value untouched. Passwords are read this way so
surrounding whitespace stays significant.
*/
func RawForm(request *http.Request, name string) string {
	return request.PostForm.Get(name)
}

/*
Claims extracts the verified token claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request carries verified claims.

Returns:
  - *sec.AuthClaims: The verified claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := Claims(request)
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}
