// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/csemotors/internal/platform/metrics"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/inv/detail/{invId}", "200"))

	metrics.RecordRequest("GET", "/inv/detail/{invId}", http.StatusOK, 12*time.Millisecond)

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/inv/detail/{invId}", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordRequest_Unmatched(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	metrics.RecordRequest("GET", "", http.StatusNotFound, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordCounters(t *testing.T) {
	loginBefore := testutil.ToFloat64(metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials"))
	deniedBefore := testutil.ToFloat64(metrics.AccessDeniedTotal.WithLabelValues("inventory", "role"))
	sweptBefore := testutil.ToFloat64(metrics.SessionsSweptTotal)

	metrics.RecordLogin("invalid_credentials")
	metrics.RecordAccessDenied("inventory", "role")
	metrics.RecordSessionsSwept(3)

	assert.Equal(t, loginBefore+1, testutil.ToFloat64(metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials")))
	assert.Equal(t, deniedBefore+1, testutil.ToFloat64(metrics.AccessDeniedTotal.WithLabelValues("inventory", "role")))
	assert.Equal(t, sweptBefore+3, testutil.ToFloat64(metrics.SessionsSweptTotal))
}

func TestHandler_Exposition(t *testing.T) {
	metrics.RecordRegistration("success")

	recorder := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "csemotors_registrations_total")
}
