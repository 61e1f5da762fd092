// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics defines the Prometheus collectors for the web application.
//
// All collectors live on a private [Registry] served by [Handler] at /metrics,
// so tests can read values without touching the global default registry.
//
// Metric naming follows Prometheus conventions:
//   - csemotors_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector of this package.
var Registry = prometheus.NewRegistry()

var (
	// HTTPRequestsTotal counts finished requests by method, route pattern and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csemotors_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds observes request latency by method and route pattern.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "csemotors_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// LoginAttemptsTotal counts login attempts by outcome.
	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csemotors_login_attempts_total",
			Help: "Total login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// RegistrationsTotal counts registration attempts by outcome.
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csemotors_registrations_total",
			Help: "Total registration attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// AccessDeniedTotal counts gate denials by gate and internal reason.
	AccessDeniedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csemotors_access_denied_total",
			Help: "Total requests denied by an access gate.",
		},
		[]string{"gate", "reason"},
	)

	// SessionsRevokedTotal counts sessions logged out because token and session disagreed.
	SessionsRevokedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csemotors_sessions_revoked_total",
			Help: "Sessions ended because the bearer token no longer matched.",
		},
		[]string{"reason"},
	)

	// SessionsSweptTotal counts expired in-memory sessions removed by the sweeper.
	SessionsSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "csemotors_sessions_swept_total",
			Help: "Expired sessions removed from the in-memory store.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		LoginAttemptsTotal,
		RegistrationsTotal,
		AccessDeniedTotal,
		SessionsRevokedTotal,
		SessionsSweptTotal,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// RecordRequest records one finished HTTP request.
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordLogin records a login attempt outcome ("success", "invalid_credentials", "error").
func RecordLogin(outcome string) {
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordRegistration records a registration outcome ("success", "duplicate", "error").
func RecordRegistration(outcome string) {
	RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordAccessDenied records a denial by gate ("login", "inventory") and reason.
func RecordAccessDenied(gate, reason string) {
	AccessDeniedTotal.WithLabelValues(gate, reason).Inc()
}

// RecordSessionRevoked records a reconciliation logout.
func RecordSessionRevoked(reason string) {
	SessionsRevokedTotal.WithLabelValues(reason).Inc()
}

// RecordSessionsSwept adds n swept sessions.
func RecordSessionsSwept(n int) {
	SessionsSweptTotal.Add(float64(n))
}
