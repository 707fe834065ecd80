// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the Prometheus collectors Parley records into.
type Metrics struct {
	LoginAttempts      *prometheus.CounterVec
	TokenVerifications *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// NewMetrics creates the Parley collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_login_attempts_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		TokenVerifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_token_verifications_total",
				Help: "Total number of API key verifications by outcome",
			},
			[]string{"outcome"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parley_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(m.LoginAttempts, m.TokenVerifications, m.HTTPRequests, m.HTTPDuration)
	return m
}

// RecordLogin counts a login attempt. outcome is "success" or a failure name.
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordTokenVerification counts an API key check.
func (m *Metrics) RecordTokenVerification(outcome string) {
	if m == nil {
		return
	}
	m.TokenVerifications.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest counts a finished request and observes its latency.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
