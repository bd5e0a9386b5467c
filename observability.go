// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package uhttpd

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// serverMetrics holds the server's Prometheus collectors. All methods are
// nil-safe so the hot path never branches on whether metrics are enabled.
type serverMetrics struct {
	connectionsTotal prometheus.Counter
	responsesTotal   *prometheus.CounterVec
	parseFailures    *prometheus.CounterVec
	handlerPanics    prometheus.Counter
}

// newServerMetrics builds and registers the collectors. Registration panics
// on collision, matching prometheus.MustRegister semantics: two servers
// sharing one registry is a wiring error worth failing loudly on.
func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uhttpd",
			Name:      "connections_total",
			Help:      "TCP connections accepted.",
		}),
		responsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uhttpd",
			Name:      "responses_total",
			Help:      "Responses committed, by status code.",
		}, []string{"code"}),
		parseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uhttpd",
			Name:      "parse_failures_total",
			Help:      "Requests rejected during parsing, by reason.",
		}, []string{"reason"}),
		handlerPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "uhttpd",
			Name:      "handler_panics_total",
			Help:      "Panics recovered from user handlers.",
		}),
	}
	reg.MustRegister(m.connectionsTotal, m.responsesTotal, m.parseFailures, m.handlerPanics)
	return m
}

func (m *serverMetrics) connAccepted() {
	if m == nil {
		return
	}
	m.connectionsTotal.Inc()
}

func (m *serverMetrics) responseWritten(status int) {
	if m == nil {
		return
	}
	m.responsesTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *serverMetrics) parseFailed(reason string) {
	if m == nil {
		return
	}
	m.parseFailures.WithLabelValues(reason).Inc()
}

func (m *serverMetrics) handlerPanicked() {
	if m == nil {
		return
	}
	m.handlerPanics.Inc()
}

// parseFailureReason maps a parser error onto a bounded metric label set.
func parseFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrLineTooLong):
		return "line_too_long"
	case errors.Is(err, ErrTooManyHeaders):
		return "too_many_headers"
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header"
	default:
		return "malformed_request_line"
	}
}
