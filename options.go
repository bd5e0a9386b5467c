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
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option defines functional options for server configuration.
type Option func(*Server)

// WithLogger sets the structured logger the server uses for connection
// lifecycle events. By default logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics registers the server's counters (accepted connections,
// responses by status, parse failures by reason, handler panics) against the
// given Prometheus registerer. By default no metrics are collected.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Server) {
		if reg != nil {
			s.metrics = newServerMetrics(reg)
		}
	}
}

// WithMaxLineBytes bounds the request line and each header line. A line
// exceeding the bound fails the request with a 400 response; the buffer is
// never resized. Default: 1024.
//
// Must be positive or validation will fail.
func WithMaxLineBytes(n int) Option {
	return func(s *Server) {
		s.maxLineBytes = n
	}
}

// WithMaxHeaders bounds the number of header lines per request. Default: 32.
//
// Must be positive or validation will fail.
func WithMaxHeaders(n int) Option {
	return func(s *Server) {
		s.maxHeaders = n
	}
}

// WithNotFoundBody sets the body of the synthesized 404 response sent when
// no route matches and no catch-all is registered. Default: empty.
func WithNotFoundBody(body string) Option {
	return func(s *Server) {
		s.notFoundBody = body
	}
}

// WithInternalErrorBody sets the body of the synthesized 500 response sent
// when a handler faults before the response commits. Default: empty.
func WithInternalErrorBody(body string) Option {
	return func(s *Server) {
		s.internalErrorBody = body
	}
}
