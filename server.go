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
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	// defaultMaxLineBytes bounds the request line and each header line.
	defaultMaxLineBytes = 1024
	// defaultMaxHeaders bounds the number of header lines per request.
	defaultMaxHeaders = 32
)

// Server owns the route table, binds and accepts TCP connections, and runs
// one connection handler per accepted connection. It is explicitly
// constructed and explicitly passed: there is no ambient singleton.
//
// Registration happens during setup only. Once the server starts accepting,
// the route table is frozen and further registrations fail, which is what
// makes lock-free dispatch across connections safe.
//
// Example:
//
//	srv := uhttpd.MustNew(uhttpd.WithMaxLineBytes(512))
//	srv.Register("/status", statusHandler)
//	if err := srv.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
type Server struct {
	routes routeTable

	logger            *slog.Logger
	metrics           *serverMetrics
	maxLineBytes      int
	maxHeaders        int
	notFoundBody      string
	internalErrorBody string

	frozen  atomic.Bool
	closing atomic.Bool
	wg      sync.WaitGroup

	mu       sync.Mutex
	ln       net.Listener
	done     chan struct{}
	serveErr error
}

// New creates a Server with optional configuration. Configuration is
// validated immediately rather than at serve time.
//
// For a version that panics instead of returning an error, use MustNew.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		logger:       noopLogger,
		maxLineBytes: defaultMaxLineBytes,
		maxHeaders:   defaultMaxHeaders,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("server configuration validation failed: %w", err)
	}
	return s, nil
}

// MustNew creates a Server and panics if configuration is invalid.
func MustNew(opts ...Option) *Server {
	s, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("uhttpd.MustNew: %v", err))
	}
	return s
}

func (s *Server) validate() error {
	if s.maxLineBytes <= 0 {
		return fmt.Errorf("%w: got %d", ErrLineLimitInvalid, s.maxLineBytes)
	}
	if s.maxHeaders <= 0 {
		return fmt.Errorf("%w: got %d", ErrHeaderLimitInvalid, s.maxHeaders)
	}
	return nil
}

// Register adds a route for pattern. Segments of the form <name> bind one
// path segment each; everything else matches literally. Registration fails
// once the server has started accepting connections.
func (s *Server) Register(pattern string, h HandlerFunc, opts ...RouteOption) error {
	if s.frozen.Load() {
		return ErrRoutesFrozen
	}
	return s.routes.register(pattern, h, opts...)
}

// RegisterCatchAll stores the fallback handler invoked when no route matches.
// Registering again replaces the previous catch-all. Registration fails once
// the server has started accepting connections.
func (s *Server) RegisterCatchAll(h HandlerFunc) error {
	if s.frozen.Load() {
		return ErrRoutesFrozen
	}
	s.routes.registerCatchAll(h)
	return nil
}

// Routes returns the registered routes in registration order.
func (s *Server) Routes() []RouteInfo {
	return s.routes.info()
}

// Start binds addr and begins accepting connections in the background. Use
// Wait to block until the accept loop exits, or Run for the blocking
// convenience form.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.mu.Lock()
	if s.ln != nil {
		s.mu.Unlock()
		ln.Close()
		return ErrServerAlreadyStarted
	}
	s.ln = ln
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.frozen.Store(true)
	s.logger.Debug("server listening", "addr", ln.Addr().String())

	go s.acceptLoop(ln)
	return nil
}

// Serve accepts connections on a caller-owned listener and blocks until the
// listener fails or the server is shut down.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.ln != nil {
		s.mu.Unlock()
		return ErrServerAlreadyStarted
	}
	s.ln = ln
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.frozen.Store(true)
	s.acceptLoop(ln)
	return s.serveErr
}

// Run binds addr and blocks until the server stops. It is Start followed by
// Wait, for the common case of a single dedicated network stack.
func (s *Server) Run(addr string) error {
	if err := s.Start(addr); err != nil {
		return err
	}
	return s.Wait()
}

// Wait blocks until the accept loop has exited and returns its terminal
// error, if any. A clean Shutdown yields nil.
func (s *Server) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return ErrServerNotStarted
	}
	<-done
	return s.serveErr
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops the accept loop and waits for in-flight connection handlers
// to return. Cancellation is cooperative only: a handler is interrupted at
// its next I/O suspension, never preempted mid-computation. The context
// bounds how long Shutdown waits for handlers to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return ErrServerNotStarted
	}

	s.closing.Store(true)
	if err := ln.Close(); err != nil {
		s.logger.Debug("listener close failed", "error", err)
	}

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
}

// acceptLoop accepts connections until the listener fails or is closed,
// spawning one handler goroutine per connection.
func (s *Server) acceptLoop(ln net.Listener) {
	defer close(s.done)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closing.Load() {
				return
			}
			s.logger.Error("accept failed", "error", err)
			s.serveErr = fmt.Errorf("accept: %w", err)
			return
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}
