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
	"bufio"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// drainLimit and drainDeadline bound the teardown read that follows a
	// rejected request. Closing with unread bytes in the kernel receive
	// queue makes TCP reset the connection, which can destroy the error
	// response before the client reads it.
	drainLimit    = 16 << 10
	drainDeadline = 250 * time.Millisecond
)

// Request methods the server refuses outright with 501, before routing.
// These exist in HTTP/1.0 clients but have no sensible handling in a
// single-shot request/response server.
var notImplementedMethods = []string{"CONNECT", "OPTIONS", "TRACE"}

// handleConn runs one connection end to end: parse the request, resolve a
// handler, invoke it, force the response commit, and close. Each parsing or
// dispatch failure short-circuits to a synthesized terminal response; nothing
// propagates to other connections.
func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	logger := s.logger.With("conn_id", uuid.NewString(), "remote", conn.RemoteAddr().String())
	s.metrics.connAccepted()

	br := bufio.NewReaderSize(conn, s.maxLineBytes)
	rw := newResponseWriter(conn)

	req, err := readRequest(br, parserLimits{maxLineBytes: s.maxLineBytes, maxHeaders: s.maxHeaders})
	if err != nil {
		logger.Warn("request parse failed", "error", err)
		s.metrics.parseFailed(parseFailureReason(err))
		s.synthesize(rw, http.StatusBadRequest, "")
		s.metrics.responseWritten(rw.Status())
		drainConn(conn, br)
		return
	}

	logger.Debug("request parsed", "method", req.Method, "path", req.Path)

	s.serveRequest(req, rw, logger)

	// A handler that never wrote still owes the client a response head.
	if err := rw.commit(); err != nil {
		logger.Debug("final commit failed", "error", err)
	}
	s.metrics.responseWritten(rw.Status())
	logger.Debug("connection closed", "status", rw.Status())
}

// serveRequest resolves a handler for the parsed request and dispatches it,
// synthesizing the degenerate responses (404, 405, 501) when no user code
// applies.
func (s *Server) serveRequest(req *Request, rw *ResponseWriter, logger *slog.Logger) {
	for _, m := range notImplementedMethods {
		if req.Method == m {
			s.synthesize(rw, http.StatusNotImplemented, "")
			return
		}
	}

	handler, params, outcome := s.routes.match(req.Method, req.Path)
	switch outcome {
	case matchFound:
		s.dispatch(handler, req, rw, params, logger)
	case matchWrongMethod:
		s.synthesize(rw, http.StatusMethodNotAllowed, "")
	case matchNone:
		logger.Debug("no route matched", "path", req.Path)
		s.synthesize(rw, http.StatusNotFound, s.notFoundBody)
	}
}

// dispatch invokes the user handler with panic containment. A panic before
// the response commits is converted into a 500; after the commit the status
// line is gone and the connection is simply torn down, leaving the client a
// truncated body, which is the accepted HTTP/1.0 degradation.
func (s *Server) dispatch(handler HandlerFunc, req *Request, rw *ResponseWriter, params Params, logger *slog.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("handler panicked", "path", req.Path, "panic", rec)
			s.metrics.handlerPanicked()
			if !rw.Committed() {
				s.synthesize(rw, http.StatusInternalServerError, s.internalErrorBody)
			}
		}
	}()
	handler(req, rw, params)
}

// drainConn discards what remains of a rejected request, bounded in both
// bytes and time, so the close that follows delivers the error response
// instead of a reset.
func drainConn(conn net.Conn, br *bufio.Reader) {
	_ = conn.SetReadDeadline(time.Now().Add(drainDeadline))
	_, _ = io.CopyN(io.Discard, br, drainLimit)
}

// synthesize writes a complete server-generated response. It is a no-op when
// the response is already committed, since the status line cannot be taken
// back.
func (s *Server) synthesize(rw *ResponseWriter, code int, body string) {
	if rw.Committed() {
		return
	}
	_ = rw.SetStatus(code)
	_ = rw.SetReason(http.StatusText(code))
	if body == "" {
		_ = rw.commit()
		return
	}
	_ = rw.AddHeader("Content-Type", "text/plain; charset=utf-8")
	_ = rw.Send([]byte(body))
}
