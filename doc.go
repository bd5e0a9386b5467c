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

// Package uhttpd implements a small single-connection-at-a-time HTTP/1.0
// request server aimed at memory-constrained deployments.
//
// The server accepts TCP connections, parses exactly one HTTP/1.0 request per
// connection, dispatches it to a registered handler based on a path pattern,
// streams the response back, and closes the connection. There is no
// keep-alive, no pipelining, no chunked transfer encoding, and no TLS: the
// response body is terminated by connection close, as HTTP/1.0 intends.
//
// Request-line and header-line buffers are fixed-capacity. A line exceeding
// the configured maximum, or a request carrying more headers than allowed, is
// rejected with a 400 response instead of growing any buffer.
//
// # Routing
//
// Patterns are registered before the server starts. A pattern is a
// '/'-separated sequence of segments; a segment written as <name> matches
// exactly one path segment and binds its text:
//
//	srv := uhttpd.MustNew()
//	srv.Register("/hello/<name>", func(req *uhttpd.Request, resp *uhttpd.ResponseWriter, params uhttpd.Params) {
//	    resp.Send([]byte("Hello, " + params.Get("name") + "!\n"))
//	})
//	srv.Run(":8080")
//
// Routes are tried in registration order and the first structural match wins.
// A catch-all handler, registered with RegisterCatchAll, receives any request
// no route matches. Without a catch-all, unmatched requests get a 404.
//
// # Responses
//
// A ResponseWriter buffers status and headers until the first Send. The first
// body write commits the response: the status line and header block are
// flushed together with the body bytes, and any later SetStatus, SetReason,
// or AddHeader fails with ErrAlreadyCommitted. If a handler never writes, the
// server still commits the head before closing, so every connection yields a
// well-formed response.
//
// # Concurrency
//
// Each accepted connection is handled by its own goroutine. The route table
// is immutable once the server starts accepting, so request dispatch needs no
// locking. Shutdown is cooperative: closing the server stops the accept loop
// and waits for in-flight handlers to return.
package uhttpd
