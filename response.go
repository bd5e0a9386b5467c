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
	"fmt"
	"io"
	"strconv"
)

// headerField preserves insertion order and allows repeated names, which a
// map would collapse.
type headerField struct {
	name  string
	value string
}

// ResponseWriter assembles and streams one HTTP/1.0 response. Status and
// headers stay mutable until the first Send; that call commits the response
// by flushing the status line and header block together with the first body
// bytes. After the commit, mutations fail with ErrAlreadyCommitted and
// further sends stream verbatim to the connection.
//
// There is no length prefixing and no chunking: the end of the body is
// signalled by connection close. Writes go straight to the transport, so
// memory stays bounded regardless of response size.
type ResponseWriter struct {
	w         io.Writer
	status    int
	reason    string
	headers   []headerField
	committed bool
}

// newResponseWriter returns a writer with status 200 and an empty reason
// phrase. The space preceding the reason is emitted even when the phrase is
// empty, as RFC 9112 requires: "HTTP/1.0 200 \r\n".
func newResponseWriter(w io.Writer) *ResponseWriter {
	return &ResponseWriter{w: w, status: 200}
}

// SetStatus sets the status code to send. It fails with ErrAlreadyCommitted
// once the status line has been written.
func (rw *ResponseWriter) SetStatus(code int) error {
	if rw.committed {
		return ErrAlreadyCommitted
	}
	rw.status = code
	return nil
}

// SetReason sets the optional reason phrase. It fails with
// ErrAlreadyCommitted once the status line has been written.
func (rw *ResponseWriter) SetReason(reason string) error {
	if rw.committed {
		return ErrAlreadyCommitted
	}
	rw.reason = reason
	return nil
}

// AddHeader appends a header to the response. Repeated names are allowed and
// are emitted in insertion order. It fails with ErrAlreadyCommitted once the
// header block has been written.
func (rw *ResponseWriter) AddHeader(name, value string) error {
	if rw.committed {
		return ErrAlreadyCommitted
	}
	rw.headers = append(rw.headers, headerField{name: name, value: value})
	return nil
}

// Status returns the status code that was, or will be, sent.
func (rw *ResponseWriter) Status() int {
	return rw.status
}

// Committed reports whether the status line and headers have been flushed.
func (rw *ResponseWriter) Committed() bool {
	return rw.committed
}

// Send writes body bytes. The first call serializes the status line and all
// headers and writes them together with p as one logical write; subsequent
// calls write p directly with no additional framing. Send may block until
// the transport accepts the bytes.
func (rw *ResponseWriter) Send(p []byte) error {
	if !rw.committed {
		rw.committed = true
		head := rw.appendHead(make([]byte, 0, 128+len(p)))
		if _, err := rw.w.Write(append(head, p...)); err != nil {
			return fmt.Errorf("write response head: %w", err)
		}
		return nil
	}
	if _, err := rw.w.Write(p); err != nil {
		return fmt.Errorf("write response body: %w", err)
	}
	return nil
}

// Write makes ResponseWriter an io.Writer so handlers can use fmt.Fprintf
// and friends. It is equivalent to Send.
func (rw *ResponseWriter) Write(p []byte) (int, error) {
	if err := rw.Send(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// commit flushes the status line and header block with an empty body. It is
// a no-op when the response is already committed; the connection handler
// calls it before close so a handler that never writes still produces a
// well-formed response.
func (rw *ResponseWriter) commit() error {
	if rw.committed {
		return nil
	}
	rw.committed = true
	if _, err := rw.w.Write(rw.appendHead(make([]byte, 0, 128))); err != nil {
		return fmt.Errorf("write response head: %w", err)
	}
	return nil
}

// appendHead serializes "HTTP/1.0 <status> <reason>\r\n", each header as
// "<Name>: <Value>\r\n", and the terminating blank line.
func (rw *ResponseWriter) appendHead(b []byte) []byte {
	b = append(b, "HTTP/1.0 "...)
	b = strconv.AppendInt(b, int64(rw.status), 10)
	b = append(b, ' ')
	b = append(b, rw.reason...)
	b = append(b, '\r', '\n')
	for _, f := range rw.headers {
		b = append(b, f.name...)
		b = append(b, ':', ' ')
		b = append(b, f.value...)
		b = append(b, '\r', '\n')
	}
	return append(b, '\r', '\n')
}
