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
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Request is one parsed HTTP/1.0 request. It is constructed by the request
// parser, is immutable afterwards, and lives for a single handler invocation.
//
// Method, Path, and Proto are kept as opaque tokens: no case normalization is
// applied to the method and no percent-decoding is performed on the path.
// Anything after the first '?' in the request target is split off into Query
// before route matching.
type Request struct {
	Method string
	Path   string
	Query  string
	Proto  string

	// Body exposes the connection bytes following the header block. The
	// server never reads it; a handler expecting a body must consume it
	// itself, typically up to ContentLength.
	Body io.Reader

	headers map[string]string
}

// Header returns the value of the named header. Lookup is case-insensitive
// and, for headers repeated in the request, yields the last value seen.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.headers[strings.ToLower(name)]
	return v, ok
}

// ContentLength parses the Content-Length header. The second return is false
// when the header is absent or not a valid non-negative integer.
func (r *Request) ContentLength() (int64, bool) {
	v, ok := r.Header("Content-Length")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parserLimits bounds the memory a single request may consume while parsing.
type parserLimits struct {
	maxLineBytes int
	maxHeaders   int
}

// readBoundedLine reads one line from br and strips the terminator. The
// reader's buffer size is the line bound: a line that overflows it fails with
// ErrLineTooLong instead of growing any buffer.
func readBoundedLine(br *bufio.Reader) (string, error) {
	s, err := br.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return "", ErrLineTooLong
		}
		return "", err
	}
	return trimLineEnding(string(s)), nil
}

func trimLineEnding(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// readRequest consumes exactly one request head from br and returns the
// structured Request. br must have been created with a buffer of
// limits.maxLineBytes. The body, if any, is left unread on br.
func readRequest(br *bufio.Reader, limits parserLimits) (*Request, error) {
	// Skip empty lines preceding the request line; some clients send a
	// stray CRLF after a previous request body.
	var line string
	for {
		var err error
		line, err = readBoundedLine(br)
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				return nil, fmt.Errorf("request line: %w", ErrLineTooLong)
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedRequestLine, err)
		}
		if line != "" {
			break
		}
	}

	method, target, proto, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	path, query := target, ""
	if i := strings.IndexByte(target, '?'); i >= 0 {
		path, query = target[:i], target[i+1:]
	}

	headers, err := readHeaders(br, limits)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:  method,
		Path:    path,
		Query:   query,
		Proto:   proto,
		Body:    br,
		headers: headers,
	}, nil
}

// parseRequestLine splits a request line into its three tokens. Tokens are
// separated by single spaces; the version token is required to be present
// but is not otherwise validated.
func parseRequestLine(line string) (method, target, proto string, err error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}
	return parts[0], parts[1], parts[2], nil
}

// readHeaders reads header lines until the terminating blank line. Names are
// trimmed and lowercased for case-insensitive lookup; duplicate names keep
// the last value.
func readHeaders(br *bufio.Reader, limits parserLimits) (map[string]string, error) {
	headers := make(map[string]string, 8)
	count := 0
	for {
		line, err := readBoundedLine(br)
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				return nil, fmt.Errorf("header line: %w", ErrLineTooLong)
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		if line == "" {
			return headers, nil
		}

		count++
		if count > limits.maxHeaders {
			return nil, ErrTooManyHeaders
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
		}
		headers[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
}
