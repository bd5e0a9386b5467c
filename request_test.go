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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string, limits parserLimits) (*Request, error) {
	t.Helper()
	br := bufio.NewReaderSize(strings.NewReader(raw), limits.maxLineBytes)
	return readRequest(br, limits)
}

var testLimits = parserLimits{maxLineBytes: 1024, maxHeaders: 32}

func TestReadRequest_Basic(t *testing.T) {
	t.Parallel()

	req, err := parse(t, "GET /hello/alice HTTP/1.0\r\nHost: example\r\n\r\n", testLimits)
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/hello/alice", req.Path)
	assert.Equal(t, "HTTP/1.0", req.Proto)
	assert.Empty(t, req.Query)

	host, ok := req.Header("Host")
	require.True(t, ok)
	assert.Equal(t, "example", host)
}

func TestReadRequest_QuerySplit(t *testing.T) {
	t.Parallel()

	req, err := parse(t, "GET /search?q=a%20b&page=2 HTTP/1.0\r\n\r\n", testLimits)
	require.NoError(t, err)
	assert.Equal(t, "/search", req.Path)
	assert.Equal(t, "q=a%20b&page=2", req.Query, "query string is kept verbatim, no decoding")
}

func TestReadRequest_SkipsLeadingEmptyLines(t *testing.T) {
	t.Parallel()

	req, err := parse(t, "\r\n\r\nGET / HTTP/1.0\r\n\r\n", testLimits)
	require.NoError(t, err)
	assert.Equal(t, "/", req.Path)
}

func TestReadRequest_MalformedRequestLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"two tokens", "GET /\r\n\r\n"},
		{"four tokens", "GET / HTTP/1.0 extra\r\n\r\n"},
		{"double space yields empty token", "GET  / HTTP/1.0\r\n\r\n"},
		{"immediate EOF", ""},
		{"no line terminator", "GET / HTTP/1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parse(t, tt.raw, testLimits)
			assert.ErrorIs(t, err, ErrMalformedRequestLine)
		})
	}
}

func TestReadRequest_MethodAndVersionOpaque(t *testing.T) {
	t.Parallel()

	// No case normalization on the method and no version validation beyond
	// presence.
	req, err := parse(t, "gEt / SPDY/9\r\n\r\n", testLimits)
	require.NoError(t, err)
	assert.Equal(t, "gEt", req.Method)
	assert.Equal(t, "SPDY/9", req.Proto)
}

func TestReadRequest_LineTooLong(t *testing.T) {
	t.Parallel()

	long := "GET /" + strings.Repeat("a", 300) + " HTTP/1.0\r\n\r\n"
	_, err := parse(t, long, parserLimits{maxLineBytes: 64, maxHeaders: 32})
	assert.ErrorIs(t, err, ErrLineTooLong)
}

func TestReadRequest_HeaderLineTooLong(t *testing.T) {
	t.Parallel()

	raw := "GET / HTTP/1.0\r\nX-Big: " + strings.Repeat("v", 300) + "\r\n\r\n"
	_, err := parse(t, raw, parserLimits{maxLineBytes: 64, maxHeaders: 32})
	assert.ErrorIs(t, err, ErrLineTooLong)
}

func TestReadRequest_TooManyHeaders(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("GET / HTTP/1.0\r\n")
	for i := 0; i < 5; i++ {
		sb.WriteString("X-H: v\r\n")
	}
	sb.WriteString("\r\n")

	_, err := parse(t, sb.String(), parserLimits{maxLineBytes: 1024, maxHeaders: 4})
	assert.ErrorIs(t, err, ErrTooManyHeaders)
}

func TestReadRequest_MalformedHeader(t *testing.T) {
	t.Parallel()

	_, err := parse(t, "GET / HTTP/1.0\r\nno-separator-here\r\n\r\n", testLimits)
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestReadRequest_TruncatedHeaders(t *testing.T) {
	t.Parallel()

	_, err := parse(t, "GET / HTTP/1.0\r\nHost: example\r\n", testLimits)
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestReadRequest_HeaderLookup(t *testing.T) {
	t.Parallel()

	raw := "GET / HTTP/1.0\r\n" +
		"Content-Type:   text/plain  \r\n" +
		"X-Dup: one\r\n" +
		"x-dup: two\r\n" +
		"\r\n"
	req, err := parse(t, raw, testLimits)
	require.NoError(t, err)

	ct, ok := req.Header("content-TYPE")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, "text/plain", ct, "values are trimmed")

	dup, ok := req.Header("X-Dup")
	require.True(t, ok)
	assert.Equal(t, "two", dup, "last value wins on duplicates")

	_, ok = req.Header("Absent")
	assert.False(t, ok)
}

func TestReadRequest_BodyLeftUnread(t *testing.T) {
	t.Parallel()

	raw := "POST /upload HTTP/1.0\r\nContent-Length: 5\r\n\r\nhello-and-junk"
	req, err := parse(t, raw, testLimits)
	require.NoError(t, err)

	n, ok := req.ContentLength()
	require.True(t, ok)
	assert.Equal(t, int64(5), n)

	body := make([]byte, n)
	_, err = io.ReadFull(req.Body, body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestRequest_ContentLengthInvalid(t *testing.T) {
	t.Parallel()

	req, err := parse(t, "POST / HTTP/1.0\r\nContent-Length: nope\r\n\r\n", testLimits)
	require.NoError(t, err)
	_, ok := req.ContentLength()
	assert.False(t, ok)

	req, err = parse(t, "POST / HTTP/1.0\r\n\r\n", testLimits)
	require.NoError(t, err)
	_, ok = req.ContentLength()
	assert.False(t, ok)
}

func TestReadRequest_BareLFLineEnding(t *testing.T) {
	t.Parallel()

	req, err := parse(t, "GET /x HTTP/1.0\nHost: h\n\n", testLimits)
	require.NoError(t, err)
	assert.Equal(t, "/x", req.Path)
	host, ok := req.Header("host")
	require.True(t, ok)
	assert.Equal(t, "h", host)
}
