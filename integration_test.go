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
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestServer starts srv on an ephemeral port and arranges shutdown.
func startTestServer(t *testing.T, srv *Server) net.Addr {
	t.Helper()
	require.NoError(t, srv.Start("127.0.0.1:0"))
	t.Cleanup(func() { shutdownServer(t, srv) })
	return srv.Addr()
}

// sendRaw writes one raw request and reads the full close-terminated
// response, the way an HTTP/1.0 client does.
func sendRaw(t *testing.T, addr net.Addr, raw string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(raw))
	require.NoError(t, err)

	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(resp)
}

func TestEndToEnd_HelloRoute(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	require.NoError(t, srv.Register("/hello/<name>", func(_ *Request, resp *ResponseWriter, params Params) {
		require.NoError(t, resp.Send([]byte("Hello, "+params.Get("name")+"!\n")))
		require.NoError(t, resp.Send([]byte("Greetings.\n")))
	}))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "GET /hello/alice HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 200 \r\n\r\nHello, alice!\nGreetings.\n", resp)
}

func TestEndToEnd_NotFoundSkipsHandlers(t *testing.T) {
	t.Parallel()

	var invoked atomic.Int64
	srv := MustNew()
	require.NoError(t, srv.Register("/known", func(*Request, *ResponseWriter, Params) {
		invoked.Add(1)
	}))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "GET /missing HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 404 Not Found\r\n\r\n", resp)
	assert.Zero(t, invoked.Load(), "no user handler runs for an unmatched route")
}

func TestEndToEnd_ConfiguredNotFoundBody(t *testing.T) {
	t.Parallel()

	srv := MustNew(WithNotFoundBody("nothing here\n"))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "GET /missing HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 404 Not Found\r\nContent-Type: text/plain; charset=utf-8\r\n\r\nnothing here\n", resp)
}

func TestEndToEnd_CatchAll(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	require.NoError(t, srv.RegisterCatchAll(func(req *Request, resp *ResponseWriter, params Params) {
		assert.Empty(t, params)
		require.NoError(t, resp.Send([]byte("fallback for "+req.Path)))
	}))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "GET /anything/at/all HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 200 \r\n\r\nfallback for /anything/at/all", resp)
}

func TestEndToEnd_QueryStringStrippedBeforeMatching(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	require.NoError(t, srv.Register("/search", func(req *Request, resp *ResponseWriter, _ Params) {
		require.NoError(t, resp.Send([]byte("q:"+req.Query)))
	}))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "GET /search?term=go HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 200 \r\n\r\nq:term=go", resp)
}

func TestEndToEnd_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	require.NoError(t, srv.Register("/submit", noopHandler, WithMethods("POST")))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "GET /submit HTTP/1.0\r\n\r\n")
	assert.True(t, strings.HasPrefix(resp, "HTTP/1.0 405 "), "got %q", resp)
}

func TestEndToEnd_NotImplementedMethod(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	require.NoError(t, srv.Register("/", noopHandler))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "TRACE / HTTP/1.0\r\n\r\n")
	assert.True(t, strings.HasPrefix(resp, "HTTP/1.0 501 "), "got %q", resp)
}

func TestEndToEnd_MalformedRequestGets400(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "NONSENSE\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 400 Bad Request\r\n\r\n", resp)
}

func TestEndToEnd_RequestLineTooLongNeverRoutes(t *testing.T) {
	t.Parallel()

	var invoked atomic.Int64
	srv := MustNew(WithMaxLineBytes(64))
	require.NoError(t, srv.RegisterCatchAll(func(*Request, *ResponseWriter, Params) {
		invoked.Add(1)
	}))
	addr := startTestServer(t, srv)

	raw := "GET /" + strings.Repeat("a", 500) + " HTTP/1.0\r\n\r\n"
	resp := sendRaw(t, addr, raw)
	assert.Equal(t, "HTTP/1.0 400 Bad Request\r\n\r\n", resp)
	assert.Zero(t, invoked.Load(), "length violations never reach routing")
}

func TestEndToEnd_HandlerPanicBeforeCommit(t *testing.T) {
	t.Parallel()

	srv := MustNew(WithInternalErrorBody("server error\n"))
	require.NoError(t, srv.Register("/explode", func(*Request, *ResponseWriter, Params) {
		panic("kaboom")
	}))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "GET /explode HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 500 Internal Server Error\r\nContent-Type: text/plain; charset=utf-8\r\n\r\nserver error\n", resp)
}

func TestEndToEnd_HandlerPanicAfterCommit(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	require.NoError(t, srv.Register("/explode", func(_ *Request, resp *ResponseWriter, _ Params) {
		require.NoError(t, resp.Send([]byte("partial")))
		panic("kaboom")
	}))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "GET /explode HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 200 \r\n\r\npartial", resp, "client sees the truncated body, no second status line")
}

func TestEndToEnd_SilentHandlerStillCommits(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	require.NoError(t, srv.Register("/quiet", func(_ *Request, resp *ResponseWriter, _ Params) {
		require.NoError(t, resp.SetStatus(204))
		require.NoError(t, resp.SetReason("No Content"))
	}))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "GET /quiet HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 204 No Content\r\n\r\n", resp)
}

func TestEndToEnd_HandlerReadsBody(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	require.NoError(t, srv.Register("/upload", func(req *Request, resp *ResponseWriter, _ Params) {
		n, ok := req.ContentLength()
		require.True(t, ok)
		body := make([]byte, n)
		_, err := io.ReadFull(req.Body, body)
		require.NoError(t, err)
		require.NoError(t, resp.Send([]byte("got:"+string(body))))
	}, WithMethods("POST")))
	addr := startTestServer(t, srv)

	resp := sendRaw(t, addr, "POST /upload HTTP/1.0\r\nContent-Length: 5\r\n\r\nhello")
	assert.Equal(t, "HTTP/1.0 200 \r\n\r\ngot:hello", resp)
}

func TestEndToEnd_ConcurrentConnections(t *testing.T) {
	t.Parallel()

	srv := MustNew()
	require.NoError(t, srv.Register("/hello/<name>", func(_ *Request, resp *ResponseWriter, params Params) {
		require.NoError(t, resp.Send([]byte(params.Get("name"))))
	}))
	addr := startTestServer(t, srv)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("client-%d", i)
			resp := sendRaw(t, addr, "GET /hello/"+name+" HTTP/1.0\r\n\r\n")
			assert.Equal(t, "HTTP/1.0 200 \r\n\r\n"+name, resp)
		}(i)
	}
	wg.Wait()
}
