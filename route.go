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
	"slices"
	"strings"
)

// HandlerFunc handles one request. The ResponseWriter is live for the
// duration of the call; params holds the text bound to <name> segments of the
// matched pattern and is empty for literal-only routes and the catch-all.
type HandlerFunc func(req *Request, resp *ResponseWriter, params Params)

// Params maps parameter names to the literal path segment text they matched.
// It is valid only for the duration of a single handler invocation.
type Params map[string]string

// Get returns the value bound to name, or "" if the pattern has no such
// parameter.
func (p Params) Get(name string) string {
	return p[name]
}

// segmentKind discriminates the two segment matcher forms.
type segmentKind uint8

const (
	segmentLiteral segmentKind = iota
	segmentParam
)

// segment is one compiled matcher of a route pattern. For segmentLiteral,
// text is the exact segment to match; for segmentParam it is the parameter
// name to bind.
type segment struct {
	kind segmentKind
	text string
}

// route is a compiled pattern plus its handler. Segment count is stored so
// candidate paths of a different arity are rejected without walking segments.
type route struct {
	pattern    string
	segments   []segment
	paramCount int
	methods    []string // nil matches any method
	handler    HandlerFunc
}

// RouteOption configures a single route at registration time.
type RouteOption func(*route)

// WithMethods restricts the route to the given request methods. Comparison is
// exact: methods are opaque tokens and no case folding is applied. A route
// registered without WithMethods matches every method.
func WithMethods(methods ...string) RouteOption {
	return func(rt *route) {
		rt.methods = slices.Clone(methods)
	}
}

// RouteInfo describes one registered route for introspection (startup
// banners, debugging). Methods is nil for routes that match any method.
type RouteInfo struct {
	Pattern string
	Methods []string
}

// compilePattern splits pattern into segment matchers. A segment of the form
// <name> becomes a parameter matcher; anything else is a literal. The pattern
// must be non-empty, begin with '/', and contain no empty segments, no empty
// parameter names, and no repeated parameter names.
func compilePattern(pattern string) ([]segment, int, error) {
	if pattern == "" {
		return nil, 0, ErrEmptyPattern
	}
	if pattern[0] != '/' {
		return nil, 0, fmt.Errorf("%w: %q", ErrPatternNotRooted, pattern)
	}

	// "/" compiles to zero segments, matching only the root path.
	if pattern == "/" {
		return nil, 0, nil
	}

	parts := strings.Split(pattern[1:], "/")
	segments := make([]segment, 0, len(parts))
	paramCount := 0
	var seen []string

	for _, part := range parts {
		if part == "" {
			return nil, 0, fmt.Errorf("%w: %q", ErrEmptySegment, pattern)
		}
		if strings.HasPrefix(part, "<") && strings.HasSuffix(part, ">") {
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, 0, fmt.Errorf("%w: %q", ErrEmptyParamName, pattern)
			}
			if slices.Contains(seen, name) {
				return nil, 0, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, pattern)
			}
			seen = append(seen, name)
			segments = append(segments, segment{kind: segmentParam, text: name})
			paramCount++
			continue
		}
		segments = append(segments, segment{kind: segmentLiteral, text: part})
	}

	return segments, paramCount, nil
}

// splitPath splits a request path into segments using the same rules as
// compilePattern, so a path and a pattern of equal arity line up one to one.
// "/" yields zero segments.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// allowsMethod reports whether the route accepts the given request method.
func (rt *route) allowsMethod(method string) bool {
	return rt.methods == nil || slices.Contains(rt.methods, method)
}

// match checks segs against the compiled pattern and, on success, returns the
// bound parameters. Parameter segments accept any non-empty segment text.
func (rt *route) match(segs []string) (Params, bool) {
	if len(segs) != len(rt.segments) {
		return nil, false
	}
	var params Params
	for i, s := range rt.segments {
		switch s.kind {
		case segmentLiteral:
			if segs[i] != s.text {
				return nil, false
			}
		case segmentParam:
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(Params, rt.paramCount)
			}
			params[s.text] = segs[i]
		}
	}
	if params == nil {
		params = Params{}
	}
	return params, true
}

// matchOutcome classifies the result of a route table lookup.
type matchOutcome uint8

const (
	// matchFound means a handler was resolved (route or catch-all).
	matchFound matchOutcome = iota
	// matchWrongMethod means the path structure matched at least one route
	// but none of them accepts the request method, and no catch-all is
	// registered.
	matchWrongMethod
	// matchNone means nothing matched and no catch-all is registered.
	matchNone
)

// routeTable is the ordered route registry. It is owned by the Server and is
// never mutated after the server starts accepting connections, so lookups
// need no synchronization.
type routeTable struct {
	routes   []*route
	catchAll HandlerFunc
}

// register compiles pattern and appends the route. Two routes with identical
// compiled patterns are both retained; match uses first-registered-wins.
func (t *routeTable) register(pattern string, h HandlerFunc, opts ...RouteOption) error {
	segments, paramCount, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	rt := &route{
		pattern:    pattern,
		segments:   segments,
		paramCount: paramCount,
		handler:    h,
	}
	for _, opt := range opts {
		opt(rt)
	}
	t.routes = append(t.routes, rt)
	return nil
}

// registerCatchAll stores the fallback handler. Last registration wins.
func (t *routeTable) registerCatchAll(h HandlerFunc) {
	t.catchAll = h
}

// match scans routes in registration order and returns the first whose
// structure and method both accept the request. When only the method
// disagrees the catch-all still applies; without one the outcome is
// matchWrongMethod so the caller can answer 405 rather than 404.
func (t *routeTable) match(method, path string) (HandlerFunc, Params, matchOutcome) {
	segs := splitPath(path)
	pathMatched := false

	for _, rt := range t.routes {
		params, ok := rt.match(segs)
		if !ok {
			continue
		}
		if rt.allowsMethod(method) {
			return rt.handler, params, matchFound
		}
		pathMatched = true
	}

	if t.catchAll != nil {
		return t.catchAll, Params{}, matchFound
	}
	if pathMatched {
		return nil, nil, matchWrongMethod
	}
	return nil, nil, matchNone
}

// info returns a snapshot of the registered routes in registration order.
func (t *routeTable) info() []RouteInfo {
	infos := make([]RouteInfo, 0, len(t.routes))
	for _, rt := range t.routes {
		infos = append(infos, RouteInfo{Pattern: rt.pattern, Methods: slices.Clone(rt.methods)})
	}
	return infos
}
