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

import "errors"

var (
	// ErrMalformedRequestLine indicates that the request line could not be parsed.
	ErrMalformedRequestLine = errors.New("malformed request line")

	// ErrMalformedHeader indicates a header line without a ':' separator.
	ErrMalformedHeader = errors.New("malformed header line")

	// ErrLineTooLong indicates that a request or header line exceeded the configured maximum length.
	ErrLineTooLong = errors.New("line exceeds maximum length")

	// ErrTooManyHeaders indicates that the request carried more header lines than allowed.
	ErrTooManyHeaders = errors.New("too many header lines")

	// ErrAlreadyCommitted indicates a status or header mutation after the first body write.
	ErrAlreadyCommitted = errors.New("response already committed")

	// ErrEmptyPattern indicates a route registration with an empty pattern.
	ErrEmptyPattern = errors.New("route pattern is empty")

	// ErrPatternNotRooted indicates a route pattern that does not begin with '/'.
	ErrPatternNotRooted = errors.New("route pattern must begin with '/'")

	// ErrEmptySegment indicates a route pattern containing an empty segment.
	ErrEmptySegment = errors.New("route pattern contains an empty segment")

	// ErrEmptyParamName indicates a parameter segment with no name, i.e. "<>".
	ErrEmptyParamName = errors.New("route parameter has no name")

	// ErrDuplicateParam indicates the same parameter name appearing twice in one pattern.
	ErrDuplicateParam = errors.New("duplicate parameter name in pattern")

	// ErrRoutesFrozen indicates a route registration after the server started accepting.
	ErrRoutesFrozen = errors.New("routes are frozen once the server has started")

	// ErrServerAlreadyStarted indicates that Start or Serve was called twice.
	ErrServerAlreadyStarted = errors.New("server already started")

	// ErrServerNotStarted indicates that Wait or Shutdown was called before Start.
	ErrServerNotStarted = errors.New("server not started")

	// ErrLineLimitInvalid indicates a non-positive maximum line length.
	ErrLineLimitInvalid = errors.New("max line length must be positive")

	// ErrHeaderLimitInvalid indicates a non-positive maximum header count.
	ErrHeaderLimitInvalid = errors.New("max header count must be positive")
)
