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

package config

import (
	"context"

	"rivaas.dev/uhttpd"
)

// Settings holds the server settings a deployment typically tunes.
type Settings struct {
	// Addr is the listen address, for example ":8080".
	Addr string `config:"addr"`

	// MaxLineBytes bounds the request line and each header line.
	MaxLineBytes int `config:"max_line_bytes"`

	// MaxHeaders bounds the number of request headers.
	MaxHeaders int `config:"max_headers"`

	// NotFoundBody is the body sent with synthesized 404 responses.
	NotFoundBody string `config:"not_found_body"`

	// InternalErrorBody is the body sent with synthesized 500 responses.
	InternalErrorBody string `config:"internal_error_body"`
}

// DefaultSettings returns a Settings with the defaults applied.
func DefaultSettings() Settings {
	return Settings{
		Addr: ":8080",
	}
}

// LoadSettings loads and binds a Settings from the given sources.
func LoadSettings(opts ...Option) (Settings, error) {
	cfg, err := New(opts...)
	if err != nil {
		return Settings{}, err
	}
	if err := cfg.Load(context.Background()); err != nil {
		return Settings{}, err
	}
	s := DefaultSettings()
	if err := cfg.Bind(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ServerOptions converts the settings to server options, skipping zero
// values so the server's own defaults apply.
func (s Settings) ServerOptions() []uhttpd.Option {
	opts := make([]uhttpd.Option, 0, 4)
	if s.MaxLineBytes > 0 {
		opts = append(opts, uhttpd.WithMaxLineBytes(s.MaxLineBytes))
	}
	if s.MaxHeaders > 0 {
		opts = append(opts, uhttpd.WithMaxHeaders(s.MaxHeaders))
	}
	if s.NotFoundBody != "" {
		opts = append(opts, uhttpd.WithNotFoundBody(s.NotFoundBody))
	}
	if s.InternalErrorBody != "" {
		opts = append(opts, uhttpd.WithInternalErrorBody(s.InternalErrorBody))
	}
	return opts
}
