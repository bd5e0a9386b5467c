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

// Package config loads uhttpd server settings from files and environment
// variables.
//
// Sources are loaded in the order they are given and merged with
// last-source-wins semantics, so a typical setup is a config file followed by
// an environment override:
//
//	settings, err := config.LoadSettings(
//	    config.WithFile("uhttpd.yaml"),
//	    config.WithEnv("UHTTPD_"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := uhttpd.MustNew(settings.ServerOptions()...)
//
// YAML and TOML files are supported, selected by extension. Environment
// variables are matched by prefix; UHTTPD_MAX_LINE_BYTES=512 becomes the key
// "max_line_bytes".
package config
