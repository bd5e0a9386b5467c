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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Decoder decodes raw source bytes into a configuration map.
type Decoder interface {
	Decode(data []byte, v *map[string]any) error
}

// YAMLCodec decodes YAML documents.
type YAMLCodec struct{}

// Decode decodes the YAML-encoded data into v.
func (YAMLCodec) Decode(data []byte, v *map[string]any) error {
	return yaml.Unmarshal(data, v)
}

// TOMLCodec decodes TOML documents.
type TOMLCodec struct{}

// Decode decodes the TOML-encoded data into v.
func (TOMLCodec) Decode(data []byte, v *map[string]any) error {
	return toml.Unmarshal(data, v)
}

// EnvCodec decodes newline-separated KEY=VALUE pairs, as produced by the
// environment source. Keys are lowercased so UHTTPD_MAX_LINE_BYTES and
// max_line_bytes address the same setting.
type EnvCodec struct{}

// Decode decodes the KEY=VALUE lines into v. Lines without '=' are skipped.
func (EnvCodec) Decode(data []byte, v *map[string]any) error {
	out := make(map[string]any)
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.ToLower(key)] = value
	}
	*v = out
	return nil
}

// detectDecoder picks a decoder from the file extension.
func detectDecoder(path string) (Decoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return YAMLCodec{}, nil
	case ".toml":
		return TOMLCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}
