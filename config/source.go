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
	"fmt"
	"os"
	"strings"
)

// Source yields one layer of configuration data.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// File is a Source that reads a file or an in-memory byte slice.
type File struct {
	path    string
	data    []byte
	decoder Decoder
}

// NewFile creates a File source for path; the decoder is chosen by extension
// at load time.
func NewFile(path string) *File {
	return &File{path: os.ExpandEnv(path)}
}

// NewFileContent creates a File source over the given bytes, decoded with
// decoder. Useful for embedded configuration.
func NewFileContent(data []byte, decoder Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Load reads and decodes the file content.
func (f *File) Load(context.Context) (map[string]any, error) {
	data := f.data
	decoder := f.decoder

	if f.path != "" {
		var err error
		data, err = os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		if decoder == nil {
			decoder, err = detectDecoder(f.path)
			if err != nil {
				return nil, err
			}
		}
	}
	if decoder == nil {
		return nil, ErrUnknownFormat
	}

	var values map[string]any
	if err := decoder.Decode(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}
	return values, nil
}

// OSEnv is a Source that reads environment variables with a common prefix.
// The prefix is stripped and the remainder lowercased, so with prefix
// "UHTTPD_" the variable UHTTPD_ADDR becomes the key "addr".
type OSEnv struct {
	prefix  string
	decoder Decoder
}

// NewOSEnv creates an OSEnv source for the given prefix.
func NewOSEnv(prefix string) *OSEnv {
	return &OSEnv{prefix: prefix, decoder: EnvCodec{}}
}

// Load reads the matching environment variables.
func (e *OSEnv) Load(context.Context) (map[string]any, error) {
	matched := make([]string, 0, 8)
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, e.prefix) {
			continue
		}
		matched = append(matched, strings.TrimPrefix(env, e.prefix))
	}

	var values map[string]any
	if err := e.decoder.Decode([]byte(strings.Join(matched, "\n")), &values); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}
	return values, nil
}
