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

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
)

// Config loads layered configuration from one or more sources. Later sources
// override earlier ones key by key.
type Config struct {
	sources []Source
	values  map[string]any
}

// Option configures a Config.
type Option func(*Config)

// WithSource appends an arbitrary source.
func WithSource(src Source) Option {
	return func(c *Config) {
		c.sources = append(c.sources, src)
	}
}

// WithFile appends a file source; the format is detected from the extension.
func WithFile(path string) Option {
	return WithSource(NewFile(path))
}

// WithFileContent appends an in-memory source decoded with decoder.
func WithFileContent(data []byte, decoder Decoder) Option {
	return WithSource(NewFileContent(data, decoder))
}

// WithEnv appends an environment variable source for the given prefix.
func WithEnv(prefix string) Option {
	return WithSource(NewOSEnv(prefix))
}

// New creates a Config with the given options. At least one source is
// required.
func New(opts ...Option) (*Config, error) {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.sources) == 0 {
		return nil, ErrNoSources
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads every source in order and merges the results, last source wins.
func (c *Config) Load(ctx context.Context) error {
	merged := make(map[string]any)
	for _, src := range c.sources {
		values, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load source: %w", err)
		}
		if err := mergo.Merge(&merged, values, mergo.WithOverride); err != nil {
			return fmt.Errorf("failed to merge source: %w", err)
		}
	}
	c.values = merged
	return nil
}

// Bind decodes the loaded values into v, honoring `config` struct tags.
// Values from string-only sources such as environment variables are converted
// to the target field types.
func (c *Config) Bind(v any) error {
	if c.values == nil {
		return ErrNotLoaded
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(c.values); err != nil {
		return fmt.Errorf("failed to bind configuration: %w", err)
	}
	return nil
}

// Values returns the merged key space. The map is nil before Load.
func (c *Config) Values() map[string]any {
	return c.values
}
