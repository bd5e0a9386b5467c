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
	"time"

	"github.com/spf13/cast"
)

// Get returns the raw value for key, or nil if the key is absent or Load has
// not been called.
func (c *Config) Get(key string) any {
	if c.values == nil {
		return nil
	}
	return c.values[key]
}

// GetString returns the value for key converted to a string.
func (c *Config) GetString(key string) string {
	return cast.ToString(c.Get(key))
}

// GetInt returns the value for key converted to an int.
func (c *Config) GetInt(key string) int {
	return cast.ToInt(c.Get(key))
}

// GetBool returns the value for key converted to a bool.
func (c *Config) GetBool(key string) bool {
	return cast.ToBool(c.Get(key))
}

// GetDuration returns the value for key converted to a time.Duration.
func (c *Config) GetDuration(key string) time.Duration {
	return cast.ToDuration(c.Get(key))
}
