/*
   Copyright 2026 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"dirpx.dev/lcx/apis"
)

const (
	// DefaultPathSeparator represents the default for PathSeparator.
	// Dotted key paths match the common catalog authoring style.
	DefaultPathSeparator = "."
	// DefaultNamespaceDelimiter represents the default for NamespaceDelimiter.
	DefaultNamespaceDelimiter = "::"
	// DefaultMaxDepth represents the default for MaxDepth.
	// A value of 32 should be sufficient for all practical catalogs.
	DefaultMaxDepth = 32
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure separators and depth are valid.
	if cfg.PathSeparator == "" {
		cfg.PathSeparator = DefaultPathSeparator
	}
	if cfg.NamespaceDelimiter == "" {
		cfg.NamespaceDelimiter = DefaultNamespaceDelimiter
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		PathSeparator:      DefaultPathSeparator,
		NamespaceDelimiter: DefaultNamespaceDelimiter,
		MaxDepth:           DefaultMaxDepth,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithPathSeparator sets the PathSeparator option.
// An empty value resets to the default.
func WithPathSeparator(sep string) Option {
	return func(c *apis.Config) {
		if sep == "" {
			c.PathSeparator = DefaultPathSeparator
			return
		}
		c.PathSeparator = sep
	}
}

// WithNamespaceDelimiter sets the NamespaceDelimiter option.
// An empty value resets to the default.
func WithNamespaceDelimiter(delim string) Option {
	return func(c *apis.Config) {
		if delim == "" {
			c.NamespaceDelimiter = DefaultNamespaceDelimiter
			return
		}
		c.NamespaceDelimiter = delim
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = depth
	}
}
