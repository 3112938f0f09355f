// Copyright 2025 Tom Barlow
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

// Package config resolves named configuration options for chefctl.
//
// Options are identified by dotted keys (e.g. "chef.api.host") and resolved
// from three sources in precedence order: environment variables
// (CHEF_API_HOST style), the settings file, then the caller-supplied default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Option keys consumed by chefctl.
const (
	KeyAPIHost    = "chef.api.host"
	KeyAPIPort    = "chef.api.port"
	KeyAPIKey     = "chef.api.key"
	KeyAPIUser    = "chef.api.user"
	KeyAPITimeout = "chef.api.timeout"
	KeySkipfile   = "chef.client.skipfile"
	KeyTimeout    = "chef.client.timeout"
)

// Defaults for options that have one.
const (
	DefaultAPIHost  = "localhost"
	DefaultAPIPort  = "4000"
	DefaultSkipfile = "/etc/chef/no_chef_run"
)

// Resolver resolves a named option to a value, falling back to the given
// default when the option is not configured. No validation or type coercion
// is performed; callers interpret the value.
type Resolver interface {
	Option(name, def string) string
}

// Static is a fixed-map Resolver, used in tests and for programmatic setup.
type Static map[string]string

// Option returns the configured value or def when absent.
func (s Static) Option(name, def string) string {
	if v, ok := s[name]; ok {
		return v
	}
	return def
}

// FileResolver resolves options from a YAML settings file with environment
// variable overrides.
type FileResolver struct {
	values map[string]string
}

// SettingsPath returns the default path to the chefctl settings file.
func SettingsPath() (string, error) {
	if p := os.Getenv("CHEFCTL_CONFIG"); p != "" {
		return p, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "chefctl", "config.yaml"), nil
}

// Load reads the settings file at path and returns a resolver over it.
// If path is empty, the default settings path is used. A missing file is not
// an error; the resolver then serves environment overrides and defaults only.
func Load(path string) (*FileResolver, error) {
	if path == "" {
		var err error
		path, err = SettingsPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileResolver{values: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	values := make(map[string]string)
	flatten("", doc, values)
	return &FileResolver{values: values}, nil
}

// Option returns the resolved value for name, or def when absent.
// An environment variable derived from the key (chef.api.host -> CHEF_API_HOST)
// takes precedence over the settings file.
func (r *FileResolver) Option(name, def string) string {
	if v := os.Getenv(envName(name)); v != "" {
		return v
	}
	if v, ok := r.values[name]; ok {
		return v
	}
	return def
}

// envName converts a dotted option key to its environment variable form.
func envName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
}

// flatten walks a nested YAML document and records scalar leaves under
// dotted keys.
func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		switch v := value.(type) {
		case map[string]interface{}:
			flatten(full, v, out)
		case nil:
			// Explicit null means unset.
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}
