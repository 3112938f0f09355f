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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadNestedKeys(t *testing.T) {
	path := writeSettings(t, `
chef:
  api:
    host: chef.example.com
    port: 4443
    user: admin
  client:
    skipfile: /var/run/no_chef
`)

	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "chef.example.com", r.Option(KeyAPIHost, DefaultAPIHost))
	assert.Equal(t, "4443", r.Option(KeyAPIPort, DefaultAPIPort))
	assert.Equal(t, "admin", r.Option(KeyAPIUser, ""))
	assert.Equal(t, "/var/run/no_chef", r.Option(KeySkipfile, DefaultSkipfile))
}

func TestOptionDefaults(t *testing.T) {
	path := writeSettings(t, "chef:\n  api: {}\n")

	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIHost, r.Option(KeyAPIHost, DefaultAPIHost))
	assert.Equal(t, DefaultAPIPort, r.Option(KeyAPIPort, DefaultAPIPort))
	assert.Equal(t, DefaultSkipfile, r.Option(KeySkipfile, DefaultSkipfile))
	assert.Equal(t, "", r.Option(KeyAPIKey, ""))
}

func TestLoadMissingFile(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "fallback", r.Option(KeyAPIUser, "fallback"))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeSettings(t, "chef: [unbalanced")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	path := writeSettings(t, "chef:\n  api:\n    host: from-file\n")
	t.Setenv("CHEF_API_HOST", "from-env")

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", r.Option(KeyAPIHost, DefaultAPIHost))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "CHEF_API_HOST", envName(KeyAPIHost))
	assert.Equal(t, "CHEF_CLIENT_SKIPFILE", envName(KeySkipfile))
}

func TestStaticResolver(t *testing.T) {
	r := Static{KeyAPIHost: "static-host"}
	assert.Equal(t, "static-host", r.Option(KeyAPIHost, "x"))
	assert.Equal(t, "x", r.Option(KeyAPIPort, "x"))
}
