// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useConfig points ORGCTL_CFG_FILE at a testdata file, clears the
// resident Config and loads the file.
func useConfig(t *testing.T, testdataFile string) {
	t.Helper()

	abs, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err)

	t.Setenv("ORGCTL_CFG_FILE", abs)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	_, _ = Load()
}

func TestLoad(t *testing.T) {
	t.Run("flat keys", func(t *testing.T) {
		useConfig(t, "simple.yaml")

		assert.NotEmpty(t, Config.Source)
		assert.Equal(t, "acme", Config.Data["org"])
		assert.Equal(t, "github.toml", Config.Data["manifest"])
	})

	t.Run("nested command sections", func(t *testing.T) {
		useConfig(t, "nested.yaml")

		gd, ok := Config.Data["gd"].(map[string]interface{})
		require.True(t, ok, "gd should be a map")
		assert.Equal(t, "github.toml", gd["manifest"])
		assert.Equal(t, "acme", gd["org"])

		bd, ok := Config.Data["bd"].(map[string]interface{})
		require.True(t, ok, "bd should be a map")
		assert.Equal(t, "bitwarden.toml", bd["manifest"])
	})

	t.Run("yaml scalar types survive", func(t *testing.T) {
		useConfig(t, "mixed-types.yaml")

		assert.Equal(t, "test-project", Config.Data["name"])
		assert.Equal(t, 1, Config.Data["version"])
		assert.Equal(t, true, Config.Data["enabled"])
		assert.Equal(t, 30.5, Config.Data["timeout"])

		tags, ok := Config.Data["tags"].([]interface{})
		require.True(t, ok)
		assert.Len(t, tags, 2)
	})

	t.Run("empty file loads with no data", func(t *testing.T) {
		t.Setenv("ORGCTL_CFG_FILE", mustAbs(t, "empty.yaml"))
		Config = Type{}
		t.Cleanup(func() { Config = Type{} })

		cfg, err := Load()
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.Source)
		assert.Empty(t, cfg.Data)
	})

	t.Run("missing file errors", func(t *testing.T) {
		t.Setenv("ORGCTL_CFG_FILE", "/nonexistent/path/orgctl.yaml")
		Config = Type{}
		t.Cleanup(func() { Config = Type{} })

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})

	t.Run("directory errors", func(t *testing.T) {
		t.Setenv("ORGCTL_CFG_FILE", "testdata")
		Config = Type{}
		t.Cleanup(func() { Config = Type{} })

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "points to a directory")
	})

	t.Run("broken yaml errors", func(t *testing.T) {
		t.Setenv("ORGCTL_CFG_FILE", mustAbs(t, "invalid.yaml"))
		Config = Type{}
		t.Cleanup(func() { Config = Type{} })

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("explicit path arguments are ignored", func(t *testing.T) {
		useConfig(t, "simple.yaml")

		cfg, err := Load("arg1", "arg2")
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.Source)
	})
}

func mustAbs(t *testing.T, testdataFile string) string {
	t.Helper()

	abs, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err)
	return abs
}

func TestGetString(t *testing.T) {
	t.Run("flat and nested keys", func(t *testing.T) {
		useConfig(t, "nested.yaml")

		val, err := GetString("gd.manifest")
		require.NoError(t, err)
		assert.Equal(t, "github.toml", val)
	})

	t.Run("default covers a missing key", func(t *testing.T) {
		useConfig(t, "simple.yaml")

		val, err := GetString("missing", "default-value")
		require.NoError(t, err)
		assert.Equal(t, "default-value", val)
	})

	t.Run("missing key without default errors", func(t *testing.T) {
		useConfig(t, "simple.yaml")

		_, err := GetString("missing")
		assert.Error(t, err)
	})

	t.Run("more than one default errors", func(t *testing.T) {
		useConfig(t, "simple.yaml")

		_, err := GetString("missing", "first", "second")
		assert.Error(t, err)
	})

	t.Run("non-string value errors", func(t *testing.T) {
		useConfig(t, "mixed-types.yaml")

		_, err := GetString("version")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a string")
	})

	t.Run("lazy loads when nothing is resident", func(t *testing.T) {
		useConfig(t, "simple.yaml")
		Config = Type{}

		val, err := GetString("org")
		require.NoError(t, err)
		assert.Equal(t, "acme", val)
	})
}

func TestGetInt(t *testing.T) {
	t.Run("int value", func(t *testing.T) {
		useConfig(t, "mixed-types.yaml")

		val, err := GetInt("version")
		require.NoError(t, err)
		assert.Equal(t, 1, val)
	})

	t.Run("float truncates to int", func(t *testing.T) {
		useConfig(t, "mixed-types.yaml")

		val, err := GetInt("timeout")
		require.NoError(t, err)
		assert.Equal(t, 30, val)
	})

	t.Run("nested key", func(t *testing.T) {
		useConfig(t, "nested.yaml")

		val, err := GetInt("gd.cache_hours")
		require.NoError(t, err)
		assert.Equal(t, 5, val)
	})

	t.Run("default covers a missing key", func(t *testing.T) {
		useConfig(t, "simple.yaml")

		val, err := GetInt("missing", 60)
		require.NoError(t, err)
		assert.Equal(t, 60, val)
	})

	t.Run("missing key without default errors", func(t *testing.T) {
		useConfig(t, "simple.yaml")

		_, err := GetInt("missing")
		assert.Error(t, err)
	})

	t.Run("more than one default errors", func(t *testing.T) {
		useConfig(t, "simple.yaml")

		_, err := GetInt("missing", 10, 20)
		assert.Error(t, err)
	})

	t.Run("non-int value errors", func(t *testing.T) {
		useConfig(t, "mixed-types.yaml")

		_, err := GetInt("name")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an int")
	})

	t.Run("namespace resolves unqualified keys", func(t *testing.T) {
		useConfig(t, "nested.yaml")
		Config.Namespace = "gd"

		val, err := GetInt("cache_hours")
		require.NoError(t, err)
		assert.Equal(t, 5, val)
	})
}

func TestGet_Namespace(t *testing.T) {
	useConfig(t, "nested.yaml")

	Config.Namespace = "gd"
	val, err := Config.get("manifest")
	require.NoError(t, err)
	assert.Equal(t, "github.toml", val)

	val, err = Config.get("org")
	require.NoError(t, err)
	assert.Equal(t, "acme", val)

	Config.Namespace = "bd"
	val, err = Config.get("manifest")
	require.NoError(t, err)
	assert.Equal(t, "bitwarden.toml", val)

	val, err = Config.get("org")
	require.NoError(t, err)
	assert.Equal(t, "acme-vault", val)
}

func TestGet_NamespaceFallsBackToTopLevel(t *testing.T) {
	useConfig(t, "namespace.yaml")
	Config.Namespace = "gq"

	val, err := GetString("setting")
	require.NoError(t, err)
	assert.Equal(t, "gq-value", val)

	val, err = GetString("specific")
	require.NoError(t, err)
	assert.Equal(t, "gq-specific", val)

	_, err = GetString("nonexistent")
	assert.Error(t, err)
}

func TestGet_Paths(t *testing.T) {
	t.Run("deep path", func(t *testing.T) {
		useConfig(t, "deep-nested.yaml")

		val, err := Config.get("level1.level2.level3.value")
		require.NoError(t, err)
		assert.Equal(t, "deep-value", val)
	})

	t.Run("missing intermediate key", func(t *testing.T) {
		useConfig(t, "simple.yaml")

		_, err := Config.get("nonexistent.nested.path")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid path found")
	})

	t.Run("path through a scalar", func(t *testing.T) {
		useConfig(t, "mixed-types.yaml")

		_, err := Config.get("version.something")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid path found")
	})
}

func TestGetStringSlice(t *testing.T) {
	t.Run("flat and nested lists", func(t *testing.T) {
		useConfig(t, "string-slice.yaml")

		vals, err := GetStringSlice("list_top")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, vals)

		vals, err = GetStringSlice("nested.inner.list")
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two three"}, vals)
	})

	t.Run("namespace and qualified key agree", func(t *testing.T) {
		useConfig(t, "string-slice.yaml")
		Config.Namespace = "gq"

		want := []string{"--output json", "--sort name,id"}

		vals, err := GetStringSlice("test")
		require.NoError(t, err)
		assert.Equal(t, want, vals)

		vals, err = GetStringSlice("gq.test")
		require.NoError(t, err)
		assert.Equal(t, want, vals)
	})

	t.Run("error cases", func(t *testing.T) {
		useConfig(t, "string-slice.yaml")

		_, err := GetStringSlice("nonstring_list")
		assert.Error(t, err, "list with non-string elements")

		_, err = GetStringSlice("not_a_list")
		assert.Error(t, err, "scalar value")

		def := []string{"x", "y"}
		vals, err := GetStringSlice("does.not.exist", def)
		require.NoError(t, err)
		assert.Equal(t, def, vals)

		_, err = GetStringSlice("does.not.exist")
		assert.Error(t, err)
	})
}
