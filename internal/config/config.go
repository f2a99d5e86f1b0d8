// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// Type holds a loaded configuration: the file it came from, an
// optional namespace that biases lookups toward one command's keyspace
// (Namespace "gq" makes "attrs" resolve "gq.attrs" first), and the raw
// YAML tree. The tree stays map[string]interface{}, callers go through
// the typed getters.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Config is the process-wide configuration.
var Config Type

// A missing or broken config file is fine, the tool runs on defaults.
// Getters retry the load lazily in case the file shows up later.
func init() {
	_, _ = Load()
}

// Load reads the config file and replaces the global Config. The
// variadic parameter is accepted for a future explicit-path override
// and currently ignored.
func Load(cfgFilePath ...string) (Type, error) {
	path, err := getConfigFile()
	if err != nil {
		return Type{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, err
	}

	Config = Type{Source: path, Data: data}
	return Config, nil
}

// lookup resolves a dotted key against the global Config, loading it
// first if nothing is resident yet.
func lookup(key string) (any, error) {
	if len(Config.Data) == 0 {
		_, _ = Load()
	}

	return Config.get(key)
}

// GetString returns the string at the dotted key. One defaultValue may
// be supplied for when the key is absent.
func GetString(key string, defaultValue ...string) (string, error) {
	val, err := lookup(key)
	if err == nil {
		return asString(val)
	}
	if len(defaultValue) == 1 {
		return defaultValue[0], nil
	}
	return "", err
}

// GetInt returns the integer at the dotted key. One defaultValue may
// be supplied for when the key is absent.
func GetInt(key string, defaultValue ...int) (int, error) {
	val, err := lookup(key)
	if err == nil {
		return asInt(val)
	}
	if len(defaultValue) == 1 {
		return defaultValue[0], nil
	}
	return 0, err
}

// GetStringSlice returns the string list at the dotted key. One
// default slice may be supplied for when the key is absent.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	val, err := lookup(key)
	if err == nil {
		return asStringSlice(val)
	}
	if len(defaultValue) == 1 {
		return defaultValue[0], nil
	}
	return nil, err
}

func asString(val any) (string, error) {
	s, ok := val.(string)
	if !ok {
		return "", errors.New("value is not a string")
	}
	return s, nil
}

// asInt coerces the int, int64 and float64 shapes YAML numbers decode
// to, truncating floats.
func asInt(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, errors.New("value is not an int")
}

func asStringSlice(val any) ([]string, error) {
	switch v := val.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New("slice element is not a string")
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, errors.New("value is not a slice")
}

// get walks the tree for a dotted key, trying the namespaced variant
// first when a namespace is set.
func (cfg *Type) get(kspec string) (any, error) {
	if len(cfg.Data) == 0 {
		_, _ = Load(cfg.Source)
	}

	candidates := []string{kspec}
	if cfg.Namespace != "" {
		candidates = []string{cfg.Namespace + "." + kspec, kspec}
	}

	for _, candidate := range candidates {
		if val, ok := walk(cfg.Data, candidate); ok {
			return val, nil
		}
	}

	return nil, fmt.Errorf("no valid path found among: %v", candidates)
}

func walk(tree map[string]interface{}, dotted string) (any, bool) {
	var current interface{} = tree

	for _, key := range strings.Split(dotted, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if current, ok = m[key]; !ok {
			return nil, false
		}
	}

	return current, true
}

// getConfigFile locates the config file: the ORGCTL_CFG_FILE override
// when set, otherwise orgctl.yaml in the user config directory.
func getConfigFile() (string, error) {
	if cfgPath := os.Getenv("ORGCTL_CFG_FILE"); cfgPath != "" {
		info, err := os.Stat(cfgPath)
		if err != nil {
			return "", fmt.Errorf("config file not found at ORGCTL_CFG_FILE path: %s", cfgPath)
		}
		if info.IsDir() {
			return "", fmt.Errorf("ORGCTL_CFG_FILE points to a directory: %s", cfgPath)
		}

		log.Debugf("using config file from ORGCTL_CFG_FILE: %s", cfgPath)
		return cfgPath, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	file := filepath.Join(dir, "orgctl.yaml")
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		log.Debugf("using config file: %s", file)
		return file, nil
	}

	return "", fmt.Errorf("no config file found in standard locations")
}
