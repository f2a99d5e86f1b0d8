// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package driller

import (
	"embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var fixtures embed.FS

type drillCase struct {
	Name        string                 `yaml:"name"`
	JSON        map[string]interface{} `yaml:"json"`
	Path        string                 `yaml:"path"`
	ExpectedStr string                 `yaml:"expectedStr"`
	IsNil       bool                   `yaml:"isNil"`
	IsArray     bool                   `yaml:"isArray"`
}

func loadDrillCases(t *testing.T) []drillCase {
	t.Helper()

	raw, err := fixtures.ReadFile("testdata/driller_cases.yaml")
	require.NoError(t, err)

	var cases []drillCase
	require.NoError(t, yaml.Unmarshal(raw, &cases))

	return cases
}

func TestDriller(t *testing.T) {
	for _, tc := range loadDrillCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			doc, err := json.Marshal(tc.JSON)
			require.NoError(t, err)

			result := Driller(string(doc), tc.Path)

			switch {
			case tc.IsNil:
				if result.Exists() {
					assert.Equal(t, "Null", result.Type.String(),
						"wanted nothing at %q, got %v", tc.Path, result.Value())
				}
			case tc.IsArray:
				require.True(t, result.Exists(), "no value at %q", tc.Path)
				assert.True(t, result.IsArray(),
					"wanted a list at %q, got %v", tc.Path, result.Value())
			default:
				require.True(t, result.Exists(), "no value at %q", tc.Path)
				assert.Equal(t, tc.ExpectedStr, result.String())
			}
		})
	}
}
