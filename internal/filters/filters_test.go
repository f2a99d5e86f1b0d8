// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/orgctl/orgctl/internal/attrs"
)

//go:embed testdata/*.yaml
var fixtures embed.FS

// loadCases unmarshals one fixture file into the given case slice.
func loadCases(t *testing.T, filename string, v interface{}) {
	t.Helper()

	data, err := fixtures.ReadFile("testdata/" + filename)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, v))
}

func TestBuildFilters(t *testing.T) {
	var tests []struct {
		Name      string   `yaml:"name"`
		Spec      string   `yaml:"spec"`
		Delimiter string   `yaml:"delimiter"`
		Want      []Filter `yaml:"want"`
		WantCount int      `yaml:"wantCount"`
	}
	loadCases(t, "filters_test_build_filters.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if tt.Delimiter != "" {
				t.Setenv("ORGCTL_FILTER_DELIM", tt.Delimiter)
			}

			got := BuildFilters(tt.Spec)
			require.Len(t, got, tt.WantCount)
			for i, want := range tt.Want {
				assert.Equal(t, want, got[i])
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	var tests []struct {
		Name   string `yaml:"name"`
		Value  string `yaml:"value"`
		Filter Filter `yaml:"filter"`
		Want   bool   `yaml:"want"`
	}
	loadCases(t, "filters_test_check_string_operand.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkStringOperand(tt.Value, tt.Filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	var tests []struct {
		Name   string  `yaml:"name"`
		Value  float64 `yaml:"value"`
		Filter Filter  `yaml:"filter"`
		Want   bool    `yaml:"want"`
	}
	loadCases(t, "filters_test_check_numeric_operand.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkNumericOperand(tt.Value, tt.Filter))
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	var tests []struct {
		Name   string      `yaml:"name"`
		Value  interface{} `yaml:"value"`
		Filter Filter      `yaml:"filter"`
		Want   bool        `yaml:"want"`
	}
	loadCases(t, "filters_test_check_contains_operand.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkContainsOperand(tt.Value, tt.Filter))
		})
	}
}

func TestToFloat64(t *testing.T) {
	var tests []struct {
		Name   string      `yaml:"name"`
		Value  interface{} `yaml:"value"`
		Want   float64     `yaml:"want"`
		WantOk bool        `yaml:"wantOk"`
	}
	loadCases(t, "filters_test_to_float64.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got, ok := toFloat64(tt.Value)
			require.Equal(t, tt.WantOk, ok)
			if ok {
				assert.Equal(t, tt.Want, got)
			}
		})
	}
}

// teamCandidate is a team renamed after creation, so its slug no
// longer matches the slug its current name would generate.
const teamCandidate = `
{
	"id": 42,
	"name": "Platform Crew",
	"slug": "platform-team",
	"privacy": "closed",
	"members_count": 5,
	"maintainers": ["hubot", "octocat"],
	"two_factor": true,
	"description": null,
	"parent": {"slug": "engineering"}
}
`

func teamAttrs() attrs.AttrList {
	var al attrs.AttrList
	for _, key := range []string{
		"name", "slug", "privacy", "members_count",
		"maintainers", "two_factor", "description", "parent",
	} {
		al = append(al, attrs.Attr{Key: key, OutputKey: key, Include: true})
	}
	return al
}

func TestApplyFilters(t *testing.T) {
	var tests []struct {
		Name    string   `yaml:"name"`
		Filters []Filter `yaml:"filters"`
		Want    bool     `yaml:"want"`
	}
	loadCases(t, "filters_test_apply_filters.yaml", &tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got := applyFilters(gjson.Parse(teamCandidate), teamAttrs(), tt.Filters)
			assert.Equal(t, tt.Want, got)
		})
	}
}

func TestIsDivergent(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		filter    Filter
		want      divergentCheckType
	}{
		{
			name:      "renamed team passes default mode",
			candidate: `{"name": "Platform Crew", "slug": "platform-team"}`,
			filter:    Filter{Key: "divergent"},
			want:      divergentPass,
		},
		{
			name:      "renamed team fails false mode",
			candidate: `{"name": "Platform Crew", "slug": "platform-team"}`,
			filter:    Filter{Key: "divergent", Operand: "=", Value: "false"},
			want:      divergentFail,
		},
		{
			name:      "in-sync team fails default mode",
			candidate: `{"name": "design", "slug": "design"}`,
			filter:    Filter{Key: "divergent"},
			want:      divergentFail,
		},
		{
			name:      "in-sync team passes false mode",
			candidate: `{"name": "design", "slug": "design"}`,
			filter:    Filter{Key: "divergent", Operand: "=", Value: "false"},
			want:      divergentPass,
		},
		{
			name:      "missing slug always passes",
			candidate: `{"name": "octocat"}`,
			filter:    Filter{Key: "divergent"},
			want:      divergentPass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isDivergent(gjson.Parse(tt.candidate), tt.filter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterDataset(t *testing.T) {
	var tests []struct {
		Name      string   `yaml:"name"`
		Spec      string   `yaml:"spec"`
		WantCount int      `yaml:"wantCount"`
		WantNames []string `yaml:"wantNames"`
	}
	loadCases(t, "filters_test_filter_dataset.yaml", &tests)

	teams := `
	[
		{
			"id": 101,
			"name": "eng-platform",
			"privacy": "closed"
		},
		{
			"id": 102,
			"name": "eng-security",
			"privacy": "secret"
		},
		{
			"id": 103,
			"name": "design",
			"privacy": "closed"
		}
	]
	`

	al := attrs.AttrList{
		{Key: "name", OutputKey: "name", Include: true},
		{Key: "privacy", OutputKey: "privacy", Include: true},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got := FilterDataset(gjson.Parse(teams), al, tt.Spec)
			require.Len(t, got, tt.WantCount)
			for i, name := range tt.WantNames {
				assert.Equal(t, name, got[i]["name"])
			}
		})
	}
}
