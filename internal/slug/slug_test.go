// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package slug

import (
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		teamName string
		expected string
	}{
		// Passthrough tests - already slug-shaped names.
		{
			name:     "lowercase single word",
			teamName: "platform",
			expected: "platform",
		},
		{
			name:     "lowercase with hyphen",
			teamName: "platform-eng",
			expected: "platform-eng",
		},
		{
			name:     "underscores survive",
			teamName: "sre_oncall",
			expected: "sre_oncall",
		},
		{
			name:     "digits survive",
			teamName: "tier2",
			expected: "tier2",
		},
		// Case folding.
		{
			name:     "uppercase word",
			teamName: "Platform",
			expected: "platform",
		},
		{
			name:     "camelCase name",
			teamName: "PlatformEng",
			expected: "platformeng",
		},
		// Separator collapsing.
		{
			name:     "single space",
			teamName: "Platform Engineering",
			expected: "platform-engineering",
		},
		{
			name:     "multiple spaces collapse",
			teamName: "Platform   Engineering",
			expected: "platform-engineering",
		},
		{
			name:     "ampersand between spaces",
			teamName: "Ops & SRE",
			expected: "ops-sre",
		},
		{
			name:     "dot separated",
			teamName: "infra.core",
			expected: "infra-core",
		},
		{
			name:     "slash separated",
			teamName: "db/storage",
			expected: "db-storage",
		},
		// Trimming.
		{
			name:     "leading punctuation trimmed",
			teamName: "(temp) crew",
			expected: "temp-crew",
		},
		{
			name:     "trailing punctuation trimmed",
			teamName: "crew!",
			expected: "crew",
		},
		// Edge cases.
		{
			name:     "empty name",
			teamName: "",
			expected: "",
		},
		{
			name:     "punctuation only",
			teamName: "!!!",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Make(tt.teamName)
			if result != tt.expected {
				t.Errorf("Make(%q) = %q, expected %q",
					tt.teamName, result, tt.expected)
			}
		})
	}
}

func TestDiverges(t *testing.T) {
	tests := []struct {
		name     string
		teamName string
		slug     string
		expected bool
	}{
		// Non-divergent tests - slug matches the derived form.
		{
			name:     "identical lowercase",
			teamName: "platform",
			slug:     "platform",
			expected: false,
		},
		{
			name:     "spaces become hyphens",
			teamName: "Platform Engineering",
			slug:     "platform-engineering",
			expected: false,
		},
		{
			name:     "case folded",
			teamName: "SRE",
			slug:     "sre",
			expected: false,
		},
		{
			name:     "underscores kept",
			teamName: "sre_oncall",
			slug:     "sre_oncall",
			expected: false,
		},
		// Divergent tests - slug assigned before a rename.
		{
			name:     "renamed team keeps old slug",
			teamName: "Developer Experience",
			slug:     "tooling",
			expected: true,
		},
		{
			name:     "numeric suffix from collision",
			teamName: "Platform",
			slug:     "platform-1",
			expected: true,
		},
		{
			name:     "hyphen underscore mismatch",
			teamName: "sre oncall",
			slug:     "sre_oncall",
			expected: true,
		},
		// Edge cases.
		{
			name:     "empty name",
			teamName: "",
			slug:     "platform",
			expected: false,
		},
		{
			name:     "empty slug",
			teamName: "Platform",
			slug:     "",
			expected: false,
		},
		{
			name:     "both empty",
			teamName: "",
			slug:     "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Diverges(tt.teamName, tt.slug)
			if result != tt.expected {
				t.Errorf("Diverges(%q, %q) = %v, expected %v",
					tt.teamName, tt.slug, result, tt.expected)
			}
		})
	}
}

// BenchmarkMake benchmarks the Make function to ensure it performs well with
// typical team names.
func BenchmarkMake(b *testing.B) {
	tests := []struct {
		name     string
		teamName string
	}{
		{"simple", "platform"},
		{"spaced", "Platform Engineering Group"},
		{"messy", "Ops & SRE (on-call, tier 2)"},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Make(tt.teamName)
			}
		})
	}
}
