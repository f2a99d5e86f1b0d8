// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDiffSpecs(t *testing.T) {
	tests := []struct {
		name    string
		specs   []string
		want    []string
		wantErr bool
	}{
		{
			name:  "no specs diffs previous against latest",
			specs: nil,
			want:  []string{"SNAP~1", "SNAP~0"},
		},
		{
			name:  "one spec diffs against latest",
			specs: []string{"orgctl-github-acme"},
			want:  []string{"orgctl-github-acme", "SNAP~0"},
		},
		{
			name:  "two specs pass through",
			specs: []string{"SNAP~3", "-1"},
			want:  []string{"SNAP~3", "-1"},
		},
		{
			name:    "three specs rejected",
			specs:   []string{"a", "b", "c"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := defaultDiffSpecs(tt.specs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
