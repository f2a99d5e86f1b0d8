// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/attrs"
)

func TestSortDataset(t *testing.T) {
	// Mixed case on purpose so the ! prefix has something to bite on.
	teams := []map[string]interface{}{
		{"name": "Zulu", "members": 9.0, "privacy": "closed"},
		{"name": "api", "members": 2.0, "privacy": "closed"},
		{"name": "Platform", "members": 5.0, "privacy": "secret"},
	}

	tests := []struct {
		name string
		spec string
		want []string
	}{
		{
			name: "by name folds case",
			spec: "name",
			want: []string{"api", "Platform", "Zulu"},
		},
		{
			name: "by name descending",
			spec: "-name",
			want: []string{"Zulu", "Platform", "api"},
		},
		{
			name: "case sensitive puts capitals first",
			spec: "!name",
			want: []string{"Platform", "Zulu", "api"},
		},
		{
			name: "numeric ascending",
			spec: "members",
			want: []string{"api", "Platform", "Zulu"},
		},
		{
			name: "numeric descending",
			spec: "-members",
			want: []string{"Zulu", "Platform", "api"},
		},
		{
			name: "secondary field breaks ties",
			spec: "privacy,-members",
			want: []string{"Zulu", "api", "Platform"},
		},
		{
			name: "empty spec keeps fetch order",
			spec: "",
			want: []string{"Zulu", "api", "Platform"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]map[string]interface{}, len(teams))
			copy(rows, teams)

			SortDataset(rows, tt.spec)

			var got []string
			for _, row := range rows {
				got = append(got, row["name"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		empty []string
		want  string
	}{
		{name: "string passes through", value: "octocat", want: "octocat"},
		{name: "int", value: 583231, want: "583231"},
		{name: "whole float drops fraction", value: 5.0, want: "5"},
		{name: "float rounds half to even down", value: 2.5, want: "2"},
		{name: "float rounds half to even up", value: 3.5, want: "4"},
		{name: "float rounds up", value: 123456.789, want: "123457"},
		{name: "negative float", value: -7.0, want: "-7"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is a zero value", value: false, want: ""},
		{name: "nil", value: nil, want: ""},
		{name: "nil with placeholder", value: nil, empty: []string{"-"}, want: "-"},
		{name: "zero int with placeholder", value: 0, empty: []string{"n/a"}, want: "n/a"},
		{name: "empty string with placeholder", value: "", empty: []string{"-"}, want: "-"},
		{name: "slice renders as JSON", value: []string{"hubot", "octocat"}, want: `["hubot","octocat"]`},
		{name: "map renders as JSON", value: map[string]int{"teams": 3}, want: `{"teams":3}`},
		{name: "mixed slice renders as JSON", value: []interface{}{1, "two", true}, want: `[1,"two",true]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.empty...))
		})
	}
}

func TestNewTag(t *testing.T) {
	tests := []struct {
		name string
		h    string
		s    string
		want schemaTag
	}{
		{
			name: "plain field",
			s:    "github_user_name",
			want: schemaTag{Kind: "attr", Name: "github_user_name"},
		},
		{
			name: "holder prefixes nested fields",
			h:    "group_access",
			s:    "group_name",
			want: schemaTag{Kind: "attr", Name: "group_access.group_name"},
		},
		{
			name: "options land in encoding",
			s:    "parent,omitempty",
			want: schemaTag{Kind: "attr", Name: "parent", Encoding: "omitempty"},
		},
		{
			name: "multiple options stay together",
			s:    "id,omitempty,string",
			want: schemaTag{Kind: "attr", Name: "id", Encoding: "omitempty,string"},
		},
		{
			name: "dash means excluded",
			s:    "-",
			want: schemaTag{},
		},
		{
			name: "empty tag",
			s:    "",
			want: schemaTag{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTag(tt.h, tt.s))
		})
	}

	t.Run("print renders the name", func(t *testing.T) {
		assert.Equal(t, "group_access.group_name",
			schemaTag{Name: "group_access.group_name"}.print())
		assert.Equal(t, "", schemaTag{}.print())
	})
}

func TestDumpSchemaWalker(t *testing.T) {
	type accessEntry struct {
		GroupName string `json:"group_name"`
		Access    string `json:"access"`
	}

	type collection struct {
		ID          string        `json:"collection_id"`
		ExternalID  string        `json:"external_id"`
		GroupAccess []accessEntry `json:"group_access,omitempty"`
		Untagged    string
	}

	tags := dumpSchemaWalker("", reflect.TypeOf(collection{}), 0)

	var names []string
	for _, tag := range tags {
		names = append(names, tag.Name)
	}

	assert.Contains(t, names, "collection_id")
	assert.Contains(t, names, "external_id")
	assert.Contains(t, names, "group_access")
	// Slice element structs are walked so entry attributes surface too.
	assert.Contains(t, names, "group_access.group_name")
	assert.Contains(t, names, "group_access.access")
	assert.NotContains(t, names, "Untagged")
}

func TestDumpSchema(t *testing.T) {
	type member struct {
		Login string `json:"login"`
		Role  string `json:"role"`
	}

	buf := new(bytes.Buffer)
	DumpSchema("", reflect.TypeOf(member{}), buf)

	out := buf.String()
	assert.Contains(t, out, "login")
	assert.Contains(t, out, "role")
	// Names print sorted.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("login")),
		bytes.Index(buf.Bytes(), []byte("role")))
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")

	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}

// queryCmd builds a cli.Command carrying the flags the output pipeline
// reads, with Metadata ready for header and footer text.
func queryCmd(flags map[string]interface{}) *cli.Command {
	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output"},
			&cli.StringFlag{Name: "filter"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "local"},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles", Value: true},
			&cli.IntFlag{Name: "padding", Value: 2},
		},
		Metadata: map[string]interface{}{},
	}

	for name, value := range flags {
		switch v := value.(type) {
		case string:
			for _, f := range cmd.Flags {
				if sf, ok := f.(*cli.StringFlag); ok && sf.Name == name {
					sf.Value = v
				}
			}
		case bool:
			for _, f := range cmd.Flags {
				if bf, ok := f.(*cli.BoolFlag); ok && bf.Name == name {
					bf.Value = v
				}
			}
		}
	}

	return cmd
}

func TestTableWriter(t *testing.T) {
	members := []map[string]interface{}{
		{"login": "octocat", "id": "583231", "token": "secret"},
		{"login": "hubot", "id": "480938", "token": "secret"},
	}

	al := attrs.AttrList{
		{Key: "login", OutputKey: "login", Include: true},
		{Key: "id", OutputKey: "id", Include: true},
		{Key: "token", OutputKey: "token", Include: false},
	}

	t.Run("rows and titles render", func(t *testing.T) {
		buf := new(bytes.Buffer)
		TableWriter(members, al, queryCmd(nil), buf)

		out := buf.String()
		assert.Contains(t, out, "octocat")
		assert.Contains(t, out, "hubot")
		assert.Contains(t, out, "583231")
		assert.Contains(t, out, "login")
	})

	t.Run("excluded attributes never render", func(t *testing.T) {
		buf := new(bytes.Buffer)
		TableWriter(members, al, queryCmd(nil), buf)

		assert.NotContains(t, buf.String(), "secret")
	})

	t.Run("header and footer wrap the table", func(t *testing.T) {
		buf := new(bytes.Buffer)
		cmd := queryCmd(nil)
		cmd.Metadata["header"] = "acme-co members (live)"
		cmd.Metadata["footer"] = "2 members"

		TableWriter(members, al, cmd, buf)

		assert.Contains(t, buf.String(), "acme-co members (live)")
		assert.Contains(t, buf.String(), "2 members")
	})

	t.Run("empty result set writes nothing", func(t *testing.T) {
		buf := new(bytes.Buffer)
		TableWriter(nil, al, queryCmd(nil), buf)

		assert.Zero(t, buf.Len())
	})
}

func TestSliceDiceSpit(t *testing.T) {
	raw := `[
		{"login": "octocat", "role": "admin"},
		{"login": "hubot", "role": "member"}
	]`

	al := attrs.AttrList{
		{Key: "login", OutputKey: "login", Include: true},
		{Key: "role", OutputKey: "role", Include: true},
	}

	t.Run("raw bypasses the pipeline", func(t *testing.T) {
		buf := new(bytes.Buffer)
		SliceDiceSpit(*bytes.NewBufferString(raw), al, queryCmd(map[string]interface{}{"output": "raw"}), buf)

		assert.Equal(t, raw, buf.String())
	})

	t.Run("table honors filters", func(t *testing.T) {
		buf := new(bytes.Buffer)
		SliceDiceSpit(*bytes.NewBufferString(raw), al,
			queryCmd(map[string]interface{}{"filter": "login=octocat"}), buf)

		assert.Contains(t, buf.String(), "octocat")
		assert.NotContains(t, buf.String(), "hubot")
	})

	t.Run("json emits the sorted dataset", func(t *testing.T) {
		buf := new(bytes.Buffer)
		SliceDiceSpit(*bytes.NewBufferString(raw), al,
			queryCmd(map[string]interface{}{"output": "json", "sort": "login"}), buf)

		parsed := gjson.ParseBytes(buf.Bytes())
		require.True(t, parsed.IsArray())
		rows := parsed.Array()
		require.Len(t, rows, 2)
		assert.Equal(t, "hubot", rows[0].Get("login").String())
		assert.Equal(t, "octocat", rows[1].Get("login").String())
	})

	t.Run("yaml emits the dataset", func(t *testing.T) {
		buf := new(bytes.Buffer)
		SliceDiceSpit(*bytes.NewBufferString(raw), al,
			queryCmd(map[string]interface{}{"output": "yaml"}), buf)

		assert.Contains(t, buf.String(), "login: octocat")
	})
}

func BenchmarkSortDataset(b *testing.B) {
	teams := []map[string]interface{}{
		{"name": "Zulu", "members": 9.0},
		{"name": "api", "members": 2.0},
		{"name": "Platform", "members": 5.0},
	}

	for i := 0; i < b.N; i++ {
		rows := make([]map[string]interface{}, len(teams))
		copy(rows, teams)
		SortDataset(rows, "name,-members")
	}
}
