// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package bitwarden

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberTypeRoundTrip(t *testing.T) {
	tests := []struct {
		n    int
		name string
	}{
		{0, "owner"},
		{1, "admin"},
		{2, "user"},
		{3, "manager"},
		{4, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fromInt, err := MemberTypeFromInt(tt.n)
			assert.NoError(t, err)
			assert.Equal(t, tt.name, fromInt.String())

			parsed, err := ParseMemberType(tt.name)
			assert.NoError(t, err)
			assert.Equal(t, fromInt, parsed)
		})
	}

	_, err := MemberTypeFromInt(5)
	assert.Error(t, err)

	_, err = ParseMemberType("member")
	assert.Error(t, err)
}

func TestParseMemberTypeIsCaseInsensitive(t *testing.T) {
	parsed, err := ParseMemberType("OWNER")
	assert.NoError(t, err)
	assert.Equal(t, TypeOwner, parsed)
}

func TestMemberRender(t *testing.T) {
	m := Member{
		ID:        "2564c11f-9cde-4a20-9f5b-bd38d1e0d3f2",
		Name:      "yan",
		Email:     "yan.68@hotmail.fr",
		Type:      TypeOwner,
		AccessAll: false,
	}

	assert.Equal(t,
		"[[member]]\n"+
			"member_id = 2564c11f-9cde-4a20-9f5b-bd38d1e0d3f2\n"+
			"member_name = yan\n"+
			"email = yan.68@hotmail.fr\n"+
			"type = MemberType.OWNER\n"+
			"access_all = false",
		m.Render())
}

func TestGroupRender(t *testing.T) {
	g := Group{ID: "e8e902e2", Name: "engineering", AccessAll: true}

	assert.Equal(t,
		"[[group]]\n"+
			"group_id = e8e902e2\n"+
			"group_name = engineering\n"+
			"access_all = true",
		g.Render())
}

func TestAccessEntryRender(t *testing.T) {
	ma := MemberCollectionAccess{Name: "yan"}
	assert.Equal(t, "{ member_name = yan\"}", ma.Render())

	ga := GroupCollectionAccess{Name: "engineering", Access: AccessReadOnly}
	assert.Equal(t, "{ group_name = engineering\", access = \"groupaccess.readonly\" }", ga.Render())

	ga.Access = AccessWrite
	assert.Equal(t, "{ group_name = engineering\", access = \"groupaccess.write\" }", ga.Render())
}

func TestCollectionRender(t *testing.T) {
	tests := []struct {
		name string
		col  Collection
		want string
	}{
		{
			name: "no access declared",
			col:  Collection{ID: "c1", ExternalID: "collection1"},
			want: "[[collection]]\n" +
				"collection_id = c1\n" +
				"external_id = collection1\n",
		},
		{
			name: "empty but declared",
			col: Collection{
				ID:           "c1",
				ExternalID:   "collection1",
				GroupAccess:  []GroupCollectionAccess{},
				MemberAccess: []MemberCollectionAccess{},
			},
			want: "[[collection]]\n" +
				"collection_id = c1\n" +
				"external_id = collection1\n" +
				"member_access = []\n" +
				"group_access = []",
		},
		{
			name: "populated access renders sorted with trailing commas",
			col: Collection{
				ID:         "c1",
				ExternalID: "collection1",
				GroupAccess: []GroupCollectionAccess{
					{Name: "ops", Access: AccessWrite},
					{Name: "engineering", Access: AccessReadOnly},
				},
				MemberAccess: []MemberCollectionAccess{
					{Name: "zoe"},
					{Name: "yan"},
				},
			},
			want: "[[collection]]\n" +
				"collection_id = c1\n" +
				"external_id = collection1\n" +
				"member_access = [\n" +
				"  { member_name = yan\"},\n" +
				"  { member_name = zoe\"},\n" +
				"]\n" +
				"group_access = [\n" +
				"  { group_name = engineering\", access = \"groupaccess.readonly\" },\n" +
				"  { group_name = ops\", access = \"groupaccess.write\" },\n" +
				"]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.col.Render())
		})
	}
}

func TestCollectionEqualDistinguishesNilFromEmpty(t *testing.T) {
	declared := Collection{ID: "c1", GroupAccess: []GroupCollectionAccess{}}
	undeclared := Collection{ID: "c1"}

	assert.False(t, declared.Equal(undeclared))
	assert.False(t, undeclared.Equal(declared))
	assert.True(t, declared.Equal(Collection{ID: "c1", GroupAccess: []GroupCollectionAccess{}}))
	assert.True(t, undeclared.Equal(Collection{ID: "c1"}))
}

func TestCollectionLessTieBreaksOnAccess(t *testing.T) {
	bare := Collection{ID: "c1"}
	declared := Collection{ID: "c1", GroupAccess: []GroupCollectionAccess{{Name: "a"}}}

	// nil access sorts before declared access
	assert.True(t, bare.Less(declared))
	assert.False(t, declared.Less(bare))
	assert.False(t, bare.Less(bare))
}

func TestGroupMemberKey(t *testing.T) {
	gm := GroupMember{MemberID: "2564c11f", MemberName: "yan", GroupName: "engineering"}
	assert.Equal(t, "2564c11f@engineering", gm.Key())
}
