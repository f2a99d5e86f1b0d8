// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bitwarden

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MemberType is a member's organization-wide permission level. The public
// API encodes it as a small integer; manifests and snapshots use the
// lowercase name.
type MemberType int

const (
	TypeOwner MemberType = iota
	TypeAdmin
	TypeUser
	TypeManager
	TypeCustom
)

func (t MemberType) String() string {
	switch t {
	case TypeOwner:
		return "owner"
	case TypeAdmin:
		return "admin"
	case TypeUser:
		return "user"
	case TypeManager:
		return "manager"
	case TypeCustom:
		return "custom"
	}
	return fmt.Sprintf("membertype(%d)", int(t))
}

// ParseMemberType reads the names used in manifests, case-insensitively.
func ParseMemberType(s string) (MemberType, error) {
	switch strings.ToLower(s) {
	case "owner":
		return TypeOwner, nil
	case "admin":
		return TypeAdmin, nil
	case "user":
		return TypeUser, nil
	case "manager":
		return TypeManager, nil
	case "custom":
		return TypeCustom, nil
	}
	return 0, fmt.Errorf("invalid member type %q (want owner, admin, user, manager or custom)", s)
}

// MemberTypeFromInt converts the API's numeric encoding.
func MemberTypeFromInt(n int) (MemberType, error) {
	if n < int(TypeOwner) || n > int(TypeCustom) {
		return 0, fmt.Errorf("invalid member type %d", n)
	}
	return MemberType(n), nil
}

func (t MemberType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *MemberType) UnmarshalText(text []byte) error {
	parsed, err := ParseMemberType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AccessLevel is a group's access to a collection.
type AccessLevel int

const (
	AccessReadOnly AccessLevel = iota
	AccessWrite
)

func (a AccessLevel) String() string {
	if a == AccessWrite {
		return "write"
	}
	return "readonly"
}

// ParseAccessLevel reads the names used in manifests, case-insensitively.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch strings.ToLower(s) {
	case "readonly":
		return AccessReadOnly, nil
	case "write":
		return AccessWrite, nil
	}
	return 0, fmt.Errorf("invalid access level %q (want readonly or write)", s)
}

func (a AccessLevel) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccessLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseAccessLevel(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Member is an organization member. Members are identified by their
// organization-scoped member id.
type Member struct {
	ID        string     `json:"member_id"`
	Name      string     `json:"member_name"`
	Email     string     `json:"email"`
	Type      MemberType `json:"type"`
	AccessAll bool       `json:"access_all"`
}

func (m Member) Key() string {
	return m.ID
}

func (m Member) Equal(other Member) bool {
	return m == other
}

func (m Member) Less(other Member) bool {
	if m.ID != other.ID {
		return m.ID < other.ID
	}
	if m.Name != other.Name {
		return m.Name < other.Name
	}
	if m.Email != other.Email {
		return m.Email < other.Email
	}
	if m.Type != other.Type {
		return m.Type < other.Type
	}
	return !m.AccessAll && other.AccessAll
}

// Render returns the member in manifest TOML form. Values print unquoted and
// the type prints in its enum form, matching the historical report format.
func (m Member) Render() string {
	lines := []string{
		"[[member]]",
		"member_id = " + m.ID,
		"member_name = " + m.Name,
		"email = " + m.Email,
		"type = MemberType." + strings.ToUpper(m.Type.String()),
		"access_all = " + strconv.FormatBool(m.AccessAll),
	}
	return strings.Join(lines, "\n")
}

// Group is an organization group.
type Group struct {
	ID        string `json:"group_id"`
	Name      string `json:"group_name"`
	AccessAll bool   `json:"access_all"`
}

func (g Group) Key() string {
	return g.ID
}

func (g Group) Equal(other Group) bool {
	return g == other
}

func (g Group) Less(other Group) bool {
	if g.ID != other.ID {
		return g.ID < other.ID
	}
	if g.Name != other.Name {
		return g.Name < other.Name
	}
	return !g.AccessAll && other.AccessAll
}

func (g Group) Render() string {
	lines := []string{
		"[[group]]",
		"group_id = " + g.ID,
		"group_name = " + g.Name,
		"access_all = " + strconv.FormatBool(g.AccessAll),
	}
	return strings.Join(lines, "\n")
}

// MemberCollectionAccess grants one member access to a collection, by way of
// a group the member belongs to.
type MemberCollectionAccess struct {
	Name string `json:"member_name"`
}

func (a MemberCollectionAccess) Less(other MemberCollectionAccess) bool {
	return compareMemberEntry(a, other) < 0
}

// Render returns the inline-table form. The quoting is lopsided on purpose:
// it matches the historical report format byte for byte.
func (a MemberCollectionAccess) Render() string {
	return "{ member_name = " + a.Name + "\"}"
}

// GroupCollectionAccess grants one group access to a collection.
type GroupCollectionAccess struct {
	Name   string      `json:"group_name"`
	Access AccessLevel `json:"access"`
}

func (a GroupCollectionAccess) Less(other GroupCollectionAccess) bool {
	return compareGroupEntry(a, other) < 0
}

// Render returns the inline-table form, with the same historical quoting as
// MemberCollectionAccess.Render.
func (a GroupCollectionAccess) Render() string {
	return "{ group_name = " + a.Name + "\", access = \"groupaccess." + a.Access.String() + "\" }"
}

// Collection is a shared collection. The access slices distinguish nil from
// empty: nil means access was never declared or resolved, empty means it was
// declared to be empty. The two render differently and never compare equal.
// Both the manifest loader and the client keep access lists sorted.
type Collection struct {
	ID           string                   `json:"collection_id"`
	ExternalID   string                   `json:"external_id"`
	GroupAccess  []GroupCollectionAccess  `json:"group_access"`
	MemberAccess []MemberCollectionAccess `json:"member_access"`
}

func (c Collection) Key() string {
	return c.ID
}

func (c Collection) Equal(other Collection) bool {
	if c.ID != other.ID || c.ExternalID != other.ExternalID {
		return false
	}
	if (c.GroupAccess == nil) != (other.GroupAccess == nil) {
		return false
	}
	if (c.MemberAccess == nil) != (other.MemberAccess == nil) {
		return false
	}
	return slices.Equal(c.GroupAccess, other.GroupAccess) &&
		slices.Equal(c.MemberAccess, other.MemberAccess)
}

func (c Collection) Less(other Collection) bool {
	if c.ID != other.ID {
		return c.ID < other.ID
	}
	if c.ExternalID != other.ExternalID {
		return c.ExternalID < other.ExternalID
	}
	if r := compareAccess(c.GroupAccess, other.GroupAccess, compareGroupEntry); r != 0 {
		return r < 0
	}
	return compareAccess(c.MemberAccess, other.MemberAccess, compareMemberEntry) < 0
}

// Render returns the collection in manifest TOML form. Access entries render
// sorted, one per line, with a trailing comma on every entry; an empty but
// declared list renders as [].
func (c Collection) Render() string {
	result := "[[collection]]\n" +
		"collection_id = " + c.ID + "\n" +
		"external_id = " + c.ExternalID + "\n"

	if c.MemberAccess != nil {
		entries := slices.Clone(c.MemberAccess)
		slices.SortFunc(entries, compareMemberEntry)
		if len(entries) > 0 {
			lines := make([]string, 0, len(entries))
			for _, a := range entries {
				lines = append(lines, "  "+a.Render())
			}
			result += "member_access = [\n" + strings.Join(lines, ",\n") + ",\n]\n"
		} else {
			result += "member_access = []\n"
		}
	}

	if c.GroupAccess != nil {
		entries := slices.Clone(c.GroupAccess)
		slices.SortFunc(entries, compareGroupEntry)
		if len(entries) > 0 {
			lines := make([]string, 0, len(entries))
			for _, a := range entries {
				lines = append(lines, "  "+a.Render())
			}
			result += "group_access = [\n" + strings.Join(lines, ",\n") + ",\n]"
		} else {
			result += "group_access = []"
		}
	}

	return result
}

// GroupMember records that a member belongs to a group. The value is its own
// identity and group membership diffs print as name lists, so the type
// satisfies Diffable but not Renderable.
type GroupMember struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	GroupName  string `json:"group_name"`
}

func (gm GroupMember) Key() string {
	return gm.MemberID + "@" + gm.GroupName
}

func (gm GroupMember) Equal(other GroupMember) bool {
	return gm == other
}

func (gm GroupMember) Less(other GroupMember) bool {
	if gm.MemberID != other.MemberID {
		return gm.MemberID < other.MemberID
	}
	if gm.MemberName != other.MemberName {
		return gm.MemberName < other.MemberName
	}
	return gm.GroupName < other.GroupName
}

// compareAccess orders nil before any non-nil list, then element-wise.
func compareAccess[A any](a, b []A, cmp func(A, A) int) int {
	if (a == nil) != (b == nil) {
		if a == nil {
			return -1
		}
		return 1
	}
	return slices.CompareFunc(a, b, cmp)
}

func compareGroupEntry(a, b GroupCollectionAccess) int {
	if a.Name != b.Name {
		return strings.Compare(a.Name, b.Name)
	}
	return int(a.Access) - int(b.Access)
}

func compareMemberEntry(a, b MemberCollectionAccess) int {
	return strings.Compare(a.Name, b.Name)
}
