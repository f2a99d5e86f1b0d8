// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"fmt"
	"strconv"
	"strings"
)

// Role is an organization-level role. GitHub only knows two.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole validates a role read from a manifest or an API payload.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid organization role %q (want \"admin\" or \"member\")", s)
}

// Member is an organization member. Members are identified by user id, so a
// username change shows up as an in-place change rather than a remove/add
// pair.
type Member struct {
	UserID   int64  `json:"github_user_id"`
	UserName string `json:"github_user_name"`
	Role     Role   `json:"role"`
}

func (m Member) Key() string {
	return strconv.FormatInt(m.UserID, 10)
}

func (m Member) Equal(other Member) bool {
	return m == other
}

func (m Member) Less(other Member) bool {
	if m.UserID != other.UserID {
		return m.UserID < other.UserID
	}
	if m.UserName != other.UserName {
		return m.UserName < other.UserName
	}
	return m.Role < other.Role
}

// Render returns the member in manifest TOML form. Splicing the username
// between plain quotes is fine, GitHub usernames cannot contain one.
func (m Member) Render() string {
	return "[[member]]\n" +
		fmt.Sprintf("github_user_id = %d\n", m.UserID) +
		fmt.Sprintf("github_user_name = \"%s\"\n", m.UserName) +
		fmt.Sprintf("role = \"%s\"", m.Role)
}

// Team is an organization team, optionally nested under a parent team.
type Team struct {
	TeamID      int64  `json:"github_team_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Parent      string `json:"parent,omitempty"`
}

func (t Team) Key() string {
	return strconv.FormatInt(t.TeamID, 10)
}

func (t Team) Equal(other Team) bool {
	return t == other
}

func (t Team) Less(other Team) bool {
	if t.TeamID != other.TeamID {
		return t.TeamID < other.TeamID
	}
	if t.Name != other.Name {
		return t.Name < other.Name
	}
	if t.Slug != other.Slug {
		return t.Slug < other.Slug
	}
	if t.Description != other.Description {
		return t.Description < other.Description
	}
	return t.Parent < other.Parent
}

// Render returns the team in manifest TOML form. The slug defaults to the
// team name, so it is only listed when the two differ, and the parent line
// only appears for nested teams.
func (t Team) Render() string {
	lines := []string{
		"[[team]]",
		fmt.Sprintf("github_team_id = %d", t.TeamID),
		"name = " + strconv.Quote(t.Name),
	}

	if t.Slug != t.Name {
		lines = append(lines, "slug = "+strconv.Quote(t.Slug))
	}

	lines = append(lines, "description = "+strconv.Quote(t.Description))

	if t.Parent != "" {
		lines = append(lines, "parent = "+strconv.Quote(t.Parent))
	}

	return strings.Join(lines, "\n")
}

// TeamMember records that a user belongs to a team. A membership has no id
// of its own, the value itself is the identity, so the differ's same-key
// promotion never applies. Memberships read better as plain name lists than
// as TOML fragments, which is why the type satisfies Diffable but not
// Renderable.
type TeamMember struct {
	UserID   int64  `json:"github_user_id"`
	UserName string `json:"github_user_name"`
	TeamName string `json:"team"`
}

func (tm TeamMember) Key() string {
	return fmt.Sprintf("%d@%s", tm.UserID, tm.TeamName)
}

func (tm TeamMember) Equal(other TeamMember) bool {
	return tm == other
}

func (tm TeamMember) Less(other TeamMember) bool {
	if tm.UserID != other.UserID {
		return tm.UserID < other.UserID
	}
	if tm.UserName != other.UserName {
		return tm.UserName < other.UserName
	}
	return tm.TeamName < other.TeamName
}
