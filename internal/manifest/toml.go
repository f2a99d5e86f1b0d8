// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/orgctl/orgctl/internal/bitwarden"
	"github.com/orgctl/orgctl/internal/github"
)

// The *Doc types mirror the manifest key names. Both the TOML and HCL
// decoders produce them, so the two formats build entities through the same
// code path.

type githubMemberDoc struct {
	UserID   int64    `toml:"github_user_id"`
	UserName string   `toml:"github_user_name"`
	Role     string   `toml:"organization_role"`
	Teams    []string `toml:"teams"`
}

type githubTeamDoc struct {
	TeamID      int64  `toml:"github_team_id"`
	Name        string `toml:"name"`
	Slug        string `toml:"slug"`
	Description string `toml:"description"`
	Parent      string `toml:"parent"`
}

type bitwardenMemberDoc struct {
	ID        string   `toml:"member_id"`
	Name      string   `toml:"member_name"`
	Email     string   `toml:"email"`
	Type      string   `toml:"type"`
	AccessAll bool     `toml:"access_all"`
	Groups    []string `toml:"groups"`
}

type bitwardenGroupDoc struct {
	ID        string `toml:"group_id"`
	Name      string `toml:"group_name"`
	AccessAll bool   `toml:"access_all"`
}

type bitwardenGroupAccessDoc struct {
	GroupName string `toml:"group_name"`
	Access    string `toml:"access"`
}

type bitwardenMemberAccessDoc struct {
	MemberName string `toml:"member_name"`
}

type bitwardenCollectionDoc struct {
	ID           string                     `toml:"collection_id"`
	ExternalID   string                     `toml:"external_id"`
	GroupAccess  []bitwardenGroupAccessDoc  `toml:"group_access"`
	MemberAccess []bitwardenMemberAccessDoc `toml:"member_access"`
}

func decodeGitHubTOML(data []byte) (*GitHub, error) {
	var doc struct {
		Organization Organization      `toml:"organization"`
		Member       []githubMemberDoc `toml:"member"`
		Team         []githubTeamDoc   `toml:"team"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return buildGitHub(doc.Organization, doc.Member, doc.Team)
}

func decodeBitwardenTOML(data []byte) (*Bitwarden, error) {
	var doc struct {
		Member     []bitwardenMemberDoc     `toml:"member"`
		Group      []bitwardenGroupDoc      `toml:"group"`
		Collection []bitwardenCollectionDoc `toml:"collection"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return buildBitwarden(doc.Member, doc.Group, doc.Collection)
}

func buildGitHub(org Organization, members []githubMemberDoc, teams []githubTeamDoc) (*GitHub, error) {
	m := &GitHub{Organization: org}

	for _, mem := range members {
		role, err := github.ParseRole(mem.Role)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", mem.UserName, err)
		}
		m.Members = append(m.Members, github.Member{
			UserID:   mem.UserID,
			UserName: mem.UserName,
			Role:     role,
		})

		for _, team := range mem.Teams {
			m.Memberships = append(m.Memberships, github.TeamMember{
				UserID:   mem.UserID,
				UserName: mem.UserName,
				TeamName: team,
			})
		}
	}

	for _, team := range teams {
		slug := team.Slug
		if slug == "" {
			// The slug defaults to the team name.
			slug = team.Name
		}
		m.Teams = append(m.Teams, github.Team{
			TeamID:      team.TeamID,
			Name:        team.Name,
			Slug:        slug,
			Description: team.Description,
			Parent:      team.Parent,
		})
	}

	return m, nil
}

func buildBitwarden(members []bitwardenMemberDoc, groups []bitwardenGroupDoc, collections []bitwardenCollectionDoc) (*Bitwarden, error) {
	m := &Bitwarden{}

	for _, mem := range members {
		memberType, err := bitwarden.ParseMemberType(mem.Type)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", mem.Name, err)
		}
		m.Members = append(m.Members, bitwarden.Member{
			ID:        mem.ID,
			Name:      mem.Name,
			Email:     mem.Email,
			Type:      memberType,
			AccessAll: mem.AccessAll,
		})

		for _, group := range mem.Groups {
			m.Memberships = append(m.Memberships, bitwarden.GroupMember{
				MemberID:   mem.ID,
				MemberName: mem.Name,
				GroupName:  group,
			})
		}
	}

	for _, g := range groups {
		m.Groups = append(m.Groups, bitwarden.Group{ID: g.ID, Name: g.Name, AccessAll: g.AccessAll})
	}

	for _, col := range collections {
		collection := bitwarden.Collection{ID: col.ID, ExternalID: col.ExternalID}

		// A declared-but-empty access list decodes as an empty non-nil
		// slice and must stay distinguishable from an undeclared one.
		if col.GroupAccess != nil {
			ga := make([]bitwarden.GroupCollectionAccess, 0, len(col.GroupAccess))
			for _, a := range col.GroupAccess {
				access, err := bitwarden.ParseAccessLevel(a.Access)
				if err != nil {
					return nil, fmt.Errorf("collection %s: %w", col.ID, err)
				}
				ga = append(ga, bitwarden.GroupCollectionAccess{Name: a.GroupName, Access: access})
			}
			sort.Slice(ga, func(i, j int) bool { return ga[i].Less(ga[j]) })
			collection.GroupAccess = ga
		}

		if col.MemberAccess != nil {
			ma := make([]bitwarden.MemberCollectionAccess, 0, len(col.MemberAccess))
			for _, a := range col.MemberAccess {
				ma = append(ma, bitwarden.MemberCollectionAccess{Name: a.MemberName})
			}
			sort.Slice(ma, func(i, j int) bool { return ma[i].Less(ma[j]) })
			collection.MemberAccess = ma
		}

		m.Collections = append(m.Collections, collection)
	}

	return m, nil
}
