// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// The HCL dialect uses labeled blocks where TOML uses array tables, e.g.
//
//	member "octocat" {
//	  github_user_id    = 583231
//	  organization_role = "member"
//	  teams             = ["developers"]
//	}
//
// Unlike TOML, HCL cannot declare an access list that is present but empty;
// an omitted block list decodes as undeclared.

type githubHCLDoc struct {
	Organization *organizationHCLDoc  `hcl:"organization,block"`
	Teams        []githubTeamHCLDoc   `hcl:"team,block"`
	Members      []githubMemberHCLDoc `hcl:"member,block"`
}

type organizationHCLDoc struct {
	Name                      string `hcl:"name"`
	RepositoryBasePermission  string `hcl:"repository_base_permission,optional"`
	RepositoryWriteAccessTeam string `hcl:"repository_write_access_team,optional"`
}

type githubTeamHCLDoc struct {
	Name        string `hcl:"name,label"`
	TeamID      int64  `hcl:"github_team_id"`
	Slug        string `hcl:"slug,optional"`
	Description string `hcl:"description,optional"`
	Parent      string `hcl:"parent,optional"`
}

type githubMemberHCLDoc struct {
	UserName string   `hcl:"github_user_name,label"`
	UserID   int64    `hcl:"github_user_id"`
	Role     string   `hcl:"organization_role"`
	Teams    []string `hcl:"teams,optional"`
}

type bitwardenHCLDoc struct {
	Members     []bitwardenMemberHCLDoc     `hcl:"member,block"`
	Groups      []bitwardenGroupHCLDoc      `hcl:"group,block"`
	Collections []bitwardenCollectionHCLDoc `hcl:"collection,block"`
}

type bitwardenMemberHCLDoc struct {
	Name      string   `hcl:"member_name,label"`
	ID        string   `hcl:"member_id"`
	Email     string   `hcl:"email"`
	Type      string   `hcl:"type"`
	AccessAll bool     `hcl:"access_all,optional"`
	Groups    []string `hcl:"groups,optional"`
}

type bitwardenGroupHCLDoc struct {
	Name      string `hcl:"group_name,label"`
	ID        string `hcl:"group_id"`
	AccessAll bool   `hcl:"access_all,optional"`
}

type bitwardenCollectionHCLDoc struct {
	ID           string                        `hcl:"collection_id,label"`
	ExternalID   string                        `hcl:"external_id,optional"`
	GroupAccess  []bitwardenGroupAccessHCLDoc  `hcl:"group_access,block"`
	MemberAccess []bitwardenMemberAccessHCLDoc `hcl:"member_access,block"`
}

type bitwardenGroupAccessHCLDoc struct {
	GroupName string `hcl:"group_name"`
	Access    string `hcl:"access"`
}

type bitwardenMemberAccessHCLDoc struct {
	MemberName string `hcl:"member_name"`
}

func decodeGitHubHCL(name string, data []byte) (*GitHub, error) {
	f, err := parseHCL(name, data)
	if err != nil {
		return nil, err
	}

	var doc githubHCLDoc
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &doc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest: %s", diags.Error())
	}

	members := make([]githubMemberDoc, 0, len(doc.Members))
	for _, m := range doc.Members {
		members = append(members, githubMemberDoc{
			UserID:   m.UserID,
			UserName: m.UserName,
			Role:     m.Role,
			Teams:    m.Teams,
		})
	}

	teams := make([]githubTeamDoc, 0, len(doc.Teams))
	for _, t := range doc.Teams {
		teams = append(teams, githubTeamDoc{
			TeamID:      t.TeamID,
			Name:        t.Name,
			Slug:        t.Slug,
			Description: t.Description,
			Parent:      t.Parent,
		})
	}

	var org Organization
	if doc.Organization != nil {
		org = Organization{
			Name:                      doc.Organization.Name,
			RepositoryBasePermission:  doc.Organization.RepositoryBasePermission,
			RepositoryWriteAccessTeam: doc.Organization.RepositoryWriteAccessTeam,
		}
	}

	return buildGitHub(org, members, teams)
}

func decodeBitwardenHCL(name string, data []byte) (*Bitwarden, error) {
	f, err := parseHCL(name, data)
	if err != nil {
		return nil, err
	}

	var doc bitwardenHCLDoc
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &doc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest: %s", diags.Error())
	}

	members := make([]bitwardenMemberDoc, 0, len(doc.Members))
	for _, m := range doc.Members {
		members = append(members, bitwardenMemberDoc{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Type:      m.Type,
			AccessAll: m.AccessAll,
			Groups:    m.Groups,
		})
	}

	groups := make([]bitwardenGroupDoc, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		groups = append(groups, bitwardenGroupDoc{ID: g.ID, Name: g.Name, AccessAll: g.AccessAll})
	}

	collections := make([]bitwardenCollectionDoc, 0, len(doc.Collections))
	for _, c := range doc.Collections {
		col := bitwardenCollectionDoc{ID: c.ID, ExternalID: c.ExternalID}
		for _, a := range c.GroupAccess {
			col.GroupAccess = append(col.GroupAccess, bitwardenGroupAccessDoc{
				GroupName: a.GroupName,
				Access:    a.Access,
			})
		}
		for _, a := range c.MemberAccess {
			col.MemberAccess = append(col.MemberAccess, bitwardenMemberAccessDoc{MemberName: a.MemberName})
		}
		collections = append(collections, col)
	}

	return buildBitwarden(members, groups, collections)
}

func detectHCL(name string, data []byte) (Service, error) {
	f, err := parseHCL(name, data)
	if err != nil {
		return "", err
	}

	content, _, _ := f.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "organization"},
			{Type: "team", LabelNames: []string{"name"}},
			{Type: "group", LabelNames: []string{"name"}},
			{Type: "collection", LabelNames: []string{"id"}},
			{Type: "member", LabelNames: []string{"name"}},
		},
	})

	var memberBlocks []*hcl.Block
	for _, b := range content.Blocks {
		switch b.Type {
		case "organization", "team":
			return ServiceGitHub, nil
		case "group", "collection":
			return ServiceBitwarden, nil
		case "member":
			memberBlocks = append(memberBlocks, b)
		}
	}

	// Only member blocks: the id attribute decides.
	for _, b := range memberBlocks {
		inner, _, _ := b.Body.PartialContent(&hcl.BodySchema{
			Attributes: []hcl.AttributeSchema{
				{Name: "github_user_id"},
				{Name: "member_id"},
			},
		})
		if _, ok := inner.Attributes["github_user_id"]; ok {
			return ServiceGitHub, nil
		}
		if _, ok := inner.Attributes["member_id"]; ok {
			return ServiceBitwarden, nil
		}
	}

	return "", errors.New("cannot detect manifest service: no organization, team, group, or collection blocks")
}

func parseHCL(name string, data []byte) (*hcl.File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest: %s", diags.Error())
	}
	return f, nil
}

// evalContext exposes the process environment as an env object, so manifests
// can interpolate values like env.GITHUB_ORG.
func evalContext() *hcl.EvalContext {
	vals := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vals)},
	}
}
