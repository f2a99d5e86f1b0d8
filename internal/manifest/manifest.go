// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/orgctl/orgctl/internal/bitwarden"
	"github.com/orgctl/orgctl/internal/github"
)

// Service identifies which manifest dialect a document uses.
type Service string

const (
	ServiceGitHub    Service = "github"
	ServiceBitwarden Service = "bitwarden"
)

// Organization is the [organization] section of a GitHub manifest.
type Organization struct {
	Name                      string `toml:"name"`
	RepositoryBasePermission  string `toml:"repository_base_permission"`
	RepositoryWriteAccessTeam string `toml:"repository_write_access_team"`
}

// GitHub is the declared target state of a GitHub organization. Memberships
// are derived from the teams listed on each member.
type GitHub struct {
	Organization Organization
	Members      []github.Member
	Teams        []github.Team
	Memberships  []github.TeamMember
}

// Bitwarden is the declared target state of a Bitwarden organization.
// Memberships are derived from the groups listed on each member.
type Bitwarden struct {
	Members     []bitwarden.Member
	Groups      []bitwarden.Group
	Collections []bitwarden.Collection
	Memberships []bitwarden.GroupMember
}

// LoadGitHub fetches and decodes a GitHub manifest.
func LoadGitHub(ctx context.Context, source string) (*GitHub, error) {
	data, err := Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return DecodeGitHub(source, data)
}

// LoadBitwarden fetches and decodes a Bitwarden manifest.
func LoadBitwarden(ctx context.Context, source string) (*Bitwarden, error) {
	data, err := Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return DecodeBitwarden(source, data)
}

// DecodeGitHub decodes a GitHub manifest. The format is chosen by the source
// name's extension: .hcl decodes as HCL, everything else as TOML.
func DecodeGitHub(name string, data []byte) (*GitHub, error) {
	if isHCL(name) {
		return decodeGitHubHCL(name, data)
	}
	return decodeGitHubTOML(data)
}

// DecodeBitwarden decodes a Bitwarden manifest.
func DecodeBitwarden(name string, data []byte) (*Bitwarden, error) {
	if isHCL(name) {
		return decodeBitwardenHCL(name, data)
	}
	return decodeBitwardenTOML(data)
}

// Detect sniffs which service a manifest targets without fully decoding it.
// An organization table or team entries mean GitHub; group or collection
// entries mean Bitwarden; failing those, the member id keys decide.
func Detect(name string, data []byte) (Service, error) {
	if isHCL(name) {
		return detectHCL(name, data)
	}

	var doc struct {
		Organization *Organization            `toml:"organization"`
		Team         []map[string]interface{} `toml:"team"`
		Group        []map[string]interface{} `toml:"group"`
		Collection   []map[string]interface{} `toml:"collection"`
		Member       []map[string]interface{} `toml:"member"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return "", fmt.Errorf("failed to parse manifest: %w", err)
	}

	switch {
	case doc.Organization != nil || len(doc.Team) > 0:
		return ServiceGitHub, nil
	case len(doc.Group) > 0 || len(doc.Collection) > 0:
		return ServiceBitwarden, nil
	}

	for _, m := range doc.Member {
		if _, ok := m["github_user_id"]; ok {
			return ServiceGitHub, nil
		}
		if _, ok := m["member_id"]; ok {
			return ServiceBitwarden, nil
		}
	}

	return "", errors.New("cannot detect manifest service: no organization, team, group, or collection entries")
}

func isHCL(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".hcl")
}
