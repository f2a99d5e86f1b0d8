// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	gogithub "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Client wraps the read paths of the GitHub REST API. All list calls fetch
// 100 entries per page, follow pagination to the end, and cache their final
// result keyed by the request path.
type Client struct {
	gh *gogithub.Client
}

// NewClient builds an authenticated client. The token needs the read:org
// scope so membership role lookups work.
func NewClient(ctx context.Context, token string) *Client {
	if err := PurgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{gh: gogithub.NewClient(tc)}
}

const perPage = 100

// Members returns the organization roster with each member's organization
// role. The role is not part of the member listing, so a membership lookup
// runs per member, with a progress counter on stderr because this is by far
// the slowest part of a fetch.
func (c *Client) Members(ctx context.Context, org string, opts *gogithub.ListMembersOptions) ([]Member, error) {
	key := membersCacheKey(org, opts)
	if members, ok := readCached[Member](org, key); ok {
		return members, nil
	}

	if opts == nil {
		opts = &gogithub.ListMembersOptions{}
	}
	if opts.PerPage == 0 {
		opts.PerPage = perPage
	}

	var users []*gogithub.User
	for {
		page, resp, err := c.gh.Organizations.ListMembers(ctx, org, opts)
		if err != nil {
			return nil, Friendly(err, ErrorContext{Org: org, Operation: "list members"})
		}
		users = append(users, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	clearLine := "\x1b[2K\r"
	members := make([]Member, 0, len(users))
	for i, user := range users {
		login := user.GetLogin()
		fmt.Fprintf(os.Stderr, "%s[%d / %d] Retrieving membership: %s", clearLine, i+1, len(users), login)

		membership, _, err := c.gh.Organizations.GetOrgMembership(ctx, login, org)
		if err != nil {
			fmt.Fprintln(os.Stderr)
			return nil, Friendly(err, ErrorContext{Org: org, Operation: "get membership for " + login})
		}

		role, err := ParseRole(membership.GetRole())
		if err != nil {
			fmt.Fprintln(os.Stderr)
			return nil, fmt.Errorf("membership for %s: %w", login, err)
		}

		members = append(members, Member{
			UserID:   user.GetID(),
			UserName: login,
			Role:     role,
		})
	}
	// The trailing newline keeps the final status update visible.
	fmt.Fprintln(os.Stderr)

	writeCached(org, key, members)
	return members, nil
}

// Teams returns the organization's teams. A null API description normalizes
// to the empty string.
func (c *Client) Teams(ctx context.Context, org string) ([]Team, error) {
	key := fmt.Sprintf("/orgs/%s/teams", org)
	if teams, ok := readCached[Team](org, key); ok {
		return teams, nil
	}

	opts := &gogithub.ListOptions{PerPage: perPage}

	var teams []Team
	for {
		page, resp, err := c.gh.Teams.ListTeams(ctx, org, opts)
		if err != nil {
			return nil, Friendly(err, ErrorContext{Org: org, Operation: "list teams"})
		}
		for _, t := range page {
			team := Team{
				TeamID:      t.GetID(),
				Name:        t.GetName(),
				Slug:        t.GetSlug(),
				Description: t.GetDescription(),
			}
			if parent := t.GetParent(); parent != nil {
				team.Parent = parent.GetName()
			}
			teams = append(teams, team)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	writeCached(org, key, teams)
	return teams, nil
}

// TeamMembers lists the members of a team. The endpoint addresses teams by
// slug, so callers must pass the team as fetched from the API, not as
// declared in a manifest.
func (c *Client) TeamMembers(ctx context.Context, org string, team Team) ([]TeamMember, error) {
	key := fmt.Sprintf("/orgs/%s/teams/%s/members", org, team.Slug)
	if members, ok := readCached[TeamMember](org, key); ok {
		return members, nil
	}

	opts := &gogithub.TeamListTeamMembersOptions{
		ListOptions: gogithub.ListOptions{PerPage: perPage},
	}

	var members []TeamMember
	for {
		page, resp, err := c.gh.Teams.ListTeamMembersBySlug(ctx, org, team.Slug, opts)
		if err != nil {
			return nil, Friendly(err, ErrorContext{Org: org, Team: team.Name, Operation: "list team members"})
		}
		for _, u := range page {
			members = append(members, TeamMember{
				UserID:   u.GetID(),
				UserName: u.GetLogin(),
				TeamName: team.Name,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	writeCached(org, key, members)
	return members, nil
}

// membersCacheKey folds the server-side filters into the cache key so a
// filtered listing never satisfies an unfiltered one.
func membersCacheKey(org string, opts *gogithub.ListMembersOptions) string {
	key := fmt.Sprintf("/orgs/%s/members", org)
	if opts == nil {
		return key
	}

	var params []string
	if opts.Filter != "" {
		params = append(params, "filter="+opts.Filter)
	}
	if opts.Role != "" {
		params = append(params, "role="+opts.Role)
	}
	if len(params) > 0 {
		key += "?" + strings.Join(params, "&")
	}

	return key
}

func readCached[E any](org, key string) ([]E, bool) {
	entry, ok := CacheReader(org, key)
	if !ok {
		return nil, false
	}
	log.Debugf("cache hit: %s", entry.Path)

	var items []E
	if err := json.Unmarshal(entry.Data, &items); err != nil {
		log.WithError(err).Warnf("discarding unreadable cache entry: %s", entry.Path)
		return nil, false
	}
	return items, true
}

func writeCached[E any](org, key string, items []E) {
	data, err := json.Marshal(items)
	if err != nil {
		log.WithError(err).Warn("failed to encode cache entry")
		return
	}
	if err := CacheWriter(org, key, data); err != nil {
		log.WithError(err).Warn("failed to write cache entry")
	}
}
