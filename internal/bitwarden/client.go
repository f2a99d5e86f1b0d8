// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bitwarden

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenURL = "https://identity.bitwarden.com/connect/token"
	apiBase  = "https://api.bitwarden.com"
)

// Client wraps the read paths of the Bitwarden public API. Requests carry a
// client-credentials bearer token, retry transient failures, and cache their
// raw response bodies keyed by the request path.
type Client struct {
	http *http.Client
}

// NewClient builds a client from an organization API key pair. The token
// request runs lazily on first use and refreshes itself on expiry.
func NewClient(ctx context.Context, clientID, clientSecret string) *Client {
	if err := PurgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	retry := retryablehttp.NewClient()
	retry.RetryMax = 4
	retry.Logger = nil

	// Both the token request and the API requests go through the retrying
	// client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, retry.StandardClient())

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{"api.organization"},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &Client{http: cfg.Client(ctx)}
}

// Members returns the organization roster.
func (c *Client) Members(ctx context.Context) ([]Member, error) {
	var payload struct {
		Data []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			Email     string `json:"email"`
			Type      int    `json:"type"`
			AccessAll bool   `json:"accessAll"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, "/public/members", &payload); err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(payload.Data))
	for _, m := range payload.Data {
		memberType, err := MemberTypeFromInt(m.Type)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", m.ID, err)
		}
		members = append(members, Member{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Type:      memberType,
			AccessAll: m.AccessAll,
		})
	}
	return members, nil
}

// Groups returns the organization's groups.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var payload struct {
		Data []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			AccessAll bool   `json:"accessAll"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, "/public/groups", &payload); err != nil {
		return nil, err
	}

	groups := make([]Group, 0, len(payload.Data))
	for _, g := range payload.Data {
		groups = append(groups, Group{ID: g.ID, Name: g.Name, AccessAll: g.AccessAll})
	}
	return groups, nil
}

// GroupMembers lists the members of a group. The endpoint only returns ids,
// so a member lookup runs per id.
func (c *Client) GroupMembers(ctx context.Context, group Group) ([]GroupMember, error) {
	var ids []string
	if err := c.getJSON(ctx, "/public/groups/"+group.ID+"/member-ids", &ids); err != nil {
		return nil, err
	}

	members := make([]GroupMember, 0, len(ids))
	for _, id := range ids {
		var m struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := c.getJSON(ctx, "/public/members/"+id, &m); err != nil {
			return nil, err
		}
		members = append(members, GroupMember{
			MemberID:   m.ID,
			MemberName: m.Name,
			GroupName:  group.Name,
		})
	}
	return members, nil
}

// Collections returns the organization's collections with group and member
// access resolved. Member access is derived from the groups granted access,
// and the member-ids endpoint only returns ids, which is why the roster is
// passed in. A null externalId normalizes to the empty string.
func (c *Client) Collections(ctx context.Context, orgMembers map[string]Member) ([]Collection, error) {
	var payload struct {
		Data []struct {
			ID         string  `json:"id"`
			ExternalID *string `json:"externalId"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, "/public/collections", &payload); err != nil {
		return nil, err
	}

	collections := make([]Collection, 0, len(payload.Data))
	for _, col := range payload.Data {
		var detail struct {
			Groups []struct {
				ID       string `json:"id"`
				ReadOnly bool   `json:"readOnly"`
			} `json:"groups"`
		}
		if err := c.getJSON(ctx, "/public/collections/"+col.ID, &detail); err != nil {
			return nil, err
		}

		var ga []GroupCollectionAccess
		for _, g := range detail.Groups {
			access := AccessWrite
			if g.ReadOnly {
				access = AccessReadOnly
			}

			var named struct {
				Name string `json:"name"`
			}
			if err := c.getJSON(ctx, "/public/groups/"+g.ID, &named); err != nil {
				return nil, err
			}

			ga = append(ga, GroupCollectionAccess{Name: named.Name, Access: access})
		}
		slices.SortFunc(ga, compareGroupEntry)

		var groupAccess []GroupCollectionAccess
		var memberAccess []MemberCollectionAccess
		if len(ga) > 0 {
			groupAccess = ga

			var ma []MemberCollectionAccess
			for _, g := range detail.Groups {
				var ids []string
				if err := c.getJSON(ctx, "/public/groups/"+g.ID+"/member-ids", &ids); err != nil {
					return nil, err
				}
				for _, id := range ids {
					member, ok := orgMembers[id]
					if !ok {
						return nil, fmt.Errorf("collection %s: group member %s is not in the organization roster", col.ID, id)
					}
					ma = append(ma, MemberCollectionAccess{Name: member.Name})
				}
			}
			slices.SortFunc(ma, compareMemberEntry)

			if len(ma) > 0 {
				memberAccess = ma
			}
		}

		externalID := ""
		if col.ExternalID != nil {
			externalID = *col.ExternalID
		}

		collections = append(collections, Collection{
			ID:           col.ID,
			ExternalID:   externalID,
			GroupAccess:  groupAccess,
			MemberAccess: memberAccess,
		})
	}
	return collections, nil
}

// get fetches one API path, reading through the cache.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if entry, ok := CacheReader(path); ok {
		log.Debugf("cache hit: %s", entry.Path)
		return entry.Data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return nil, fmt.Errorf(
				"authentication failed (%d). Check BITWARDEN_CLIENT_ID/BITWARDEN_CLIENT_SECRET or run 'orgctl auth bitwarden'",
				rerr.Response.StatusCode)
		}
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("got %d from %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	if err := CacheWriter(path, body); err != nil {
		log.WithError(err).Warn("failed to write cache entry")
	}

	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
