// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/bitwarden"
	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/meta"
	"github.com/orgctl/orgctl/internal/snapshot"
)

// Default attributes displayed for each Bitwarden kind in "bq" command
// output.
var (
	bqMembersDefaultAttrs     = []string{"member_id:id", "member_name:name", "email", "type"}
	bqGroupsDefaultAttrs      = []string{"group_id:id", "group_name:name", "access_all"}
	bqCollectionsDefaultAttrs = []string{"collection_id:id", "external_id"}
)

// bqCommandAction is the action handler for the "bq" subcommand. It
// dispatches on the queried kind, fetches live Bitwarden state, and emits
// results per common flags. The organization is implied by the API key pair.
func bqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "bq"

	kind := strings.ToLower(cmd.Args().First())
	if kind == "" {
		kind = "members"
	}
	if err := OneOfValidator("members", "groups", "collections")(kind); err != nil {
		return fmt.Errorf("unknown bitwarden kind %q: %w", kind, err)
	}

	switch kind {
	case "groups":
		return bqGroups(ctx, cmd)
	case "collections":
		return bqCollections(ctx, cmd)
	default:
		return bqMembers(ctx, cmd)
	}
}

// bqMembers lists organization members.
func bqMembers(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]bitwarden.Member, error) {
		client, err := InitBitwardenQuery(ctx, cmd)
		if err != nil {
			return nil, err
		}

		members, err := client.Members(ctx)
		if err != nil {
			return nil, err
		}

		if cmd.Bool("snapshot") {
			groups, err := client.Groups(ctx)
			if err != nil {
				return nil, err
			}
			collections, err := client.Collections(ctx, memberMap(members))
			if err != nil {
				return nil, err
			}
			if err := writeBitwardenSnapshot(cmd, members, groups, collections); err != nil {
				return nil, err
			}
		}

		return members, nil
	}

	return queryPipeline[bitwarden.Member]{
		name:         "bq",
		schema:       reflect.TypeOf((*bitwarden.Member)(nil)).Elem(),
		defaultAttrs: bqMembersDefaultAttrs,
		fetch:        fn,
	}.run(ctx, cmd)
}

// bqGroups lists organization groups.
func bqGroups(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]bitwarden.Group, error) {
		client, err := InitBitwardenQuery(ctx, cmd)
		if err != nil {
			return nil, err
		}

		groups, err := client.Groups(ctx)
		if err != nil {
			return nil, err
		}

		if cmd.Bool("snapshot") {
			members, err := client.Members(ctx)
			if err != nil {
				return nil, err
			}
			collections, err := client.Collections(ctx, memberMap(members))
			if err != nil {
				return nil, err
			}
			if err := writeBitwardenSnapshot(cmd, members, groups, collections); err != nil {
				return nil, err
			}
		}

		return groups, nil
	}

	return queryPipeline[bitwarden.Group]{
		name:         "bq",
		schema:       reflect.TypeOf((*bitwarden.Group)(nil)).Elem(),
		defaultAttrs: bqGroupsDefaultAttrs,
		fetch:        fn,
	}.run(ctx, cmd)
}

// bqCollections lists organization collections. Member access entries derive
// from the groups' member ids, so the member roster is fetched first.
func bqCollections(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]bitwarden.Collection, error) {
		client, err := InitBitwardenQuery(ctx, cmd)
		if err != nil {
			return nil, err
		}

		members, err := client.Members(ctx)
		if err != nil {
			return nil, err
		}

		collections, err := client.Collections(ctx, memberMap(members))
		if err != nil {
			return nil, err
		}

		if cmd.Bool("snapshot") {
			groups, err := client.Groups(ctx)
			if err != nil {
				return nil, err
			}
			if err := writeBitwardenSnapshot(cmd, members, groups, collections); err != nil {
				return nil, err
			}
		}

		return collections, nil
	}

	return queryPipeline[bitwarden.Collection]{
		name:         "bq",
		schema:       reflect.TypeOf((*bitwarden.Collection)(nil)).Elem(),
		defaultAttrs: bqCollectionsDefaultAttrs,
		fetch:        fn,
	}.run(ctx, cmd)
}

// memberMap keys members by id for collection access resolution.
func memberMap(members []bitwarden.Member) map[string]bitwarden.Member {
	m := make(map[string]bitwarden.Member, len(members))
	for _, member := range members {
		m[member.ID] = member
	}
	return m
}

// writeBitwardenSnapshot stores fetched Bitwarden state as a snapshot
// document. Bitwarden API keys do not carry an org name, so the label comes
// from --org and falls back to "default".
func writeBitwardenSnapshot(
	cmd *cli.Command,
	members []bitwarden.Member,
	groups []bitwarden.Group,
	collections []bitwarden.Collection,
) error {
	org := cmd.String("org")
	if org == "" {
		org = "default"
	}

	doc := &snapshot.Document{
		Service:   "bitwarden",
		Org:       org,
		FetchedAt: time.Now(),
	}

	var err error
	if doc.Members, err = json.Marshal(members); err != nil {
		return fmt.Errorf("failed to marshal members: %w", err)
	}
	if doc.Groups, err = json.Marshal(groups); err != nil {
		return fmt.Errorf("failed to marshal groups: %w", err)
	}
	if doc.Collections, err = json.Marshal(collections); err != nil {
		return fmt.Errorf("failed to marshal collections: %w", err)
	}

	path, err := snapshot.Write(doc)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Snapshot written to %s\n", path)
	return nil
}

// bqCommandBuilder constructs the cli.Command for "bq", wiring metadata,
// flags, and action handlers.
func bqCommandBuilder(meta meta.Meta) *cli.Command {
	return newQueryCommand(queryCommandSpec{
		name:      "bq",
		usage:     "bitwarden query",
		usageText: "orgctl bq [members|groups|collections] [options]",
		flags: []cli.Flag{
			NewOrgFlag("bq", meta.Config.Source),
			passphraseFlag,
			snapshotFlag,
		},
		action: bqCommandAction,
		meta:   meta,
	})
}
