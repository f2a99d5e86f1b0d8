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

	"github.com/apex/log"
	gogithub "github.com/google/go-github/v66/github"
	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/filters"
	"github.com/orgctl/orgctl/internal/github"
	"github.com/orgctl/orgctl/internal/meta"
	"github.com/orgctl/orgctl/internal/snapshot"
)

// Default attributes displayed for each GitHub kind in "gq" command output.
var (
	gqMembersDefaultAttrs = []string{"github_user_id:id", "github_user_name:login", "role"}
	gqTeamsDefaultAttrs   = []string{"github_team_id:id", "name", "slug", "parent"}
)

// gqCommandAction is the action handler for the "gq" subcommand. It dispatches
// on the queried kind, fetches live GitHub state for the selected
// organization, and emits results per common flags.
func gqCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "gq"

	kind := strings.ToLower(cmd.Args().First())
	if kind == "" {
		kind = "members"
	}
	if err := OneOfValidator("members", "teams")(kind); err != nil {
		return fmt.Errorf("unknown github kind %q: %w", kind, err)
	}

	if kind == "teams" {
		return gqTeams(ctx, cmd)
	}
	return gqMembers(ctx, cmd)
}

// gqMembers lists organization members. Server-side filters narrow the API
// call itself; everything else is filtered client-side by the output
// framework.
func gqMembers(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]github.Member, error) {
		client, org, err := InitGitHubQuery(ctx, cmd, "")
		if err != nil {
			return nil, err
		}

		options := &gogithub.ListMembersOptions{}
		applyServerSideFilters(cmd, options)

		members, err := client.Members(ctx, org, options)
		if err != nil {
			return nil, err
		}

		// A snapshot records the full org state, so the complementary kind
		// is fetched as well.
		if cmd.Bool("snapshot") {
			teams, err := client.Teams(ctx, org)
			if err != nil {
				return nil, err
			}
			if err := writeGitHubSnapshot(org, members, teams); err != nil {
				return nil, err
			}
		}

		return members, nil
	}

	return queryPipeline[github.Member]{
		name:         "gq",
		schema:       reflect.TypeOf((*github.Member)(nil)).Elem(),
		defaultAttrs: gqMembersDefaultAttrs,
		fetch:        fn,
	}.run(ctx, cmd)
}

// gqTeams lists organization teams.
func gqTeams(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]github.Team, error) {
		client, org, err := InitGitHubQuery(ctx, cmd, "")
		if err != nil {
			return nil, err
		}

		teams, err := client.Teams(ctx, org)
		if err != nil {
			return nil, err
		}

		if cmd.Bool("snapshot") {
			members, err := client.Members(ctx, org, nil)
			if err != nil {
				return nil, err
			}
			if err := writeGitHubSnapshot(org, members, teams); err != nil {
				return nil, err
			}
		}

		return teams, nil
	}

	return queryPipeline[github.Team]{
		name:         "gq",
		schema:       reflect.TypeOf((*github.Team)(nil)).Elem(),
		defaultAttrs: gqTeamsDefaultAttrs,
		fetch:        fn,
	}.run(ctx, cmd)
}

// applyServerSideFilters maps the _role (all, admin, member) and _2fa
// (disabled) filter keys onto the list options GitHub evaluates server-side.
// Everything else stays client-side.
func applyServerSideFilters(cmd *cli.Command, opts *gogithub.ListMembersOptions) {
	for _, f := range filters.BuildFilters(cmd.String("filter")) {
		if !f.ServerSide {
			continue
		}
		switch f.Key {
		case "role":
			opts.Role = f.Value
		case "2fa":
			if f.Value == "disabled" {
				opts.Filter = "2fa_disabled"
			}
		}
	}
	log.Debugf("list options after server-side filters: %+v", opts)
}

// writeGitHubSnapshot stores fetched GitHub state as a snapshot document and
// reports the path on stderr so stdout stays clean for query output.
func writeGitHubSnapshot(org string, members []github.Member, teams []github.Team) error {
	doc := &snapshot.Document{
		Service:   "github",
		Org:       org,
		FetchedAt: time.Now(),
	}

	var err error
	if doc.Members, err = json.Marshal(members); err != nil {
		return fmt.Errorf("failed to marshal members: %w", err)
	}
	if doc.Teams, err = json.Marshal(teams); err != nil {
		return fmt.Errorf("failed to marshal teams: %w", err)
	}

	path, err := snapshot.Write(doc)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Snapshot written to %s\n", path)
	return nil
}

// gqCommandBuilder constructs the cli.Command for "gq", wiring metadata,
// flags, and action handlers.
func gqCommandBuilder(meta meta.Meta) *cli.Command {
	return newQueryCommand(queryCommandSpec{
		name:      "gq",
		usage:     "github query",
		usageText: "orgctl gq [members|teams] [options]",
		flags: []cli.Flag{
			NewOrgFlag("gq", meta.Config.Source),
			passphraseFlag,
			snapshotFlag,
		},
		action: gqCommandAction,
		meta:   meta,
	})
}
