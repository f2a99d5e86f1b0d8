// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/differ"
	"github.com/orgctl/orgctl/internal/github"
	"github.com/orgctl/orgctl/internal/manifest"
	"github.com/orgctl/orgctl/internal/meta"
)

// gdCommandAction is the action handler for the "gd" subcommand. It loads the
// target manifest, fetches the actual state of the GitHub organization, and
// reports the differences needed to reconcile them. It never writes to
// GitHub.
func gdCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "gd") {
		return nil
	}

	config.Config.Namespace = "gd"

	source := m.ManifestSpec.Manifest
	if source == "" {
		return errors.New("expected file name of target manifest as first argument")
	}

	target, err := manifest.LoadGitHub(ctx, source)
	if err != nil {
		return err
	}

	client, org, err := InitGitHubQuery(ctx, cmd, target.Organization.Name)
	if err != nil {
		return err
	}

	actualMembers, err := client.Members(ctx, org, nil)
	if err != nil {
		return err
	}

	membersDiff := differ.New(target.Members, actualMembers)
	if err := differ.Print(os.Stdout, membersDiff,
		fmt.Sprintf("The following members are specified in %s but not a member of the GitHub organization:", source),
		fmt.Sprintf("The following members of the GitHub organization are not specified in %s:", source),
		fmt.Sprintf("The following members on GitHub need to be changed to match %s:", source),
	); err != nil {
		return err
	}

	actualTeams, err := client.Teams(ctx, org)
	if err != nil {
		return err
	}

	teamsDiff := differ.New(target.Teams, actualTeams)
	if err := differ.Print(os.Stdout, teamsDiff,
		fmt.Sprintf("The following teams specified in %s are not present on GitHub:", source),
		fmt.Sprintf("The following teams in the GitHub organization are not specified in %s:", source),
		fmt.Sprintf("The following teams on GitHub need to be changed to match %s:", source),
	); err != nil {
		return err
	}

	// For all the teams which we want to exist, and which do actually exist,
	// compare their members. The actual team is handed to the membership
	// fetch, not the target team, because the endpoint needs the real slug.
	targetTeamNames := make(map[string]bool, len(target.Teams))
	for _, team := range target.Teams {
		targetTeamNames[team.Name] = true
	}

	for _, team := range actualTeams {
		if !targetTeamNames[team.Name] {
			continue
		}

		var targetMembers []github.TeamMember
		for _, tm := range target.Memberships {
			if tm.TeamName == team.Name {
				targetMembers = append(targetMembers, tm)
			}
		}

		actualTeamMembers, err := client.TeamMembers(ctx, org, team)
		if err != nil {
			return err
		}

		printTeamMembersDiff(os.Stdout, team.Name, source, targetMembers, actualTeamMembers)
	}

	return nil
}

// printTeamMembersDiff reports membership drift for one team. Memberships
// have no canonical rendering, so removals and additions are printed as
// sorted name lists rather than entity diffs, and change pairs never occur.
func printTeamMembersDiff(
	w io.Writer,
	teamName string,
	source string,
	target []github.TeamMember,
	actual []github.TeamMember,
) {
	d := differ.New(target, actual)

	if len(d.ToRemove) > 0 {
		fmt.Fprintf(w,
			"The following members of team '%s' are not specified in %s, but are present on GitHub:\n\n",
			teamName, source)
		for _, member := range d.ToRemove {
			fmt.Fprintf(w, "  %s\n", member.UserName)
		}
		fmt.Fprintln(w)
	}

	if len(d.ToAdd) > 0 {
		fmt.Fprintf(w,
			"The following members of team '%s' are not members on GitHub, but are specified in %s:\n\n",
			teamName, source)
		for _, member := range d.ToAdd {
			fmt.Fprintf(w, "  %s\n", member.UserName)
		}
		fmt.Fprintln(w)
	}
}

// gdCommandBuilder constructs the cli.Command for "gd", wiring metadata,
// flags, and the action handler.
func gdCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "gd",
		Usage:     "github diff",
		UsageText: "orgctl gd <manifest>[::org] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewOrgFlag("gd", meta.Config.Source),
			passphraseFlag,
			tldrFlag,
		},
		Action: gdCommandAction,
	}
}
