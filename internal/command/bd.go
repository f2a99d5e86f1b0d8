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

	"github.com/orgctl/orgctl/internal/bitwarden"
	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/differ"
	"github.com/orgctl/orgctl/internal/manifest"
	"github.com/orgctl/orgctl/internal/meta"
)

// bdCommandAction is the action handler for the "bd" subcommand. It loads the
// target manifest, fetches the actual state of the Bitwarden organization,
// and reports the differences needed to reconcile them. It never writes to
// Bitwarden.
func bdCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "bd") {
		return nil
	}

	config.Config.Namespace = "bd"

	source := m.ManifestSpec.Manifest
	if source == "" {
		return errors.New("expected file name of target manifest as first argument")
	}

	target, err := manifest.LoadBitwarden(ctx, source)
	if err != nil {
		return err
	}

	client, err := InitBitwardenQuery(ctx, cmd)
	if err != nil {
		return err
	}

	actualMembers, err := client.Members(ctx)
	if err != nil {
		return err
	}

	membersDiff := differ.New(target.Members, actualMembers)
	if err := differ.Print(os.Stdout, membersDiff,
		fmt.Sprintf("The following members are specified in %s but not a member of the Bitwarden organization:", source),
		fmt.Sprintf("The following members are not specified in %s but are a member of the Bitwarden organization:", source),
		fmt.Sprintf("The following members on Bitwarden need to be changed to match %s:", source),
	); err != nil {
		return err
	}

	actualCollections, err := client.Collections(ctx, memberMap(actualMembers))
	if err != nil {
		return err
	}

	collectionsDiff := differ.New(target.Collections, actualCollections)
	if err := differ.Print(os.Stdout, collectionsDiff,
		fmt.Sprintf("The following collections are specified in %s but not a member of the Bitwarden organization:", source),
		fmt.Sprintf("The following collections are not specified in %s but are a member of the Bitwarden organization:", source),
		fmt.Sprintf("The following collections on Bitwarden need to be changed to match %s:", source),
	); err != nil {
		return err
	}

	actualGroups, err := client.Groups(ctx)
	if err != nil {
		return err
	}

	groupsDiff := differ.New(target.Groups, actualGroups)
	if err := differ.Print(os.Stdout, groupsDiff,
		fmt.Sprintf("The following groups specified in %s are not present on Bitwarden:", source),
		fmt.Sprintf("The following groups are not specified in %s but are present on Bitwarden:", source),
		fmt.Sprintf("The following groups on Bitwarden need to be changed to match %s:", source),
	); err != nil {
		return err
	}

	// For all the groups which we want to exist, and which do actually exist,
	// compare their members.
	targetGroupNames := make(map[string]bool, len(target.Groups))
	for _, group := range target.Groups {
		targetGroupNames[group.Name] = true
	}

	for _, group := range actualGroups {
		if !targetGroupNames[group.Name] {
			continue
		}

		var targetMembers []bitwarden.GroupMember
		for _, gm := range target.Memberships {
			if gm.GroupName == group.Name {
				targetMembers = append(targetMembers, gm)
			}
		}

		actualGroupMembers, err := client.GroupMembers(ctx, group)
		if err != nil {
			return err
		}

		printGroupMembersDiff(os.Stdout, group.Name, source, targetMembers, actualGroupMembers)
	}

	return nil
}

// printGroupMembersDiff reports membership drift for one group. Memberships
// have no canonical rendering, so removals and additions are printed as
// sorted name lists rather than entity diffs, and change pairs never occur.
func printGroupMembersDiff(
	w io.Writer,
	groupName string,
	source string,
	target []bitwarden.GroupMember,
	actual []bitwarden.GroupMember,
) {
	d := differ.New(target, actual)

	if len(d.ToRemove) > 0 {
		fmt.Fprintf(w,
			"The following members of group '%s' are not specified in %s, but are present on Bitwarden:\n\n",
			groupName, source)
		for _, member := range d.ToRemove {
			fmt.Fprintf(w, "  %s\n", member.MemberName)
		}
		fmt.Fprintln(w)
	}

	if len(d.ToAdd) > 0 {
		fmt.Fprintf(w,
			"The following members of group '%s' are specified in %s, but are not present on Bitwarden:\n\n",
			groupName, source)
		for _, member := range d.ToAdd {
			fmt.Fprintf(w, "  %s\n", member.MemberName)
		}
		fmt.Fprintln(w)
	}
}

// bdCommandBuilder constructs the cli.Command for "bd", wiring metadata,
// flags, and the action handler. Bitwarden API keys are organization-scoped,
// so there is no org flag here.
func bdCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "bd",
		Usage:     "bitwarden diff",
		UsageText: "orgctl bd <manifest> [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			passphraseFlag,
			tldrFlag,
		},
		Action: bdCommandAction,
	}
}
