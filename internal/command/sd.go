// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/differ"
	"github.com/orgctl/orgctl/internal/meta"
	"github.com/orgctl/orgctl/internal/snapshot"
)

// sdCommandAction is the action handler for the "sd" subcommand. It resolves
// two snapshot specs against the snapshot inventory and reports the
// structural differences between the documents.
func sdCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "sd") {
		return nil
	}

	config.Config.Namespace = "sd"

	infos, err := snapshot.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return errors.New("no snapshots found; run a query with --snapshot first")
	}

	var resolved []snapshot.Info

	specs := cmd.Args().Slice()
	if slices.Contains(specs, "+") {
		// A quit with nothing selected is a no-op, not an error.
		resolved = differ.SelectSnapshots(infos)
		if len(resolved) == 0 {
			return nil
		}
	} else {
		if specs, err = defaultDiffSpecs(specs); err != nil {
			return err
		}
		if resolved, err = snapshot.Resolve(infos, specs...); err != nil {
			return err
		}
	}

	if len(resolved) != 2 {
		return fmt.Errorf("expected two snapshots to diff, got %d", len(resolved))
	}

	docs := make([][]byte, 0, 2)
	for _, info := range resolved {
		doc, err := snapshot.Read(info.Path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	return differ.Compare(os.Stdout, cmd, docs)
}

// defaultDiffSpecs fills in the implied snapshot specs. No specs diffs the
// previous snapshot against the latest; one spec diffs it against the
// latest.
func defaultDiffSpecs(specs []string) ([]string, error) {
	switch len(specs) {
	case 0:
		return []string{"SNAP~1", "SNAP~0"}, nil
	case 1:
		return []string{specs[0], "SNAP~0"}, nil
	case 2:
		return specs, nil
	}
	return nil, fmt.Errorf("expected at most two snapshot specs, got %d", len(specs))
}

// sdCommandBuilder constructs the cli.Command for "sd", wiring metadata,
// flags, and the action handler.
func sdCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "sd",
		Usage:     "snapshot diff",
		UsageText: "orgctl sd [specA specB | +]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:   "diff_filter",
				Hidden: true,
				Value:  "fetched_at",
			},
			tldrFlag,
		},
		Action: sdCommandAction,
	}
}
