// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/attrs"
	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/manifest"
	"github.com/orgctl/orgctl/internal/meta"
	"github.com/orgctl/orgctl/internal/output"
)

// ManifestEntry is one declared entry in a manifest, reduced to the columns
// the summary prints.
type ManifestEntry struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	ID   string `json:"id"`
}

// msDefaultAttrs specifies the attributes displayed for manifest entries.
var msDefaultAttrs = []string{".kind", ".name", ".id"}

// msCommandAction is the action handler for the "ms" subcommand. It reads a
// manifest from a file, an s3:// source, or stdin, detects which service it
// targets, and displays its declared entries in columnar format.
func msCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	header := "\nManifest summary"
	if cmd.String("filter") != "" {
		header += " (filtered)"
	}
	header += ":"
	cmd.Metadata["header"] = header

	config.Config.Namespace = "ms"

	// Get the positional argument (the manifest source or default to stdin).
	var manifestInput string
	if len(m.Args) > 2 && m.Args[2] != "-" {
		manifestInput = m.Args[2]
	} else {
		manifestInput = "-"
	}

	var data []byte
	var err error
	if manifestInput == "-" {
		if data, err = io.ReadAll(os.Stdin); err != nil {
			return fmt.Errorf("failed to read manifest from stdin: %w", err)
		}
	} else {
		if data, err = manifest.Fetch(ctx, manifestInput); err != nil {
			return err
		}
	}

	entries, err := summarizeManifest(manifestInput, data, cmd.Bool("memberships"))
	if err != nil {
		return err
	}

	var jsonData []byte
	if jsonData, err = json.Marshal(entries); err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	attrList := attrs.AttrList{}
	for _, attr := range msDefaultAttrs {
		_ = attrList.Set(attr)
	}

	var raw bytes.Buffer
	raw.Write(jsonData)

	output.SliceDiceSpit(raw, attrList, cmd, os.Stdout)

	return nil
}

// summarizeManifest decodes a manifest of either service and flattens its
// declared entries into summary rows. Membership rows are only produced when
// memberships is true, because large organizations declare thousands of them.
func summarizeManifest(name string, data []byte, memberships bool) ([]ManifestEntry, error) {
	service, err := manifest.Detect(name, data)
	if err != nil {
		return nil, err
	}

	var entries []ManifestEntry

	switch service {
	case manifest.ServiceGitHub:
		target, err := manifest.DecodeGitHub(name, data)
		if err != nil {
			return nil, err
		}
		if target.Organization.Name != "" {
			entries = append(entries, ManifestEntry{Kind: "organization", Name: target.Organization.Name})
		}
		for _, member := range target.Members {
			entries = append(entries, ManifestEntry{
				Kind: "member",
				Name: member.UserName,
				ID:   formatEntryID(member.UserID),
			})
		}
		for _, team := range target.Teams {
			entries = append(entries, ManifestEntry{
				Kind: "team",
				Name: team.Name,
				ID:   formatEntryID(team.TeamID),
			})
		}
		if memberships {
			for _, tm := range target.Memberships {
				entries = append(entries, ManifestEntry{
					Kind: "membership",
					Name: fmt.Sprintf("%s@%s", tm.UserName, tm.TeamName),
					ID:   formatEntryID(tm.UserID),
				})
			}
		}

	case manifest.ServiceBitwarden:
		target, err := manifest.DecodeBitwarden(name, data)
		if err != nil {
			return nil, err
		}
		for _, member := range target.Members {
			entries = append(entries, ManifestEntry{
				Kind: "member",
				Name: member.Name,
				ID:   member.ID,
			})
		}
		for _, group := range target.Groups {
			entries = append(entries, ManifestEntry{
				Kind: "group",
				Name: group.Name,
				ID:   group.ID,
			})
		}
		for _, collection := range target.Collections {
			entries = append(entries, ManifestEntry{
				Kind: "collection",
				Name: collection.ExternalID,
				ID:   collection.ID,
			})
		}
		if memberships {
			for _, gm := range target.Memberships {
				entries = append(entries, ManifestEntry{
					Kind: "membership",
					Name: fmt.Sprintf("%s@%s", gm.MemberName, gm.GroupName),
					ID:   gm.MemberID,
				})
			}
		}

	default:
		return nil, fmt.Errorf("unsupported manifest service %q", service)
	}

	return entries, nil
}

// formatEntryID renders a numeric id, blank when the manifest omitted it.
func formatEntryID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// msCommandBuilder constructs the "ms" subcommand.
func msCommandBuilder(meta meta.Meta) *cli.Command {
	flags := NewGlobalFlags()

	// Remove the --attrs flag since ms's columns are fixed.
	var ms []cli.Flag
	for _, flag := range flags {
		if flag.Names()[0] != "attrs" {
			ms = append(ms, flag)
		}
	}

	return &cli.Command{
		Name:      "ms",
		Usage:     "manifest summary",
		UsageText: "orgctl ms [manifest]",
		Metadata:  map[string]any{"meta": meta},
		Flags: append(ms, []cli.Flag{
			&cli.BoolFlag{
				Name:    "memberships",
				Aliases: []string{"m"},
				Usage:   "include membership rows",
				Value:   false,
			},
		}...),
		Action: msCommandAction,
	}
}
