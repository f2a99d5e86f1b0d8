// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/manifest"
	"github.com/orgctl/orgctl/internal/meta"
)

// namespaceFor returns the subcommand name, which doubles as the namespace
// for config lookups. A leading flag (-h, --version) means no subcommand.
func namespaceFor(args []string) string {
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		return args[1]
	}
	return ""
}

// manifestSpecFor parses the manifest positional of the diff commands up
// front so the spec's ::org override is available before flag handling. The
// other commands take positionals that are not manifests (query kinds,
// snapshot specs, a shell name) or read stdin.
func manifestSpecFor(ns string, args []string) (meta.ManifestSpec, error) {
	if ns != "gd" && ns != "bd" {
		return meta.ManifestSpec{}, nil
	}
	if len(args) < 3 || strings.HasPrefix(args[2], "-") {
		return meta.ManifestSpec{}, nil
	}

	source, org, err := manifest.ParseSpec(args[2])
	if err != nil {
		return meta.ManifestSpec{}, fmt.Errorf("failed to parse manifest spec (%s): %w", args[2], err)
	}
	return meta.ManifestSpec{Manifest: source, Org: org}, nil
}

// InitApp wires the root command with every subcommand attached. args is
// os.Args; the subcommand is sniffed out of it early because config lookups
// are namespaced by command.
func InitApp(_ context.Context, args []string) (*cli.Command, error) {
	ns := namespaceFor(args)

	cfg, _ := config.Load() //nolint:errcheck // a missing config file is fine, flags may cover everything
	cfg.Namespace = ns
	config.Config.Namespace = ns

	mspec, err := manifestSpecFor(ns, args)
	if err != nil {
		return nil, err
	}

	m := meta.Meta{
		Args:         args,
		Config:       cfg,
		ManifestSpec: mspec,
	}

	app := &cli.Command{
		Name:  "orgctl",
		Usage: "Organization Control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "orgctl version info",
				HideDefault: true,
			},
		},
		Commands: []*cli.Command{
			authCommandBuilder(m),
			bdCommandBuilder(m),
			bqCommandBuilder(m),
			gdCommandBuilder(m),
			gqCommandBuilder(m),
			msCommandBuilder(m),
			oiCommandBuilder(m),
			sdCommandBuilder(m),
			completionCommandBuilder(m),
		},
	}

	// Sort each command's flags for help output.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
