// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

var (
	schemaFlag = &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}

	// Hidden unless the tldr client is actually installed.
	tldrFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}

	snapshotFlag = &cli.BoolFlag{
		Name:        "snapshot",
		Usage:       "write the fetched state to a snapshot",
		HideDefault: true,
	}

	passphraseFlag = &cli.StringFlag{
		Name:    "passphrase",
		Aliases: []string{"p"},
		Usage:   "credentials store passphrase",
	}
)

func strFlag(name, alias, usage string) *cli.StringFlag {
	return &cli.StringFlag{Name: name, Aliases: []string{alias}, Usage: usage}
}

func boolFlag(name, alias, usage string) *cli.BoolFlag {
	return &cli.BoolFlag{Name: name, Aliases: []string{alias}, Usage: usage}
}

// NewGlobalFlags returns the output-shaping flag set every query and diff
// command shares.
func NewGlobalFlags() []cli.Flag {
	output := strFlag("output", "o", "output format")
	output.Value = "text"
	output.Validator = func(value string) error {
		return FlagValidators(value, OutputValidator)
	}

	return []cli.Flag{
		strFlag("attrs", "a", "comma-separated list of attributes to include in results"),
		boolFlag("color", "c", "enable colored text output"),
		strFlag("filter", "f", "comma-separated list of filters to apply to results"),
		boolFlag("local", "l", "show local timestamps"),
		output,
		strFlag("sort", "s", "comma-separated list of attributes to sort the results by"),
		boolFlag("titles", "t", "show titles with text output"),
	}
}

// NewOrgFlag builds the "org" flag with its value source chain: the flag
// itself, ORGCTL_ORG, then the ns.org and org keys of the config file at
// cfgFile. gd and bd tolerate the flag being unset since their org comes
// from the manifest.
func NewOrgFlag(ns string, cfgFile string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "org",
		Usage: "organization to use for queries. Overrides the manifest",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("ORGCTL_ORG"),
		),
	}
	if cfgFile == "" {
		return flag
	}
	return withConfigSources(flag, ns, cfgFile)
}

// withConfigSources appends ns.key then bare-key lookups in the config file
// to the flag's source chain.
func withConfigSources(flag *cli.StringFlag, ns string, path string) *cli.StringFlag {
	for _, key := range []string{ns + "." + flag.Name, flag.Name} {
		flag.Sources.Chain = append(flag.Sources.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
	}
	return flag
}

// pathHas checks if the given executable exists on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
