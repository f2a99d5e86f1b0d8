// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/orgctl/orgctl/internal/cacheutil"
	"github.com/orgctl/orgctl/internal/command"
	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/log"
	"github.com/orgctl/orgctl/internal/version"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if slices.Contains(args, "--version") || slices.Contains(args, "-v") {
		fmt.Println(version.Version)
		return 0
	}

	if len(args) < 2 {
		args = append(args, "--help")
	}

	// With --help anywhere the CLI renders usage, so the rewrites would
	// only get in the way.
	if !slices.Contains(args, "--help") && !slices.Contains(args, "-h") {
		args = rewriteArgs(args)
	}

	return run(context.Background(), args)
}

// rewriteArgs applies the pre-parse rewrites: @set expansion, flag dedup
// and the implied "-" manifest source for ms. completion is exempt so
// shell script output passes through untouched.
func rewriteArgs(args []string) []string {
	if args[1] == "completion" {
		return args
	}

	args = expandArgSet(args)
	log.Debugf("args after set expansion: args=%v", args)

	// Set expansion can re-introduce flags the command line already
	// carries; the explicit occurrence wins.
	args = deduplicateFlags(args)
	log.Debugf("args after flag dedup: args=%v", args)

	if args[1] == "ms" {
		args = impliedMsSource(args)
	}
	return args
}

// expandArgSet replaces the first @name token with the "<command>.<name>"
// argument set from the config file, split into fields at the token's
// position. Entries after the token still override what the set carries.
func expandArgSet(args []string) []string {
	at := -1
	for i := 2; i < len(args); i++ {
		if strings.HasPrefix(args[i], "@") {
			at = i
			break
		}
	}
	if at == -1 {
		return args
	}

	entries, _ := config.GetStringSlice(args[1] + "." + args[at][1:]) //nolint:errcheck // an unknown set expands to nothing

	head := append([]string{}, args[:at]...)
	for _, entry := range entries {
		head = append(head, strings.Fields(entry)...)
	}
	return append(head, args[at+1:]...)
}

// deduplicateFlags removes repeated flag occurrences from the args, keeping
// the last occurrence at its later position. A flag token without '=' owns
// the following token as its value when that token is not itself a flag.
// Positional arguments pass through untouched.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type unit struct {
		tokens []string
		key    string // Empty for positionals
	}

	var units []unit
	tail := args[2:]
	for i := 0; i < len(tail); i++ {
		token := tail[i]
		if !strings.HasPrefix(token, "-") {
			units = append(units, unit{tokens: []string{token}})
			continue
		}

		key := token
		if eq := strings.Index(token, "="); eq != -1 {
			key = token[:eq]
		}

		u := unit{tokens: []string{token}, key: key}
		if !strings.Contains(token, "=") && i+1 < len(tail) && !strings.HasPrefix(tail[i+1], "-") {
			u.tokens = append(u.tokens, tail[i+1])
			i++
		}
		units = append(units, u)
	}

	// Drop every unit that a later unit's key repeats.
	keep := make([]bool, len(units))
	for i := range units {
		keep[i] = true
		if units[i].key == "" {
			continue
		}
		for j := i + 1; j < len(units); j++ {
			if units[j].key == units[i].key {
				keep[i] = false
				break
			}
		}
	}

	result := args[:2:2]
	for i, u := range units {
		if keep[i] {
			result = append(result, u.tokens...)
		}
	}
	return result
}

// impliedMsSource inserts the "-" stdin source when the token after "ms"
// is not already a manifest source.
func impliedMsSource(args []string) []string {
	if len(args) > 2 && isManifestSource(args[2]) {
		return args
	}
	return append(args[:2:2], append([]string{"-"}, args[2:]...)...)
}

// isManifestSource reports whether arg can serve as a manifest source:
// stdin, an s3:// URL or an existing local file.
func isManifestSource(arg string) bool {
	if arg == "-" || strings.HasPrefix(arg, "s3://") {
		return true
	}
	_, err := os.Stat(arg)
	return err == nil
}

// run builds the CLI and executes it. Init failures exit 1, command
// failures exit 2.
func run(ctx context.Context, args []string) int {
	// Pre-create the cache directory when caching is enabled.
	if _, enabled, err := cacheutil.EnsureBaseDir(); err != nil && enabled {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}
