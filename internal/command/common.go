// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/attrs"
	"github.com/orgctl/orgctl/internal/meta"
	"github.com/orgctl/orgctl/internal/output"
)

// BuildAttrs assembles the attribute list for a query: the command's
// defaults first, then whatever --attrs adds, then the global
// transform spec from config.
func BuildAttrs(cmd *cli.Command, defaults ...string) attrs.AttrList {
	var al attrs.AttrList

	specs := append([]string{}, defaults...)
	if extras := cmd.String("attrs"); extras != "" {
		specs = append(specs, extras)
	}

	for _, spec := range specs {
		// Set tolerates malformed fragments, so an error here is not fatal
		// to the rest of the list.
		_ = al.Set(spec)
	}

	al.SetGlobalTransformSpec()

	return al
}

// DumpSchemaIfRequested handles --schema: print the attribute names
// available on t and report true so the caller can stop there.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if !cmd.Bool("schema") {
		return false
	}

	output.DumpSchema("", t, nil)
	return true
}

// EmitEntitySlice marshals a slice of entities as a JSON array and
// hands it to the common output pipeline.
func EmitEntitySlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	output.SliceDiceSpit(*bytes.NewBuffer(data), al, cmd, os.Stdout)
	return nil
}

// GetMeta returns the meta.Meta stashed in the command's Metadata, or
// the zero value when absent.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}

	m, _ := cmd.Metadata["meta"].(meta.Meta)
	return m
}

// ShortCircuitTLDR handles --tldr: when the tldr client is on PATH,
// show its page for the subcommand. Returns true whenever the flag was
// set so the caller exits without running the query.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if !cmd.Bool("tldr") {
		return false
	}

	if _, err := exec.LookPath("tldr"); err == nil {
		tldr := exec.CommandContext(ctx, "tldr", "orgctl", subcmd)
		tldr.Stdout = os.Stdout
		tldr.Stderr = os.Stderr
		_ = tldr.Run()
	}

	return true
}
