// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/meta"
)

// queryCommandSpec carries the per-command pieces of a query subcommand
// (gq, bq). Everything common, the tldr and schema flags, global flags,
// metadata, and flag validation, is wired by newQueryCommand.
type queryCommandSpec struct {
	name      string
	usage     string
	usageText string
	flags     []cli.Flag
	action    cli.ActionFunc
	meta      meta.Meta
}

// newQueryCommand assembles a cli.Command from spec plus the shared flag
// set. spec.flags come first so they lead the help output.
func newQueryCommand(spec queryCommandSpec) *cli.Command {
	flags := append([]cli.Flag{}, spec.flags...)
	flags = append(flags, tldrFlag, schemaFlag)
	flags = append(flags, NewGlobalFlags()...)

	return &cli.Command{
		Name:      spec.name,
		Usage:     spec.usage,
		UsageText: spec.usageText,
		Metadata: map[string]any{
			"meta": spec.meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: spec.action,
	}
}

// queryPipeline is the shared shape of a query action: resolve meta, honor
// the tldr and schema short-circuits, assemble attrs, fetch, emit. Only the
// fetch step differs between commands and kinds.
type queryPipeline[T any] struct {
	name         string
	schema       reflect.Type
	defaultAttrs []string
	fetch        func(context.Context, *cli.Command) ([]T, error)
}

// run drives the pipeline for one invocation.
func (p queryPipeline[T]) run(ctx context.Context, cmd *cli.Command) error {
	log.Debugf("executing %s for %v", p.name, GetMeta(cmd).Args[1:])

	if ShortCircuitTLDR(ctx, cmd, p.name) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, p.schema) {
		return nil
	}

	al := BuildAttrs(cmd, p.defaultAttrs...)
	log.Debugf("attrs: %v", al)

	rows, err := p.fetch(ctx, cmd)
	if err != nil {
		return err
	}
	return EmitEntitySlice(rows, al, cmd)
}
