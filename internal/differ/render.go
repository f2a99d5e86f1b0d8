// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Print writes the diff in report form. Each non-empty section prints its
// caller-supplied header, then per entry a blank line followed by the
// entity rendering indented two spaces, then one trailing blank line.
// Change entries print a line-level diff of the actual rendering against
// the target rendering. Empty sections print nothing, headers included.
func Print[E Renderable[E]](w io.Writer, d Diff[E], headerAdd, headerRemove, headerChange string) error {
	if len(d.ToAdd) > 0 {
		fmt.Fprintln(w, headerAdd)
		for _, e := range d.ToAdd {
			fmt.Fprintln(w)
			printIndented(w, e.Render())
		}
		fmt.Fprintln(w)
	}

	if len(d.ToRemove) > 0 {
		fmt.Fprintln(w, headerRemove)
		for _, e := range d.ToRemove {
			fmt.Fprintln(w)
			printIndented(w, e.Render())
		}
		fmt.Fprintln(w)
	}

	if len(d.ToChange) > 0 {
		fmt.Fprintln(w, headerChange)
		for _, change := range d.ToChange {
			fmt.Fprintln(w)
			if err := printLineDiff(w, change.Actual.Render(), change.Target.Render()); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

// printIndented writes each line of the input indented by two spaces.
func printIndented(w io.Writer, lines string) {
	for _, line := range strings.Split(lines, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// printLineDiff writes a line-based diff of the two strings. Unlike a
// unified diff it never abbreviates runs of identical lines; the full
// context is part of the report. Replace runs print all removed lines
// first, then all inserted lines.
func printLineDiff(w io.Writer, actual, target string) error {
	linesActual := strings.Split(actual, "\n")
	linesTarget := strings.Split(target, "\n")

	matcher := difflib.NewMatcher(linesActual, linesTarget)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for _, line := range linesActual[op.I1:op.I2] {
				fmt.Fprintf(w, "  %s\n", line)
			}
		case 'r':
			for _, line := range linesActual[op.I1:op.I2] {
				fmt.Fprintf(w, "- %s\n", line)
			}
			for _, line := range linesTarget[op.J1:op.J2] {
				fmt.Fprintf(w, "+ %s\n", line)
			}
		case 'd':
			for _, line := range linesActual[op.I1:op.I2] {
				fmt.Fprintf(w, "- %s\n", line)
			}
		case 'i':
			for _, line := range linesTarget[op.J1:op.J2] {
				fmt.Fprintf(w, "+ %s\n", line)
			}
		default:
			return fmt.Errorf("invalid diff operation %q", op.Tag)
		}
	}

	return nil
}
