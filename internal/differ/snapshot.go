// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Compare renders the structural diff between two snapshot documents to w.
// Keys named in the command's diff_filter flag (volatile noise like fetch
// timestamps) are dropped from the rendered context.
func Compare(w io.Writer, cmd *cli.Command, docs [][]byte) error {
	older, newer := docs[0], docs[1]
	if len(older) == 0 || len(newer) == 0 {
		return nil
	}

	log.Debugf("diffing %d bytes against %d", len(older), len(newer))

	delta, err := gojsondiff.New().Compare(older, newer)
	if err != nil {
		return fmt.Errorf("failed to compare snapshots: %w", err)
	}

	if !delta.Modified() {
		fmt.Fprintln(w, "The snapshots are identical.")
		return nil
	}

	rendered, err := render(older, delta, cmd.String("diff_filter"))
	if err != nil {
		return err
	}

	fmt.Fprintln(w, rendered)
	return nil
}

// render formats the delta against the older document, with the drop-listed
// keys removed from the context lines.
func render(base []byte, delta gojsondiff.Diff, dropList string) (string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(base, &doc); err != nil {
		return "", fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	for key := range strings.SplitSeq(dropList, ",") {
		if key != "" {
			delete(doc, key)
		}
	}

	f := formatter.NewAsciiFormatter(doc, formatter.AsciiFormatterConfig{
		Coloring: true,
	})
	return f.Format(delta)
}
