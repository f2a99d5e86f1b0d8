// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/orgctl/orgctl/internal/attrs"
	"github.com/orgctl/orgctl/internal/config"
	"github.com/orgctl/orgctl/internal/filters"
)

// InterfaceToString renders a cell value as a string. Zero values
// collapse to emptyValue so tables read as sparse rather than noisy.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return empty
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		// Counts, ids and epoch seconds are whole numbers after a trip
		// through JSON, so render without a fraction.
		return strconv.FormatFloat(v, 'f', 0, 64)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}

// SliceDiceSpit is the tail end of every query command: take the raw
// JSON entity array, filter it, apply attribute transforms, sort, and
// emit in whichever format --output asks for. A nil w means stdout.
func SliceDiceSpit(raw bytes.Buffer, list attrs.AttrList, cmd *cli.Command, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	// Raw bypasses the whole pipeline.
	if cmd.String("output") == "raw" {
		_, _ = w.Write(raw.Bytes())
		return
	}

	dataset := filters.FilterDataset(gjson.Parse(raw.String()), list, cmd.String("filter"))

	// THINK --local bolts a time transform onto every attribute even
	// though most are not timestamps. Sniffing the first row for
	// timestamp-shaped values would be tidier.
	if cmd.Bool("local") {
		for i := range list {
			list[i].TransformSpec += "t"
		}
	}
	applyTransforms(dataset, list)

	SortDataset(dataset, cmd.String("sort"))

	switch cmd.String("output") {
	case "json":
		// Key order inside each row is lost here; maps marshal sorted.
		emit(w, dataset, json.Marshal)
	case "yaml":
		emit(w, dataset, yaml.Marshal)
	default:
		TableWriter(dataset, list, cmd, w)
	}
}

func applyTransforms(dataset []map[string]interface{}, list attrs.AttrList) {
	for _, row := range dataset {
		for _, attr := range list {
			if attr.TransformSpec == "" {
				continue
			}
			row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
		}
	}
}

func emit(w io.Writer, dataset []map[string]interface{}, marshal func(interface{}) ([]byte, error)) {
	encoded, err := marshal(dataset)
	if err != nil {
		log.Errorf("emit dataset: %v", err)
		return
	}
	_, _ = w.Write(encoded)
}

// tableStyles carries the three lipgloss styles a rendered table uses.
// The header style doubles for header and footer text.
type tableStyles struct {
	header, even, odd lipgloss.Style
}

func newTableStyles(cmd *cli.Command) tableStyles {
	cell := lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
	styles := tableStyles{
		header: lipgloss.NewStyle().Align(lipgloss.Left).Bold(true),
		even:   cell,
		odd:    cell,
	}

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")
		styles.header = styles.header.Foreground(headerColor)
		styles.even = styles.even.Foreground(evenColor)
		styles.odd = styles.odd.Foreground(oddColor)
	}

	return styles
}

// TableWriter renders the result set as a borderless table, honoring
// the color, titles and padding flags plus any header and footer text
// the command stashed in its metadata. A nil w means stdout.
func TableWriter(
	resultSet []map[string]interface{},
	list attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	if len(resultSet) == 0 {
		return
	}

	styles := newTableStyles(cmd)

	if header, ok := cmd.Metadata["header"].(string); ok {
		fmt.Fprintln(w, styles.header.Render(header))
	}

	pad := cmd.Int("padding")
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := styles.odd
			switch {
			case row == table.HeaderRow:
				style = styles.header
			case row%2 == 0:
				style = styles.even
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Headers().
		Rows(buildRows(resultSet, list)...)

	if cmd.Bool("titles") {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(includedKeys(list)...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if footer, ok := cmd.Metadata["footer"].(string); ok {
		fmt.Fprintln(w, styles.header.Render(footer))
	}
}

// buildRows flattens the result set into table cells, one column per
// included attribute.
func buildRows(resultSet []map[string]interface{}, list attrs.AttrList) [][]string {
	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		var row []string
		for _, attr := range list {
			if attr.Include {
				row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func includedKeys(list attrs.AttrList) []string {
	var keys []string
	for _, attr := range list {
		if attr.Include {
			keys = append(keys, attr.OutputKey)
		}
	}
	return keys
}

// getColors picks the table palette for header, even and odd rows.
func getColors(key string) (header, even, odd color.Color) {
	dark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	header = pickColor(key+".title", dark, "#b08800", "#f6be00")
	even = pickColor(key+".even", dark, "#333333", "#ffffff")
	odd = pickColor(key+".odd", dark, "#0088a0", "#00c8f0")
	return
}

// pickColor honors an explicit config color when one is set, otherwise
// picks the shade matching the terminal background so both light and
// dark themes stay readable.
func pickColor(key string, dark bool, light, shade string) color.Color {
	if configured, err := config.GetString(key); err == nil {
		return lipgloss.Color(configured)
	}
	if dark {
		return lipgloss.Color(shade)
	}
	return lipgloss.Color(light)
}
