// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/orgctl/orgctl/internal/command/oi"
	"github.com/orgctl/orgctl/internal/meta"
	"github.com/orgctl/orgctl/internal/snapshot"
	"github.com/urfave/cli/v3"
)

const oiHistoryLimit = 1000

const oiHelpText = `Query syntax:
  Three query modes supported:

  1. JSON output (queries starting with '.')
     .members                         - All members as JSON
     .teams["platform"]               - Named team as JSON
     .members["octocat"].role         - Attribute value as JSON

  2. List output (queries not starting with '.')
     members                          - List all member addresses
     teams.platform                   - List the named team
     groups[2]                        - List the third group
     members["octocat"].role          - Print an attribute value

  3. Function evaluation (queries starting with '/')
     /length(members)                 - Count members
     /upper(members["octocat"].role)  - Evaluate over an attribute
     /keys(members[0])                - List entity attribute names

  Special queries:
     service                          - Snapshot service name
     org                              - Snapshot organization
     fetched_at                       - When the snapshot was taken

  Navigation:
     ↑/↓ arrows                       - Navigate command history
     Ctrl+C                           - Exit

  Examples:
     .members["octocat"]              - JSON for one member
     /contains(keys(members[0]), "role") - Attribute presence check`

// exchange pairs one submitted query with its rendered reply.
type exchange struct {
	prompt string
	reply  string
}

// oiModel is the Bubble Tea model for the inspector loop. history spans
// sessions via the history file; transcript holds only this session's
// exchanges, which are the ones echoed above the prompt.
type oiModel struct {
	input      textinput.Model
	history    []string
	histIndex  int
	banner     []string
	transcript []exchange
	doc        map[string]interface{}
}

func newOiModel(doc map[string]interface{}) oiModel {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	return oiModel{
		input:     ti,
		history:   readOiHistory(oiHistoryPath()),
		histIndex: -1,
		banner: []string{
			fmt.Sprintf("Interactive snapshot console loaded: %s.", summarizeDocument(doc)),
			"Type 'help' for syntax, 'exit' or Ctrl+C to quit.",
		},
		doc: doc,
	}
}

// summarizeDocument renders a one-line census of the snapshot so the
// banner shows what there is to query.
func summarizeDocument(doc map[string]interface{}) string {
	var parts []string
	for _, section := range []string{"members", "teams", "groups", "collections"} {
		entries, ok := doc[section].([]interface{})
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", len(entries), section))
	}
	if len(parts) == 0 {
		return "empty document"
	}
	return strings.Join(parts, ", ")
}

func (m oiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m oiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		return m.submit()
	case "up":
		return m.recall(-1), nil
	case "down":
		return m.recall(1), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit consumes the current input line. exit and quit end the session
// without being recorded; everything else lands in the history file.
func (m oiModel) submit() (tea.Model, tea.Cmd) {
	entry := m.input.Value()
	m.input.SetValue("")
	if strings.TrimSpace(entry) == "" {
		return m, nil
	}

	if entry == "exit" || entry == "quit" {
		return m, tea.Quit
	}

	reply := oiHelpText
	if entry != "help" {
		reply = captureQueryOutput(m.doc, entry)
	}

	m.history = append(m.history, entry)
	m.histIndex = -1
	m.transcript = append(m.transcript, exchange{prompt: entry, reply: reply})
	writeOiHistory(oiHistoryPath(), m.history)
	return m, nil
}

// recall moves through history. delta is -1 for older entries, +1 for
// newer; stepping past the newest clears the input back to a fresh line.
func (m oiModel) recall(delta int) oiModel {
	if len(m.history) == 0 {
		return m
	}

	switch {
	case delta < 0 && m.histIndex == -1:
		m.histIndex = len(m.history) - 1
	case delta < 0 && m.histIndex > 0:
		m.histIndex--
	case delta > 0 && m.histIndex >= 0 && m.histIndex < len(m.history)-1:
		m.histIndex++
	case delta > 0:
		m.histIndex = -1
	}

	if m.histIndex == -1 {
		m.input.SetValue("")
		return m
	}
	m.input.SetValue(m.history[m.histIndex])
	m.input.CursorEnd()
	return m
}

func (m oiModel) View() string {
	prompt := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#175DDC")). // Bitwarden blue.
		Render("> ")

	var b strings.Builder
	for _, line := range m.banner {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, ex := range m.transcript {
		b.WriteString(prompt)
		b.WriteString(ex.prompt)
		b.WriteByte('\n')
		b.WriteString(ex.reply)
		b.WriteByte('\n')
	}
	b.WriteString(prompt)
	b.WriteString(m.input.View())
	return b.String()
}

// captureQueryOutput runs one inspector query and returns whatever it
// printed. ProcessQuery writes to stdout, so stdout is swapped for a pipe
// around the call; the reader runs concurrently so replies larger than
// the pipe buffer cannot wedge the session.
func captureQueryOutput(doc map[string]interface{}, query string) string {
	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	done := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r) //nolint:errcheck // a short read still yields usable output
		done <- buf.String()
	}()

	saved := os.Stdout
	os.Stdout = w
	oi.ProcessQuery(doc, query)
	os.Stdout = saved
	_ = w.Close() //nolint:errcheck

	out := <-done
	_ = r.Close() //nolint:errcheck

	if out == "" {
		return "No results found."
	}
	return strings.TrimSuffix(out, "\n")
}

// oiHistoryPath returns ~/.orgctl_oi_history, falling back to the working
// directory when the home dir is unresolvable.
func oiHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".orgctl_oi_history"
	}
	return filepath.Join(home, ".orgctl_oi_history")
}

func readOiHistory(path string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entries []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries
}

// writeOiHistory persists the newest oiHistoryLimit entries. History loss
// is tolerable, so write errors never interrupt the session.
func writeOiHistory(path string, entries []string) {
	if len(entries) > oiHistoryLimit {
		entries = entries[len(entries)-oiHistoryLimit:]
	}
	_ = os.WriteFile(path, []byte(strings.Join(entries, "\n")+"\n"), 0o600) //nolint:errcheck
}

// oiCommandAction resolves the requested snapshot, parses it and hands the
// document to the interactive console.
func oiCommandAction(_ context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	avail, err := snapshot.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(avail) == 0 {
		return errors.New("no snapshots found; run a query with --snapshot first")
	}

	var specs []string
	if args := cmd.Args().Slice(); len(args) > 0 && args[0] != "" {
		specs = append(specs, args[0])
	}

	resolved, err := snapshot.Resolve(avail, specs...)
	if err != nil {
		return fmt.Errorf("failed to resolve snapshot spec %v: %w", specs, err)
	}
	info := resolved[0]

	raw, err := snapshot.Read(info.Path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", info.Path, err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse snapshot %s: %w", info.Path, err)
	}

	log.Debugf("inspecting snapshot %s (%s)", info.Path, summarizeDocument(doc))
	if _, err := tea.NewProgram(newOiModel(doc)).Run(); err != nil {
		return fmt.Errorf("console session failed: %w", err)
	}
	return nil
}

// oiCommandBuilder assembles the 'oi' subcommand.
func oiCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "oi",
		Usage:     "org inspector",
		UsageText: "orgctl oi [snapshot-spec]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: oiCommandAction,
	}
}
