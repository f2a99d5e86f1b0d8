// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/orgctl/orgctl/internal/snapshot"
)

// SelectSnapshots runs a terminal picker over the snapshot inventory and
// returns the two choices in the order they were marked. Quitting before
// two are marked returns nil.
func SelectSnapshots(items []snapshot.Info) []snapshot.Info {
	final, _ := tea.NewProgram(picker{items: items}).Run()
	return final.(picker).marked
}

// picker is the Bubble Tea model behind SelectSnapshots. marked holds at
// most two entries; mark order decides which document diffs against which.
type picker struct {
	items  []snapshot.Info
	cursor int
	marked []snapshot.Info
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "w":
		return p, tea.WindowSize()
	case "q", "esc":
		p.marked = nil
		return p, tea.Quit
	case "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down":
		if p.cursor+1 < len(p.items) {
			p.cursor++
		}
	case " ":
		p.marked = p.toggle(p.items[p.cursor])
	case "enter":
		if len(p.marked) == 2 {
			return p, tea.Quit
		}
	}
	return p, nil
}

// toggle unmarks an already-marked entry, otherwise marks it while fewer
// than two are marked.
func (p picker) toggle(item snapshot.Info) []snapshot.Info {
	if i := p.markedIndex(item); i >= 0 {
		return slices.Delete(p.marked, i, i+1)
	}
	if len(p.marked) < 2 {
		return append(p.marked, item)
	}
	return p.marked
}

func (p picker) markedIndex(item snapshot.Info) int {
	return slices.IndexFunc(p.marked, func(s snapshot.Info) bool {
		return s.Path == item.Path
	})
}

func (p picker) View() string {
	var b strings.Builder
	b.WriteString("Select two snapshots:\n\n")

	for i, snap := range p.items {
		cursor := ' '
		if i == p.cursor {
			cursor = '>'
		}
		mark := ' '
		if p.markedIndex(snap) >= 0 {
			mark = 'x'
		}
		fmt.Fprintf(&b, "%c [%c] %s %s/%s %s\n",
			cursor, mark, snap.Name, snap.Service, snap.Org, humanize.Time(snap.Taken))
	}

	b.WriteString("\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n")
	return b.String()
}
