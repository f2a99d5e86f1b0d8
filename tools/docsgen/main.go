// docsgen renders the per-subcommand reference pages from the catalog at
// docs/templates/orgctl.yaml. Every subcommand gets a markdown page, a man
// page and a tldr page; the tldr pages are what --tldr surfaces when a
// tldr client is installed.
//
// Usage: docsgen <docs-dir>
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog is the root of the orgctl.yaml document.
type Catalog struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      struct {
		Flags []FlagDoc `yaml:"flags"`
	} `yaml:"common"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Common      bool      `yaml:"common,omitempty"`
	Flags       []FlagDoc `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type FlagDoc struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

// Page is the data a template renders: the subcommand with merged flags
// plus the page chrome.
type Page struct {
	Cmd     Subcommand
	Date    string
	Version string
	IDUpper string
}

// target describes one output format.
type target struct {
	template string
	dir      string
	prefix   string
	suffix   string
}

var targets = []target{
	{template: "orgctl.md.tmpl", dir: "commands", suffix: ".md"},
	{template: "orgctl.man.tmpl", dir: filepath.Join("man", "share", "man1"), prefix: "orgctl-", suffix: ".1"},
	{template: "orgctl.tldr.tmpl", dir: "tldr", prefix: "orgctl-", suffix: ".md"},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs-dir>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(docsDir string) error {
	catalog, err := loadCatalog(filepath.Join(docsDir, "templates", "orgctl.yaml"))
	if err != nil {
		return err
	}

	date := time.Now().Format("January 2, 2006")
	version := describeVersion()

	for _, sub := range catalog.Subcommands {
		// The shared output-shaping flags only apply where common: true.
		shared := catalog.Common.Flags
		if !sub.Common {
			shared = nil
		}
		sub.Flags = mergeFlags(shared, sub.Flags)

		page := Page{
			Cmd:     sub,
			Date:    date,
			Version: version,
			IDUpper: strings.ToUpper(sub.ID),
		}

		for _, tgt := range targets {
			if err := render(docsDir, tgt, page); err != nil {
				return err
			}
		}
	}

	return nil
}

func loadCatalog(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}

	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return catalog, nil
}

// mergeFlags combines the shared flags with the subcommand's own, sorted
// by ID so the option tables read alphabetically.
func mergeFlags(common, own []FlagDoc) []FlagDoc {
	merged := append(slices.Clone(common), own...)
	slices.SortFunc(merged, func(a, b FlagDoc) int {
		return strings.Compare(a.ID, b.ID)
	})
	return merged
}

func render(docsDir string, tgt target, page Page) error {
	tmpl, err := template.ParseFiles(filepath.Join(docsDir, "templates", tgt.template))
	if err != nil {
		return err
	}

	outDir := filepath.Join(docsDir, tgt.dir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	out := filepath.Join(outDir, tgt.prefix+page.Cmd.ID+tgt.suffix)
	fmt.Println("Generating", out)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, page)
}

// describeVersion takes the newest tag, without the leading v, and falls
// back to "dev" outside a tagged checkout.
func describeVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "v")
}
