// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/orgctl/orgctl/internal/cacheutil"
)

// Document is the on-disk form of a point-in-time fetch of an org. Only the
// entity collections the source service has are populated.
type Document struct {
	Service     string          `json:"service"`
	Org         string          `json:"org"`
	FetchedAt   time.Time       `json:"fetched_at"`
	Members     json.RawMessage `json:"members,omitempty"`
	Teams       json.RawMessage `json:"teams,omitempty"`
	Groups      json.RawMessage `json:"groups,omitempty"`
	Collections json.RawMessage `json:"collections,omitempty"`
}

// Info describes one stored snapshot without loading its body.
type Info struct {
	Path    string
	Name    string
	Service string
	Org     string
	Taken   time.Time
	Size    int64
}

// Dir returns the snapshot directory under the cache tree, creating it if
// needed. Snapshots are written on explicit request, so this ignores the
// cache enable switch.
func Dir() (string, error) {
	base, ok := cacheutil.Dir()
	if !ok {
		return "", fmt.Errorf("failed to determine a cache dir for snapshots")
	}

	dir := filepath.Join(base, cacheutil.SnapshotsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir %s: %w", dir, err)
	}

	return dir, nil
}

// Write stores doc under the snapshot directory and returns the path it was
// written to.
func Write(doc *Document) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}

	if doc.FetchedAt.IsZero() {
		doc.FetchedAt = time.Now()
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	name := fmt.Sprintf("orgctl-%s-%s-%d.json", doc.Service, doc.Org, doc.FetchedAt.Unix())
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}

	log.Debugf("wrote snapshot %s (%d bytes)", path, len(data))

	return path, nil
}

// List returns the stored snapshot inventory, most recent first. Files under
// the snapshot dir that don't follow the snapshot naming scheme are skipped.
func List() ([]Info, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(filepath.Join(dir, "orgctl-*.json"))
	if err != nil {
		return nil, err
	}

	var infos []Info
	for _, p := range paths {
		info, ok := parsePath(p)
		if !ok {
			log.Debugf("skipping non-snapshot file %s", p)
			continue
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Taken.After(infos[j].Taken)
	})

	return infos, nil
}

// Read returns the raw bytes of the snapshot at path.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	return data, nil
}

// Load parses the snapshot at path.
func Load(path string) (*Document, error) {
	data, err := Read(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	return &doc, nil
}

// parsePath recovers an Info from a snapshot filename of the form
// orgctl-<service>-<org>-<unix>.json. Org names may contain hyphens, so the
// service is the first segment and the timestamp the last.
func parsePath(path string) (Info, bool) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, ".json")

	trimmed := strings.TrimPrefix(name, "orgctl-")
	if trimmed == name {
		return Info{}, false
	}

	service, rest, ok := strings.Cut(trimmed, "-")
	if !ok {
		return Info{}, false
	}

	lastDash := strings.LastIndex(rest, "-")
	if lastDash < 1 {
		return Info{}, false
	}

	ts, err := strconv.ParseInt(rest[lastDash+1:], 10, 64)
	if err != nil {
		return Info{}, false
	}

	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, false
	}

	return Info{
		Path:    path,
		Name:    name,
		Service: service,
		Org:     rest[:lastDash],
		Taken:   time.Unix(ts, 0),
		Size:    stat.Size(),
	}, true
}
