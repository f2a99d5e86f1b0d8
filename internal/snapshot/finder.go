// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Resolve maps snapshot specs onto the inventory, which arrives newest
// first. Supported spec forms:
//
//	SNAP~N         relative index, 0 is the most recent
//	N (<= 0)       relative index written as a bare number
//	N (> 0)        the unix timestamp the snapshot was taken at
//	existing path  a snapshot file, even one outside the snapshot dir
//	anything else  a snapshot name prefix
//
// No specs at all resolves to the most recent snapshot.
func Resolve(infos []Info, specs ...string) ([]Info, error) {
	if len(specs) == 0 {
		specs = []string{"SNAP~0"}
	}

	result := make([]Info, 0, len(specs))
	for _, spec := range specs {
		info, err := resolveSpec(spec, infos)
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, nil
}

func resolveSpec(spec string, infos []Info) (Info, error) {
	if rest, ok := cutSnapPrefix(spec); ok {
		return byOffset(spec, rest, infos)
	}
	if n, err := strconv.Atoi(spec); err == nil {
		return byNumber(n, infos)
	}
	if _, err := os.Stat(spec); err == nil {
		return byFile(spec)
	}
	return byNamePrefix(spec, infos)
}

// cutSnapPrefix strips a case-insensitive SNAP~ prefix.
func cutSnapPrefix(spec string) (string, bool) {
	if len(spec) < 5 || !strings.EqualFold(spec[:5], "SNAP~") {
		return "", false
	}
	return spec[5:], true
}

// byOffset resolves a SNAP~N spec. spec is the original token, kept for
// error messages; rest is what followed the prefix.
func byOffset(spec, rest string, infos []Info) (Info, error) {
	if strings.Contains(rest, "~") {
		return Info{}, fmt.Errorf("invalid SNAP spec format: %s", spec)
	}

	index, err := strconv.Atoi(rest)
	if err != nil {
		return Info{}, fmt.Errorf("invalid SNAP index: %s", rest)
	}
	return at(index, infos)
}

// byNumber treats n as a relative index when <= 0, otherwise as the unix
// timestamp the snapshot was taken at.
func byNumber(n int, infos []Info) (Info, error) {
	if n <= 0 {
		return at(-n, infos)
	}

	for _, info := range infos {
		if info.Taken.Unix() == int64(n) {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("failed to find snapshot taken at %d", n)
}

// byFile resolves an existing file, recovering the snapshot identity from
// the filename when it is one of ours.
func byFile(spec string) (Info, error) {
	if info, ok := parsePath(spec); ok {
		return info, nil
	}

	stat, err := os.Stat(spec)
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat snapshot file %s: %w", spec, err)
	}

	return Info{
		Path:  spec,
		Name:  strings.TrimSuffix(filepath.Base(spec), ".json"),
		Taken: stat.ModTime(),
		Size:  stat.Size(),
	}, nil
}

func byNamePrefix(spec string, infos []Info) (Info, error) {
	for _, info := range infos {
		if strings.HasPrefix(info.Name, spec) {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("failed to find snapshot with name prefix: %s", spec)
}

// at indexes the inventory, newest first.
func at(index int, infos []Info) (Info, error) {
	if index < 0 || index >= len(infos) {
		return Info{}, fmt.Errorf("index %d out of range for snapshots of length %d", index, len(infos))
	}
	return infos[index], nil
}
