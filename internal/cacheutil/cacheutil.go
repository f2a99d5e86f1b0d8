// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/orgctl/orgctl/internal/log"
)

// SnapshotsSubdir holds saved org snapshots beneath the cache base. It is
// exempt from TTL purging; snapshots are deliberate artifacts, not cache.
const SnapshotsSubdir = "snapshots"

const (
	dirMode  = 0o755
	fileMode = 0o600
)

// Entry is a cached artifact on disk. Key is the clear-text key and
// EncodedKey the hashed filename it is stored under.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
}

// Enabled reports whether caching is on. Only ORGCTL_CACHE=0 or
// ORGCTL_CACHE=false turn it off; unset or any other value leaves it on.
func Enabled() bool {
	switch os.Getenv("ORGCTL_CACHE") {
	case "0", "false":
		return false
	}
	return true
}

// Dir resolves the base cache directory. ORGCTL_CACHE_DIR wins when set and
// non-empty, otherwise os.UserCacheDir()/orgctl. The second return is false
// when no base can be resolved, which callers treat the same as a disabled
// cache.
func Dir() (string, bool) {
	if override := os.Getenv("ORGCTL_CACHE_DIR"); override != "" {
		return override, true
	}
	user, err := os.UserCacheDir()
	if err != nil || user == "" {
		return "", false
	}
	return filepath.Join(user, "orgctl"), true
}

// EnsureBaseDir creates the base cache directory. The bool reports whether
// the cache is usable at all; the error is non-nil only when a base was
// resolved but could not be created.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}

	base, ok := Dir()
	if !ok {
		return "", false, nil
	}

	if err := os.MkdirAll(base, dirMode); err != nil {
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	log.Debugf("created cache dir: path=%s", base)
	return base, true, nil
}

// EntryPath computes where the entry for clearKey would live beneath the
// given subdirectories, and reports whether a file is already there.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	parts := append([]string{base}, subdirs...)
	path := filepath.Join(append(parts, encodeKey(clearKey))...)
	_, err := os.Stat(path)
	return path, err == nil
}

// Read fetches the entry stored for clearKey. The bool is false on any kind
// of miss: caching disabled, no resolvable base, or no readable file.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	path, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       path,
		Data:       bytes.TrimSpace(raw),
	}, true
}

// Write stores data under clearKey beneath subdirs, creating directories as
// needed. A disabled or unresolvable cache is a silent no-op.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}
	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	path := filepath.Join(dir, encodeKey(clearKey))
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", clearKey)
	return nil
}

// Purge removes cache files older than hours. The snapshots subtree is left
// alone. hours <= 0 disables purging entirely.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	if err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			// Entries can vanish mid-walk when scheduled runs overlap.
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil {
			return nil
		}
		if info.IsDir() {
			if info.Name() == SnapshotsSubdir {
				return filepath.SkipDir
			}
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
		} else {
			log.Debugf("removed cache file %s", path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// encodeKey turns a clear-text key into its on-disk filename, a sha256 hex
// digest.
func encodeKey(clear string) string {
	sum := sha256.Sum256([]byte(clear))
	return hex.EncodeToString(sum[:])
}
