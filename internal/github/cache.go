// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"github.com/orgctl/orgctl/internal/cacheutil"
	"github.com/orgctl/orgctl/internal/config"
)

// Cache entries are organized first by the API hostname and then by the
// organization name. The key is the logical REST path that produced the
// data, hashed into the filename by cacheutil.
const apiHost = "api.github.com"

// CacheEntryPath returns the path to the cache entry for the given key, if it
// exists.
func CacheEntryPath(org, key string) (string, bool) {
	p, exists := cacheutil.EntryPath([]string{apiHost, org}, key)
	if !exists {
		return "", false
	}
	return p, true
}

// CacheReader reads the cache entry for the given key, if it exists. If the
// cache is disabled, or the entry does not exist, the second return value
// will be false.
func CacheReader(org, key string) (*cacheutil.Entry, bool) {
	return cacheutil.Read([]string{apiHost, org}, key)
}

func CacheWriter(org, key string, data []byte) error {
	return cacheutil.Write([]string{apiHost, org}, key, data)
}

func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(cleanHours)
}
