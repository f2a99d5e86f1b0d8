// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bitwarden

import (
	"github.com/orgctl/orgctl/internal/cacheutil"
	"github.com/orgctl/orgctl/internal/config"
)

// Cache entries live under the API hostname. The public API is scoped to one
// organization by the credentials themselves, so there is no organization
// subdirectory the way there is for GitHub. The key is the request path,
// hashed into the filename by cacheutil.
const apiHost = "api.bitwarden.com"

// CacheEntryPath returns the path to the cache entry for the given key, if it
// exists.
func CacheEntryPath(key string) (string, bool) {
	p, exists := cacheutil.EntryPath([]string{apiHost}, key)
	if !exists {
		return "", false
	}
	return p, true
}

// CacheReader reads the cache entry for the given key, if it exists. If the
// cache is disabled, or the entry does not exist, the second return value
// will be false.
func CacheReader(key string) (*cacheutil.Entry, bool) {
	return cacheutil.Read([]string{apiHost}, key)
}

func CacheWriter(key string, data []byte) error {
	return cacheutil.Write([]string{apiHost}, key, data)
}

func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(cleanHours)
}
