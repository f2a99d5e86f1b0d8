// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package slug

import (
	"regexp"
	"strings"
)

var invalidRe = regexp.MustCompile(`[^a-z0-9_]+`)

// Make returns the slug a forge would derive from name: lowercased, with
// runs of characters outside [a-z0-9_] collapsed to single hyphens and
// leading/trailing hyphens trimmed. Underscores survive, matching how
// GitHub slugs team names.
func Make(name string) string {
	if name == "" {
		return ""
	}

	lower := strings.ToLower(name)
	slugged := invalidRe.ReplaceAllString(lower, "-")

	return strings.Trim(slugged, "-")
}

// Diverges returns true if slug is not the one Make would derive from name.
// Teams renamed after creation keep their original slug, so the two drift
// apart over time.
func Diverges(name string, slug string) bool {
	if name == "" || slug == "" {
		return false
	}

	return slug != Make(name)
}
