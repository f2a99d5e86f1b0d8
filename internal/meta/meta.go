// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"github.com/orgctl/orgctl/internal/config"
)

// ManifestSpec is the parsed form of a manifest positional: the source
// (path, stdin or s3:// URL) plus the optional ::org override.
type ManifestSpec struct {
	Manifest string
	Org      string
}

// Meta is the runtime context handed to every command builder: the raw CLI
// arguments, the loaded config, and the manifest spec when the invocation
// named one.
type Meta struct {
	Args   []string
	Config config.Type
	ManifestSpec
}
