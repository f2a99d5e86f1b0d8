// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// This package must not import other orgctl packages; everything may
// import it.

package version

import "runtime/debug"

// Version is the module version the Go toolchain stamped into the binary,
// or "dev" for untagged local builds.
var Version = fromBuildInfo()

func fromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}
