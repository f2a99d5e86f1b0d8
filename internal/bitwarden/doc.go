// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package bitwarden models a Bitwarden organization's members, groups,
// collections, and group memberships, and fetches their current state
// through the Bitwarden public API. The entity types render themselves in
// the manifest's TOML shape so target and actual state diff line by line.
package bitwarden
