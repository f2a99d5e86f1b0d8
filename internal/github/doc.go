// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package github models a GitHub organization's members, teams, and team
// memberships, and fetches their current state through the GitHub REST API.
// The entity types render themselves in the manifest's TOML shape so target
// and actual state diff line by line.
package github
