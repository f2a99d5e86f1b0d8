// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads orgctl.yaml and serves dotted-key lookups with
// typed getters. The file lives in the platform user config directory
// per os.UserConfigDir (~/.config/orgctl.yaml on Linux), with
// ORGCTL_CFG_FILE as an explicit override. Keys may be namespaced per
// command, so a "gq:" section applies only to gq lookups.
package config
