// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command assembles the orgctl CLI: one builder per subcommand,
// the shared flag set and validators, and the query pipeline the read
// commands run through.
package command
