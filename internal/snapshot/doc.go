// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snapshot stores and finds point-in-time fetches of remote org
// state. Given the stored inventory, it can find specific snapshots based on
// user criteria. It can also read snapshots from arbitrary local files.
package snapshot
