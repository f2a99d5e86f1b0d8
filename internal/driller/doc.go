// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller digs dotted key paths out of raw JSON entity payloads,
// which is how filters and attribute selection reach fields the typed
// structs do not surface.
package driller
