// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes and renders differences between a declared
// target set of entities and the actual set observed on a remote service,
// and structural differences between saved snapshots.
package differ
