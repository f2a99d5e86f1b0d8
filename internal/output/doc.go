// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output is the tail of the query pipeline: it sorts and
// stringifies entity datasets, renders them as tables, JSON or YAML,
// and dumps entity attribute schemas for --schema.
package output
