// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws wraps SDK v2 config loading and the S3 client so manifest
// sources can fetch objects without carrying SDK plumbing themselves.
package aws
