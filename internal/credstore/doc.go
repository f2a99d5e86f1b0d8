// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package credstore resolves API credentials for the services orgctl talks
// to. Environment variables always win; after that an encrypted credentials
// file under the user config dir is consulted. The file is sealed with
// AES-256-GCM under a PBKDF2-derived key and written by 'orgctl auth'.
package credstore
