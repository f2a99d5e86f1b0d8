// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package manifest loads declared target state for an organization from TOML
// or HCL documents, locally or from S3. Decoding produces the entity types
// of the github and bitwarden packages, with team and group memberships
// derived from the member declarations.
package manifest
