// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows query results client side.
//
// A --filter spec is a delimited list of key-operand-target
// expressions, comma delimited unless ORGCTL_FILTER_DELIM says
// otherwise. Keys name attribute output keys (see the attrs package).
// A leading underscore marks a filter the forge API already applied
// server side, those are parsed but never evaluated here.
//
// The operands, each negatable with a leading !:
//
//	=  exact match            privacy=closed
//	~  case-folded match      login~OctoCat
//	^  prefix                 name^eng-
//	@  substring / membership maintainers@hubot
//	/  regex                  login/^svc-
//	<  less than              members_count<10
//	>  greater than           members_count>5
//
// Comparisons go numeric when the candidate value is a number,
// otherwise they are string ordered. The special key "divergent"
// keeps teams whose slug no longer matches the slug their current
// name would generate ("divergent=false" inverts the selection).
//
// BuildFilters parses a spec, dropping malformed entries with a
// logged warning. FilterDataset applies the parsed filters to a JSON
// entity array and projects the survivors onto an attribute list.
package filters
