// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package oi

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ParsedQuery is one console query broken into its addressing parts.
type ParsedQuery struct {
	Section   string      // Entity section, e.g., "members", "teams"
	Selector  interface{} // int position, string name or id, nil for all
	Attribute string      // Attribute name, e.g., "role", "slug"
}

// headerFields are the snapshot header keys answerable without parsing.
var headerFields = []string{"service", "org", "fetched_at"}

// ProcessQuery evaluates one console query against the snapshot document
// and prints the result. Three modes share the prompt: function
// evaluation, JSON output, and plain list output.
func ProcessQuery(doc map[string]interface{}, query string) {
	if expr, ok := expressionQuery(query); ok {
		fmt.Println(evaluateFunction(expr, doc))
		return
	}

	// A leading dot asks for JSON instead of list output.
	query, jsonMode := strings.CutPrefix(query, ".")

	if result := handleSpecialQueries(doc, query); result != nil {
		if jsonMode {
			printJSON(result)
		} else {
			fmt.Println(result)
		}
		return
	}

	parsed, err := ParseQuery(query)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		return
	}

	matches := FindMatchingEntities(doc, parsed)

	switch {
	case parsed.Attribute != "":
		for _, match := range matches {
			value := ExtractAttribute(match, parsed)
			if value == nil {
				continue
			}
			if jsonMode {
				printJSON(value)
			} else {
				fmt.Println(formatAttributeValue(value))
			}
		}
	case jsonMode:
		for _, match := range matches {
			printJSON(match)
		}
	default:
		for _, addr := range generateEntityAddresses(parsed.Section, matches) {
			fmt.Println(addr)
		}
	}
}

// expressionQuery recognizes function mode: an explicit leading slash, or
// a call-shaped query with balanced parentheses.
func expressionQuery(query string) (string, bool) {
	if expr, ok := strings.CutPrefix(query, "/"); ok {
		return expr, true
	}
	if balancedParens(query) {
		return query, true
	}
	return "", false
}

func balancedParens(s string) bool {
	depth, pairs := 0, 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
			pairs++
		case ')':
			depth--
		}
	}
	return pairs > 0 && depth == 0
}

// handleSpecialQueries answers header-field queries directly, nil when
// the query is not one of them.
func handleSpecialQueries(doc map[string]interface{}, query string) interface{} {
	if !slices.Contains(headerFields, query) {
		return nil
	}
	if val, ok := doc[query]; ok {
		return val
	}
	return "not found"
}

// ParseQuery breaks a query of the form section[selector].attribute into
// its parts. The selector is optional and takes either bracket form
// (members["octocat"], groups[2]) or dotted-name form (teams.platform).
func ParseQuery(query string) (*ParsedQuery, error) {
	parts := splitQuery(query)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty query")
	}

	parsed := &ParsedQuery{}

	head, rest := parts[0], parts[1:]
	if open := strings.Index(head, "["); open != -1 {
		if !strings.HasSuffix(head, "]") {
			return nil, fmt.Errorf("unterminated selector in %q", head)
		}
		parsed.Section = head[:open]
		parsed.Selector = parseSelector(head[open+1 : len(head)-1])
	} else {
		parsed.Section = head
	}

	// A bare word after the section names an entity, unless a bracket
	// selector already picked one.
	if len(rest) > 0 && parsed.Selector == nil {
		if strings.Contains(rest[0], "[") {
			return nil, fmt.Errorf("unexpected selector in %q", rest[0])
		}
		parsed.Selector = strings.Trim(rest[0], `"`)
		rest = rest[1:]
	}

	if len(rest) > 0 {
		parsed.Attribute = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("trailing parts in query: %v", rest)
	}

	return parsed, nil
}

// splitQuery splits a dotted query into parts, treating double-quoted
// runs as opaque so names containing dots survive.
func splitQuery(s string) []string {
	var parts []string
	var cur []byte
	quoted := false

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			quoted = !quoted
			cur = append(cur, c)
		case c == '.' && !quoted:
			parts = append(parts, string(cur))
			cur = cur[:0]
		default:
			cur = append(cur, c)
		}
	}
	if len(cur) > 0 {
		parts = append(parts, string(cur))
	}

	return parts
}

// parseSelector types a bracket selector: an integer selects by
// position, anything else selects by name or id, quotes optional.
func parseSelector(raw string) interface{} {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return strings.Trim(raw, `"`)
}
