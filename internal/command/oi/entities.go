// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package oi

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// nameKeys are the entity fields a string selector matches against, in
// the order they are consulted. They cover both services' kinds.
var nameKeys = []string{
	"github_user_name",
	"member_name",
	"group_name",
	"name",
	"slug",
	"external_id",
}

// idKeys are the entity identity fields. String selectors match them too,
// so members["583231"] and members["octocat"] land on the same entity.
var idKeys = []string{
	"github_user_id",
	"github_team_id",
	"member_id",
	"group_id",
	"collection_id",
}

// FindMatchingEntities returns the entities in the document's section
// that the query selects, all of them when the selector is nil.
func FindMatchingEntities(doc map[string]interface{}, query *ParsedQuery) []map[string]interface{} {
	section, ok := doc[query.Section].([]interface{})
	if !ok {
		return nil
	}

	var matches []map[string]interface{}
	for position, raw := range section {
		entity, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if query.Selector == nil || matchesSelector(entity, position, query.Selector) {
			matches = append(matches, entity)
		}
	}
	return matches
}

// matchesSelector checks one entity against a selector. Integer
// selectors match the entity's position in its section; string
// selectors match its name or id fields.
func matchesSelector(entity map[string]interface{}, position int, selector interface{}) bool {
	switch want := selector.(type) {
	case int:
		return position == want
	case string:
		return hasFieldValue(entity, nameKeys, want) || hasFieldValue(entity, idKeys, want)
	}
	return false
}

// hasFieldValue reports whether any of the named fields carries the
// wanted value. Numeric ids compare by their decimal rendering, so
// members["583231"] finds an id the JSON decoder surfaced as float64.
func hasFieldValue(entity map[string]interface{}, keys []string, want string) bool {
	for _, key := range keys {
		switch v := entity[key].(type) {
		case string:
			if v == want {
				return true
			}
		case float64:
			if strconv.FormatInt(int64(v), 10) == want {
				return true
			}
		}
	}
	return false
}

// entityName returns the first populated name field, or "".
func entityName(entity map[string]interface{}) string {
	return firstField(entity, nameKeys)
}

// entityID returns the first populated id field rendered as a string.
func entityID(entity map[string]interface{}) string {
	return firstField(entity, idKeys)
}

func firstField(entity map[string]interface{}, keys []string) string {
	for _, key := range keys {
		switch v := entity[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

// generateEntityAddresses renders one console address per match.
func generateEntityAddresses(section string, matches []map[string]interface{}) []string {
	addresses := make([]string, len(matches))
	for i, match := range matches {
		addresses[i] = buildEntityAddress(section, match)
	}
	return addresses
}

// buildEntityAddress names an entity the way a query would select it,
// preferring the entity's name over its id.
func buildEntityAddress(section string, entity map[string]interface{}) string {
	if name := entityName(entity); name != "" {
		return fmt.Sprintf("%s[%q]", section, name)
	}
	if id := entityID(entity); id != "" {
		return fmt.Sprintf("%s[%q]", section, id)
	}
	return section
}

// ExtractAttribute pulls the queried attribute out of an entity.
// Snapshot entities are flat, so this is a plain field lookup.
func ExtractAttribute(entity map[string]interface{}, parsed *ParsedQuery) interface{} {
	value, ok := entity[parsed.Attribute]
	if !ok {
		return nil
	}
	return value
}

// formatAttributeValue renders one attribute for list-mode output.
// Strings print bare so values drop straight into shell pipelines.
func formatAttributeValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	}
	if out, err := json.Marshal(value); err == nil {
		return string(out)
	}
	return fmt.Sprintf("%v", value)
}

// printJSON pretty-prints a value for the console.
func printJSON(data interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		fmt.Printf("Error formatting JSON: %s\n", err)
	}
}
