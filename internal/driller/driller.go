// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var segmentRE = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d|\*)?\])?$`)

// Driller resolves a dot-separated path against a JSON document. A
// segment may carry an index, teams[1]. Without one a single-element
// array collapses to its element, so member.role works whether member
// arrived as an object or a one-item list.
func Driller(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)

	for _, segment := range strings.Split(path, ".") {
		key, index, ok := splitSegment(segment)
		if !ok {
			return gjson.Result{}
		}

		val := current.Get(key)
		if val.IsArray() {
			val, ok = pick(val, index)
			if !ok {
				return gjson.Result{}
			}
		}

		current = val
	}

	return current
}

// splitSegment breaks "teams[1]" into key and index. An index of -1
// means the segment carried none.
func splitSegment(segment string) (string, int, bool) {
	m := segmentRE.FindStringSubmatch(segment)
	if len(m) == 0 {
		return "", 0, false
	}

	// m[2] is the bracket pair itself, only m[3] matters.

	if m[3] == "" {
		return m[1], -1, true
	}

	i, err := strconv.Atoi(m[3])
	if err != nil {
		return "", 0, false
	}

	return m[1], i, true
}

// pick applies an optional index to an array value.
func pick(val gjson.Result, index int) (gjson.Result, bool) {
	arr := val.Array()

	if index == -1 {
		if len(arr) == 1 {
			return arr[0], true
		}
		// More than one element and nothing to pick by. Keep the list.
		return val, true
	}

	if index < 0 || index >= len(arr) {
		return gjson.Result{}, false
	}

	return arr[index], true
}
