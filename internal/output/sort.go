// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// sortField is one comma-separated element of a --sort spec. A leading -
// flips direction, a leading ! makes the string comparison case
// sensitive.
type sortField struct {
	key           string
	ascending     bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortField {
	var fields []sortField

	for _, raw := range strings.Split(spec, ",") {
		f := sortField{ascending: true}

		if strings.HasPrefix(raw, "-") {
			raw = strings.TrimPrefix(raw, "-")
			f.ascending = false
		}
		if strings.HasPrefix(raw, "!") {
			raw = strings.TrimPrefix(raw, "!")
			f.caseSensitive = true
		}

		f.key = raw
		fields = append(fields, f)
	}

	return fields
}

// SortDataset orders resultSet in place by the given spec. Numeric
// values compare as integers, everything else falls back to a string
// comparison, which also covers bools. The sort is stable so rows that
// tie on every field keep their fetch order.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	fields := parseSortSpec(spec)

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, field := range fields {
			oneValue := resultSet[one][field.key]
			twoValue := resultSet[two][field.key]

			oneNum, oneOk := oneValue.(float64)
			twoNum, twoOk := twoValue.(float64)
			if oneOk && twoOk {
				if int(oneNum) == int(twoNum) {
					continue
				}
				if field.ascending {
					return int(oneNum) < int(twoNum)
				}
				return int(oneNum) > int(twoNum)
			}

			oneStr := InterfaceToString(oneValue)
			twoStr := InterfaceToString(twoValue)
			if !field.caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}

			if oneStr != twoStr {
				if field.ascending {
					return oneStr < twoStr
				}
				return oneStr > twoStr
			}
		}

		return false
	})
}
