// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/orgctl/orgctl/internal/attrs"
	"github.com/orgctl/orgctl/internal/driller"
	"github.com/orgctl/orgctl/internal/slug"
)

// filterRegex splits one --filter expression into its pieces: an
// optional leading underscore marking a server-side filter, the key,
// an optional operand (one of = ^ ~ < > @ /, with an optional ! in
// front) and the target value. "privacy=closed", "_role=admin" and a
// bare "name" are all valid.
var filterRegex = regexp.MustCompile(`^(_)?([^!?=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key        string `yaml:"key" json:"Key"`
	Negate     bool   `yaml:"negate" json:"Negate"`
	Operand    string `yaml:"operand" json:"Operand"`
	ServerSide bool   `yaml:"serverSide" json:"ServerSide"`
	Value      string `yaml:"value" json:"Value"`
}

// BuildFilters parses a full --filter spec into a Filter slice.
// Malformed entries are logged and dropped, they never fail the
// command.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Comma splits by default. The delimiter is overridable for values
	// that themselves contain commas.
	delim := ","
	if d, ok := os.LookupEnv("ORGCTL_FILTER_DELIM"); ok {
		delim = d
	}

	for _, expr := range strings.Split(spec, delim) {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}

		filter, ok := parseFilter(expr)
		if !ok {
			log.Error("invalid filter: " + expr)
			continue
		}

		filters = append(filters, filter)
	}

	return filters
}

func parseFilter(expr string) (Filter, bool) {
	parts := filterRegex.FindStringSubmatch(expr)
	if parts == nil {
		return Filter{}, false
	}

	filter := Filter{
		ServerSide: parts[1] == "_",
		Key:        strings.TrimSpace(parts[2]),
		Operand:    parts[3],
		Value:      parts[4],
	}

	if filter.Key == "" {
		return Filter{}, false
	}

	if strings.HasPrefix(filter.Operand, "!") {
		filter.Negate = true
		filter.Operand = strings.TrimPrefix(filter.Operand, "!")
	}

	return filter, true
}

// FilterDataset projects the candidate entities onto the attribute
// list and keeps the rows that pass every client-side filter in spec.
// Server-side filters were already applied by the API and are skipped
// here.
func FilterDataset(candidates gjson.Result, list attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var rows []map[string]interface{}

	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, list, filters) {
			continue
		}

		// Transforms are deliberately not applied here. Filtering sees
		// the raw values, the output phase prettifies them.
		row := make(map[string]interface{}, len(list))
		for _, attr := range list {
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}

		rows = append(rows, row)
	}

	return rows
}

// applyFilters reports whether the candidate passes every client-side
// filter.
func applyFilters(candidate gjson.Result, list attrs.AttrList,
	filters []Filter) bool {

	for _, filter := range filters {
		if filter.ServerSide {
			continue
		}

		// The divergent filter stands alone: it compares the entity's
		// slug against the slug its current name would generate, and it
		// decides the row by itself.
		if filter.Key == "divergent" {
			return isDivergent(candidate, filter) == divergentPass
		}

		key := sourceKey(list, filter.Key)
		if key == "" {
			msg := fmt.Sprintf("filter key not found: %s", filter.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		value := driller.Driller(candidate.Raw, key).Value()
		if value == nil || !valueMatches(value, filter) {
			return false
		}
	}

	return true
}

// sourceKey maps a filter's output-name key back to the source
// attribute path. Filters are written against the names the user sees.
func sourceKey(list attrs.AttrList, outputKey string) string {
	for _, attr := range list {
		if attr.OutputKey == outputKey {
			return attr.Key
		}
	}
	return ""
}

// valueMatches dispatches on the candidate value's type. Values that
// fit none of the comparisons pass by default so an odd payload shape
// does not silently empty the result set.
func valueMatches(value interface{}, filter Filter) bool {
	switch v := value.(type) {
	case string:
		return checkStringOperand(v, filter)
	case bool:
		return checkStringOperand(strconv.FormatBool(v), filter)
	}

	if num, ok := toFloat64(value); ok {
		return checkNumericOperand(num, filter)
	}

	if filter.Operand == "@" {
		return checkContainsOperand(value, filter)
	}

	return true
}

type divergentCheckType int

const (
	divergentPass divergentCheckType = iota
	divergentFail
)

// checkContainsOperand evaluates the @ operand against composite
// values: element membership for lists, key presence for maps.
func checkContainsOperand(value interface{}, filter Filter) bool {
	var found bool

	switch val := value.(type) {
	case []any:
		found = slices.Contains(val, any(filter.Value))
	case map[string]any:
		_, found = val[filter.Value]
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %T", value))
		return false
	}

	return found != filter.Negate
}

// checkNumericOperand compares numerically. Only = < > make sense
// here, != arrives as Negate plus =.
func checkNumericOperand(value float64, filter Filter) bool {
	target, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Error("invalid numeric value: " + filter.Value)
		return false
	}

	var matched bool
	switch filter.Operand {
	case "=":
		matched = value == target
	case ">":
		matched = value > target
	case "<":
		matched = value < target
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}

	return matched != filter.Negate
}

// checkStringOperand compares strings: = exact, ~ case folded,
// ^ prefix, @ substring, / regex, plus ordered < and >.
func checkStringOperand(value string, filter Filter) bool {
	var matched bool

	switch filter.Operand {
	case "=":
		matched = value == filter.Value
	case "~":
		matched = strings.EqualFold(value, filter.Value)
	case "^":
		matched = strings.HasPrefix(value, filter.Value)
	case ">":
		matched = value > filter.Value
	case "<":
		matched = value < filter.Value
	case "@":
		matched = strings.Contains(value, filter.Value)
	case "/":
		m, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Value)
			return false
		}
		matched = m
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}

	return matched != filter.Negate
}

// isDivergent checks a candidate against the divergent filter. With no
// value, or "true", divergent entities pass. With "false" the in-sync
// entities pass instead. Candidates missing either field always pass,
// drift cannot be judged for them.
func isDivergent(candidate gjson.Result, filter Filter) divergentCheckType {
	name, nameOK := driller.Driller(candidate.Raw, "name").Value().(string)
	slugVal, slugOK := driller.Driller(candidate.Raw, "slug").Value().(string)
	if !nameOK || !slugOK {
		return divergentPass
	}

	drifted := slug.Diverges(name, slugVal)

	wantDrifted := filter.Value == "" || filter.Value == "true"
	if drifted == wantDrifted {
		return divergentPass
	}

	return divergentFail
}

// toFloat64 normalizes any numeric type to float64.
func toFloat64(v interface{}) (float64, bool) {
	switch v.(type) {
	case float32, float64:
		return reflect.ValueOf(v).Float(), true
	case int, int8, int16, int32, int64:
		return float64(reflect.ValueOf(v).Int()), true
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(v).Uint()), true
	default:
		return 0, false
	}
}
