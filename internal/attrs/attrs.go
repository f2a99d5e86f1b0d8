// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/orgctl/orgctl/internal/log"
)

// Attr is one output column: where its value comes from in the entity
// JSON, what to call it, and how to massage it on the way out.
type Attr struct {
	// Key is the dotted path into the entity JSON.
	Key string `yaml:"key" json:"Key"`
	// Include is false for attrs that exist only for filtering and
	// sorting.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey names the value in output and doubles as the column
	// title. TODO split a separate title field off OutputKey.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec holds the single-letter transform codes.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// lengthRE finds truncation lengths in a transform spec. Negative
// means keep both ends and elide the middle.
var lengthRE = regexp.MustCompile(`-?\d+`)

// Transform applies the attribute's transform spec: t/T for local or
// relative time, l/L and u/U for case, and a number for truncation.
// Only strings transform, everything else passes through untouched.
func (a *Attr) Transform(value interface{}) interface{} {
	result, ok := value.(string)
	if !ok {
		// Maps and lists render as JSON downstream.
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	if strings.ContainsAny(a.TransformSpec, "tT") {
		result = a.transformTime(result)
	}

	result = a.transformCase(result)

	return a.transformLength(result)
}

// transformTime rewrites an RFC3339 timestamp into the system zone
// (t) or a relative phrase like "3 days ago" (T). Values that do not
// parse come back unchanged.
func (a *Attr) transformTime(result string) string {
	t, err := time.Parse(time.RFC3339, result)
	if err != nil {
		return result
	}

	local := t.In(time.Local)
	if strings.Contains(a.TransformSpec, "T") {
		return humanize.Time(local)
	}

	return local.Format("2006-01-02T15:04:05MST")
}

// transformCase applies whichever case code appears last in the spec.
// A global case transform is prepended to each attr's spec, so the
// attr's own code sits later and wins: '*::U,name::l' leaves name in
// lower case.
func (a *Attr) transformCase(result string) string {
	lastLower := strings.LastIndexAny(a.TransformSpec, "lL")
	lastUpper := strings.LastIndexAny(a.TransformSpec, "uU")

	switch {
	case lastLower > lastUpper:
		return strings.ToLower(result)
	case lastUpper > lastLower:
		return strings.ToUpper(result)
	}

	return result
}

// transformLength truncates to the last length found in the spec, the
// last because a per-attr length overrides a prepended global one. A
// negative length keeps the ends: "customer-infra-snapshots" under -10
// becomes "cust..hots".
func (a *Attr) transformLength(result string) string {
	lengths := lengthRE.FindAllString(a.TransformSpec, -1)
	if len(lengths) == 0 {
		return result
	}

	l, _ := strconv.Atoi(lengths[len(lengths)-1])
	abs := l
	if abs < 0 {
		abs = -abs
	}

	if len(result) <= abs {
		return result
	}

	if l < 0 {
		keep := abs/2 - 1
		return result[:keep] + ".." + result[len(result)-keep:]
	}

	return result[:l]
}

// AttrList is the ordered set of output columns for one query.
type AttrList []Attr

// Set parses a --attrs value and folds it into the list. Each comma
// separated spec has up to three : delimited fields: the JSON key, the
// output key, and a transform spec. The output key defaults to the
// last segment of the JSON key. A spec whose key matches an existing
// attr updates it in place, so users can re-shape a command's default
// columns.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		attr := parseAttrSpec(spec)

		if a.merge(attr) {
			continue
		}

		// Entity payloads are flat objects, so keys always address the
		// root. A leading '.' is accepted for symmetry with dotted
		// drill-down specs and stripped.
		attr.Key = strings.TrimPrefix(attr.Key, ".")

		*a = append(*a, attr)
	}

	log.Tracef("attrs parsed: len=%d", len(*a))
	return nil
}

func parseAttrSpec(spec string) Attr {
	attr := Attr{Include: true}

	fields := strings.Split(spec, ":")

	// A leading ! pulls the attr out of the output while keeping it
	// available for filters and sorting.
	attr.Key = strings.TrimSpace(fields[0])
	if strings.HasPrefix(attr.Key, "!") {
		attr.Include = false
		attr.Key = attr.Key[1:]
	}

	// The * attr only carries a global transform spec.
	if attr.Key == "*" {
		attr.Include = false
	}

	switch {
	case len(fields) == 1:
		segments := strings.Split(attr.Key, ".")
		attr.OutputKey = segments[len(segments)-1]
	case fields[1] != "":
		attr.OutputKey = strings.TrimSpace(fields[1])
	default:
		attr.OutputKey = attr.Key
	}

	if len(fields) > 2 {
		attr.TransformSpec = strings.TrimSpace(fields[2])
	}

	return attr
}

// merge updates an existing attr in place when the new spec addresses
// it by key or output key. Reports whether it did.
func (a *AttrList) merge(attr Attr) bool {
	for i := range *a {
		if (*a)[i].Key != attr.Key && (*a)[i].OutputKey != attr.Key {
			continue
		}

		(*a)[i].Include = attr.Include
		(*a)[i].OutputKey = attr.OutputKey
		(*a)[i].TransformSpec = attr.TransformSpec
		return true
	}

	return false
}

// SetGlobalTransformSpec prepends the * attr's transform spec, if one
// was given, onto every attr in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}

	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}

	return nil
}

// String renders the list back into --attrs form.
func (a *AttrList) String() string {
	specs := make([]string, 0, len(*a))
	for _, attr := range *a {
		specs = append(specs, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}

	return strings.Join(specs, ",")
}

// Type implements the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
