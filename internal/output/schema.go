// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
)

// schemaTag is one attribute discovered on an entity type, named the
// way --attrs expects it (dotted under its holder for nested entries).
type schemaTag struct {
	Kind     string
	Name     string
	Encoding string
}

func (t schemaTag) print() string {
	return t.Name
}

// NewTag builds a schemaTag from a raw json struct tag. Fields tagged
// "-" and untagged fields yield a zero tag.
func NewTag(h string, s string) schemaTag {
	name, encoding, _ := strings.Cut(s, ",")
	if name == "" || name == "-" {
		return schemaTag{}
	}

	if h != "" {
		name = h + "." + name
	}

	return schemaTag{Kind: "attr", Name: name, Encoding: encoding}
}

// Nested structs are walked one level down. That is enough to surface
// access-list entry attributes without chasing cycles.
const maxSchemaDepth = 1

// DumpSchema prints the sorted attribute names of typ. A nil w means
// stdout.
func DumpSchema(prefix string, typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Entity attributes that are directly available to the --attrs flag.
For the complete payload, use --output=raw and see the attrs help in the
documentation or man orgctl-attrs.`)
	fmt.Fprintln(w, "")

	tags := dumpSchemaWalker(prefix, typ, 0)
	if len(tags) == 0 {
		log.Debugf("no tagged fields on type %s", typ.Name())
		return
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Kind != tags[j].Kind {
			return tags[i].Kind < tags[j].Kind
		}
		return tags[i].Name < tags[j].Name
	})

	for _, tag := range tags {
		fmt.Fprintln(w, tag.print())
	}
}

// dumpSchemaWalker collects json tags from typ, descending into struct
// fields reached through pointers and slices up to maxSchemaDepth.
func dumpSchemaWalker(holder string, typ reflect.Type, depth int) []schemaTag {
	var tags []schemaTag

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		raw, ok := field.Tag.Lookup("json")
		if !ok {
			continue
		}

		tag := NewTag(holder, raw)
		if tag.Kind == "" {
			continue
		}

		tags = append(tags, tag)

		if depth >= maxSchemaDepth {
			continue
		}

		elem := field.Type
		for elem.Kind() == reflect.Ptr || elem.Kind() == reflect.Slice {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			tags = append(tags, dumpSchemaWalker(tag.Name, elem, depth+1)...)
		}
	}

	return tags
}
