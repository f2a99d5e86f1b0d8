// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package oi

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// addressPattern matches entity addresses with a selector, like
// members["octocat"].role, teams.platform.slug, or groups[2]. A bare
// section name is not an address: it stays in the expression and
// evaluates natively, so length(members) works on the whole section.
var addressPattern = regexp.MustCompile(
	`\b(members|teams|groups|collections)(\[[^\]]+\]|\.[A-Za-z0-9_@-]+)(\.[A-Za-z0-9_]+)?`,
)

// evaluateFunction evaluates an HCL expression against the snapshot and
// renders the result for the console.
func evaluateFunction(expression string, doc map[string]interface{}) string {
	src := preprocessEntityAddresses(expression, doc)

	expr, diags := hclsyntax.ParseExpression([]byte(src), "", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "Error parsing expression: " + diags.Error()
	}

	result, diags := expr.Value(&hcl.EvalContext{
		Variables: buildVariableMap(doc),
		Functions: buildFunctionMap(),
	})
	if diags.HasErrors() {
		return "Error evaluating expression: " + diags.Error()
	}

	return formatCtyValue(result)
}

// preprocessEntityAddresses rewrites entity addresses inside an
// expression into JSON literals, which are valid HCL, before the parser
// sees them.
func preprocessEntityAddresses(expression string, doc map[string]interface{}) string {
	return addressPattern.ReplaceAllStringFunc(expression, func(address string) string {
		value, ok := resolveAddress(address, doc)
		if !ok {
			return address
		}
		rendered, err := json.Marshal(value)
		if err != nil {
			return address
		}
		return string(rendered)
	})
}

// resolveAddress resolves one entity address to the value it names. An
// address that does not resolve cleanly is reported not ok so the
// caller can leave the original text for HCL to judge.
func resolveAddress(address string, doc map[string]interface{}) (interface{}, bool) {
	parsed, err := ParseQuery(address)
	if err != nil || parsed.Selector == nil {
		return nil, false
	}

	matches := FindMatchingEntities(doc, parsed)
	if len(matches) == 0 {
		return nil, false
	}

	if parsed.Attribute == "" {
		return matches[0], true
	}
	value := ExtractAttribute(matches[0], parsed)
	if value == nil {
		return nil, false
	}
	return value, true
}

// Function groups follow the cty stdlib layout. The stdlib exports no
// registry of its own, so the names are bound by hand.
var (
	numberFuncs = map[string]function.Function{
		"abs":      stdlib.AbsoluteFunc,
		"ceil":     stdlib.CeilFunc,
		"floor":    stdlib.FloorFunc,
		"log":      stdlib.LogFunc,
		"max":      stdlib.MaxFunc,
		"min":      stdlib.MinFunc,
		"parseint": stdlib.ParseIntFunc,
		"pow":      stdlib.PowFunc,
		"signum":   stdlib.SignumFunc,
	}

	stringFuncs = map[string]function.Function{
		"chomp":      stdlib.ChompFunc,
		"format":     stdlib.FormatFunc,
		"formatlist": stdlib.FormatListFunc,
		"indent":     stdlib.IndentFunc,
		"join":       stdlib.JoinFunc,
		"lower":      stdlib.LowerFunc,
		"replace":    stdlib.ReplaceFunc,
		"split":      stdlib.SplitFunc,
		"substr":     stdlib.SubstrFunc,
		"title":      stdlib.TitleFunc,
		"trim":       stdlib.TrimFunc,
		"trimprefix": stdlib.TrimPrefixFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"trimsuffix": stdlib.TrimSuffixFunc,
		"upper":      stdlib.UpperFunc,
	}

	collectionFuncs = map[string]function.Function{
		"chunklist":    stdlib.ChunklistFunc,
		"coalesce":     stdlib.CoalesceFunc,
		"coalescelist": stdlib.CoalesceListFunc,
		"compact":      stdlib.CompactFunc,
		"concat":       stdlib.ConcatFunc,
		"contains":     stdlib.ContainsFunc,
		"distinct":     stdlib.DistinctFunc,
		"element":      stdlib.ElementFunc,
		"flatten":      stdlib.FlattenFunc,
		"index":        stdlib.IndexFunc,
		"keys":         stdlib.KeysFunc,
		"length":       stdlib.LengthFunc,
		"lookup":       stdlib.LookupFunc,
		"merge":        stdlib.MergeFunc,
		"range":        stdlib.RangeFunc,
		"reverse":      stdlib.ReverseFunc,
		"reverselist":  stdlib.ReverseListFunc,
		"slice":        stdlib.SliceFunc,
		"sort":         stdlib.SortFunc,
		"values":       stdlib.ValuesFunc,
		"zipmap":       stdlib.ZipmapFunc,
	}

	setFuncs = map[string]function.Function{
		"setintersection": stdlib.SetIntersectionFunc,
		"setproduct":      stdlib.SetProductFunc,
		"setsubtract":     stdlib.SetSubtractFunc,
		"setunion":        stdlib.SetUnionFunc,
	}

	encodingFuncs = map[string]function.Function{
		"csvdecode":  stdlib.CSVDecodeFunc,
		"jsondecode": stdlib.JSONDecodeFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
	}

	timeFuncs = map[string]function.Function{
		"formatdate": stdlib.FormatDateFunc,
		"timeadd":    stdlib.TimeAddFunc,
	}

	regexFuncs = map[string]function.Function{
		"regex":    stdlib.RegexFunc,
		"regexall": stdlib.RegexAllFunc,
	}
)

// buildFunctionMap assembles the callable function table from the
// stdlib groups plus the try/can extensions.
func buildFunctionMap() map[string]function.Function {
	funcs := map[string]function.Function{
		"try": tryfunc.TryFunc,
		"can": tryfunc.CanFunc,
	}
	for _, group := range []map[string]function.Function{
		numberFuncs, stringFuncs, collectionFuncs, setFuncs,
		encodingFuncs, timeFuncs, regexFuncs,
	} {
		maps.Copy(funcs, group)
	}
	return funcs
}

// buildVariableMap exposes the document to expressions: every top-level
// key directly, plus the whole document as "snapshot".
func buildVariableMap(doc map[string]interface{}) map[string]cty.Value {
	vars := make(map[string]cty.Value, len(doc)+1)
	for key, value := range doc {
		vars[key] = toCty(value)
	}
	vars["snapshot"] = toCty(doc)
	return vars
}

// toCty lifts a decoded JSON value into the cty type system.
func toCty(val interface{}) cty.Value {
	switch v := val.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case bool:
		return cty.BoolVal(v)
	case string:
		return cty.StringVal(v)
	case float64:
		return cty.NumberFloatVal(v)
	case int:
		return cty.NumberIntVal(int64(v))
	case []interface{}:
		elems := make([]cty.Value, len(v))
		for i, item := range v {
			elems[i] = toCty(item)
		}
		return cty.TupleVal(elems)
	case map[string]interface{}:
		attrs := make(map[string]cty.Value, len(v))
		for key, item := range v {
			attrs[key] = toCty(item)
		}
		return cty.ObjectVal(attrs)
	default:
		return cty.StringVal(fmt.Sprintf("%v", v))
	}
}

// fromCty lowers a cty value back to plain Go data for JSON rendering.
func fromCty(val cty.Value) interface{} {
	if val.IsNull() {
		return nil
	}

	ty := val.Type()
	switch {
	case ty == cty.Bool:
		return val.True()
	case ty == cty.String:
		return val.AsString()
	case ty == cty.Number:
		return numberToGo(val)
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []interface{}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			out = append(out, fromCty(elem))
		}
		return out
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]interface{})
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			out[key.AsString()] = fromCty(elem)
		}
		return out
	default:
		return fmt.Sprintf("%#v", val)
	}
}

// numberToGo keeps whole numbers integral so output shows 3, not 3e+00.
func numberToGo(val cty.Value) interface{} {
	bf := val.AsBigFloat()
	if bf.IsInt() {
		n, _ := bf.Int64()
		return n
	}
	f, _ := bf.Float64()
	return f
}

// formatCtyValue renders an evaluation result for the console. Scalars
// print bare, everything else prints as JSON.
func formatCtyValue(val cty.Value) string {
	if val.IsNull() {
		return "null"
	}

	switch val.Type() {
	case cty.Bool:
		return strconv.FormatBool(val.True())
	case cty.String:
		return val.AsString()
	case cty.Number:
		switch n := numberToGo(val).(type) {
		case int64:
			return strconv.FormatInt(n, 10)
		default:
			return fmt.Sprintf("%g", n)
		}
	}

	rendered, err := json.Marshal(fromCty(val))
	if err != nil {
		return fmt.Sprintf("%#v", val)
	}
	return string(rendered)
}
