// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"sort"
)

// Diffable is the capability set an entity kind needs to participate in a
// diff: a stable identity key to correlate entities across the target and
// actual sets, value equality over all attributes, and a total order used
// only to make output deterministic.
type Diffable[E any] interface {
	// Key returns the identity used to correlate an entity across the
	// target and actual sets. Relationship kinds with no intrinsic id
	// derive it from the full value, so they only ever add or remove.
	Key() string
	// Equal reports whether all attributes match exactly.
	Equal(other E) bool
	// Less is a total order over the kind. Any stable field order works;
	// it must be consistent between runs.
	Less(other E) bool
}

// Renderable is a Diffable kind that also has a canonical textual form.
// Only renderable kinds can be printed as diff sections; relationship
// kinds stay Diffable-only and are reported by the caller in some other
// way.
type Renderable[E any] interface {
	Diffable[E]
	Render() string
}

// Entry is a single in-place change: the same identity on both sides with
// different attribute values.
type Entry[E Diffable[E]] struct {
	Actual E
	Target E
}

// Diff classifies the difference between a target and an actual set into
// additions, removals, and in-place changes. The three slices partition
// the symmetric difference of the inputs; an entity identical on both
// sides appears in none of them.
type Diff[E Diffable[E]] struct {
	ToAdd    []E
	ToRemove []E
	ToChange []Entry[E]
}

// New computes the diff between a target set and an actual set.
//
// A plain set difference would report an entity whose attributes changed
// as one removal plus one addition. That loses the continuity of "this
// entity changed", so same-key add/remove pairs are promoted into a
// single change entry instead. Kinds without an intrinsic id key on their
// full value, so they never produce change entries.
//
// Inputs are treated as sets: duplicate values collapse. Two distinct
// entities sharing a key within one set is a precondition violation of
// the caller's data; the outcome is deterministic (the key maps are built
// over the sorted slices, so the last entity per key wins).
func New[E Diffable[E]](target, actual []E) Diff[E] {
	toAdd := subtract(dedupe(target), actual)
	toRemove := subtract(dedupe(actual), target)

	sort.SliceStable(toAdd, func(i, j int) bool { return toAdd[i].Less(toAdd[j]) })
	sort.SliceStable(toRemove, func(i, j int) bool { return toRemove[i].Less(toRemove[j]) })

	addByKey := make(map[string]E, len(toAdd))
	for _, e := range toAdd {
		addByKey[e.Key()] = e
	}
	removeByKey := make(map[string]E, len(toRemove))
	for _, e := range toRemove {
		removeByKey[e.Key()] = e
	}

	var keys []string
	for k := range addByKey {
		if _, ok := removeByKey[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	toChange := make([]Entry[E], 0, len(keys))
	for _, k := range keys {
		toChange = append(toChange, Entry[E]{
			Actual: removeByKey[k],
			Target: addByKey[k],
		})
	}

	// The promoted pairs no longer count as added or removed.
	for _, change := range toChange {
		toAdd = removeFirst(toAdd, change.Target)
		toRemove = removeFirst(toRemove, change.Actual)
	}

	return Diff[E]{
		ToAdd:    toAdd,
		ToRemove: toRemove,
		ToChange: toChange,
	}
}

// Empty reports whether the diff has no entries in any section.
func (d Diff[E]) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0 && len(d.ToChange) == 0
}

// subtract returns the members of xs with no value-equal member in ys.
func subtract[E Diffable[E]](xs, ys []E) []E {
	result := make([]E, 0, len(xs))
	for _, x := range xs {
		if !containsEqual(ys, x) {
			result = append(result, x)
		}
	}
	return result
}

// dedupe collapses value-equal duplicates, keeping first occurrences.
func dedupe[E Diffable[E]](xs []E) []E {
	result := make([]E, 0, len(xs))
	for _, x := range xs {
		if !containsEqual(result, x) {
			result = append(result, x)
		}
	}
	return result
}

func containsEqual[E Diffable[E]](xs []E, x E) bool {
	for _, e := range xs {
		if x.Equal(e) {
			return true
		}
	}
	return false
}

// removeFirst drops the first value-equal occurrence of x, if any.
func removeFirst[E Diffable[E]](xs []E, x E) []E {
	for i, e := range xs {
		if x.Equal(e) {
			return append(xs[:i], xs[i+1:]...)
		}
	}
	return xs
}
