// SPDX-License-Identifier: MIT
// Package: detour/builder
//
// id_fn.go — vertex ID schemes for the Ring and Corridor constructors.
//
// Grid always names vertices "r,c" and FromYAML/FromOSM take IDs from their
// input, so schemes only apply to index-based constructors. Without a scheme
// those constructors use "<shape>-<i>", which keeps several shapes in one
// network from colliding.

package builder

import (
	"fmt"
	"strconv"
)

// IDFn generates a vertex identifier from its zero‐based index.
// It must be a pure, deterministic function: given the same idx, it always returns the same string.
// Panics in implementations indicate programmer error in configuration.
type IDFn func(idx int) string

// DefaultIDFn returns the decimal string of idx, e.g. 0→"0", 42→"42".
func DefaultIDFn(idx int) string {
	return strconv.Itoa(idx)
}

// AvenueIDFn returns Manhattan-style avenue letters, e.g. 0→"A", 25→"Z", 26→"AA".
// Panics if idx < 0.
func AvenueIDFn(idx int) string {
	if idx < 0 {
		panic(fmt.Sprintf("AvenueIDFn: idx must be ≥ 0, got %d", idx))
	}
	var runes []rune
	for i := idx; i >= 0; i = i/26 - 1 {
		runes = append(runes, rune('A'+(i%26)))
	}
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}

	return string(runes)
}

// PrefixIDFn returns prefix + decimal index, e.g. "exit0", "exit1", ...
// Panics if idx < 0.
func PrefixIDFn(prefix string) IDFn {
	return func(idx int) string {
		if idx < 0 {
			panic(fmt.Sprintf("PrefixIDFn: idx must be ≥ 0, got %d", idx))
		}
		return prefix + strconv.Itoa(idx)
	}
}

// WithIDScheme sets the ID scheme of index-based constructors. Panics on nil.
func WithIDScheme(fn IDFn) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}
	return func(c *builderConfig) {
		c.idFn = fn
	}
}

// WithPrefixIDs sets the ID scheme to PrefixIDFn(prefix).
func WithPrefixIDs(prefix string) BuilderOption {
	return WithIDScheme(PrefixIDFn(prefix))
}

// WithAvenueIDs sets the ID scheme to AvenueIDFn.
func WithAvenueIDs() BuilderOption {
	return WithIDScheme(AvenueIDFn)
}

// id names vertex idx of a shape under the configured scheme.
func (c builderConfig) id(shape string, idx int) string {
	if c.idFn != nil {
		return c.idFn(idx)
	}

	return shape + "-" + strconv.Itoa(idx)
}
