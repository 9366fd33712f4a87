// Package catalog derives the display structures consumed by emoji pickers:
// the bidirectional name index and the category catalog. Both are pure
// functions of their inputs and must be byte-for-byte deterministic across
// runs, since their output is content-hashed.
package catalog

import (
	"fmt"

	"github.com/spritelab/emojibundle/pkg/emoji"
)

// NameIndex is the bidirectional name<->codepoint mapping derived from the
// curated name table. First occurrence wins on both sides to keep the index
// deterministic when the table aliases the same codepoint more than once.
type NameIndex struct {
	// Names lists unique display names in curated order, for picker UIs.
	Names []string
	// NameToCodepoint maps every curated name to its entry's canonical
	// codepoint.
	NameToCodepoint map[string]string
	// CodepointToName maps each codepoint to its representative display
	// name, the one shown when rendering that codepoint as text.
	CodepointToName map[string]string
}

// BuildNameIndex derives the name index from the curated table.
//
// Rules:
//  1. Names are emitted in curated order; a name already emitted is skipped.
//  2. Every name resolves to its entry's canonical (first-listed) codepoint.
//  3. Every codepoint in an entry maps back to the entry's canonical
//     (first-listed) name; a codepoint already mapped keeps its earlier
//     name. Later duplicates are superseded, not merged.
func BuildNameIndex(table *emoji.NameTable) (*NameIndex, error) {
	idx := &NameIndex{
		Names:           make([]string, 0, len(table.Entries)),
		NameToCodepoint: make(map[string]string, len(table.Entries)),
		CodepointToName: make(map[string]string, len(table.Entries)),
	}

	for _, e := range table.Entries {
		canonical := e.CanonicalCodepoint()
		for _, name := range e.Names {
			if _, exists := idx.NameToCodepoint[name]; exists {
				continue
			}
			idx.NameToCodepoint[name] = canonical
			idx.Names = append(idx.Names, name)
		}
		for _, cp := range e.Codepoints {
			if _, exists := idx.CodepointToName[cp]; exists {
				continue
			}
			idx.CodepointToName[cp] = e.CanonicalName()
		}
	}

	// The index must be fully bidirectional: every name's codepoint is
	// reachable in the reverse map. A violation means the table wiring
	// above is broken, not a bad input, but it is checked anyway because
	// downstream link farms trust it.
	for _, name := range idx.Names {
		cp, ok := idx.NameToCodepoint[name]
		if !ok {
			return nil, fmt.Errorf("name index: name %q has no codepoint", name)
		}
		if _, ok := idx.CodepointToName[cp]; !ok {
			return nil, fmt.Errorf("name index: codepoint %q (for %q) has no reverse name", cp, name)
		}
	}
	return idx, nil
}

// Codepoints returns the distinct raw codepoints of the curated table in
// first-seen curated order. These key the legacy codepoint-keyed farm tree.
func Codepoints(table *emoji.NameTable) []string {
	cps := make([]string, 0, len(table.Entries))
	seen := make(map[string]bool, len(table.Entries))
	for _, e := range table.Entries {
		for _, cp := range e.Codepoints {
			if seen[cp] {
				continue
			}
			seen[cp] = true
			cps = append(cps, cp)
		}
	}
	return cps
}
