package emoji

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// NameEntry pairs one or more display names with one or more codepoints.
// The first-listed name and first-listed codepoint are canonical for the
// entry; order within each list is semantic.
type NameEntry struct {
	Names      []string `toml:"names"`
	Codepoints []string `toml:"codepoints"`
}

// CanonicalCodepoint returns the entry's canonical codepoint.
func (e *NameEntry) CanonicalCodepoint() string {
	return e.Codepoints[0]
}

// CanonicalName returns the entry's canonical display name.
func (e *NameEntry) CanonicalName() string {
	return e.Names[0]
}

// NameTable is the curated name table, maintained independently of vendor
// data. Entry order determines first-wins resolution everywhere downstream.
type NameTable struct {
	Entries []NameEntry `toml:"entry"`
}

var codepointPattern = regexp.MustCompile(`^[0-9a-f]+(-[0-9a-f]+)*$`)

// ValidCodepoint reports whether cp is a canonical-form codepoint:
// lowercase hex, dash-joined for sequences.
func ValidCodepoint(cp string) bool {
	return codepointPattern.MatchString(cp)
}

// LoadNameTable reads and validates the curated name table. A malformed
// table (empty entry, bad codepoint, blank name) is an input-integrity
// error and aborts the build.
func LoadNameTable(path string) (*NameTable, error) {
	var table NameTable
	if _, err := toml.DecodeFile(path, &table); err != nil {
		return nil, fmt.Errorf("name table %s: %w", path, err)
	}
	if len(table.Entries) == 0 {
		return nil, fmt.Errorf("name table %s: no entries", path)
	}
	for i, e := range table.Entries {
		if len(e.Names) == 0 {
			return nil, fmt.Errorf("name table %s: entry %d has no names", path, i)
		}
		if len(e.Codepoints) == 0 {
			return nil, fmt.Errorf("name table %s: entry %d (%s) has no codepoints", path, i, e.Names[0])
		}
		for _, n := range e.Names {
			if strings.TrimSpace(n) == "" {
				return nil, fmt.Errorf("name table %s: entry %d has a blank name", path, i)
			}
		}
		for _, cp := range e.Codepoints {
			if !ValidCodepoint(cp) {
				return nil, fmt.Errorf("name table %s: entry %d (%s): invalid codepoint %q", path, i, e.Names[0], cp)
			}
		}
	}
	return &table, nil
}

// LoadRemapTable reads the hand-maintained remap table. Both keys and
// values must be canonical-form codepoints.
func LoadRemapTable(path string) (RemapTable, error) {
	var doc struct {
		Remap map[string]string `toml:"remap"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("remap table %s: %w", path, err)
	}
	for from, to := range doc.Remap {
		if !ValidCodepoint(from) {
			return nil, fmt.Errorf("remap table %s: invalid source codepoint %q", path, from)
		}
		if !ValidCodepoint(to) {
			return nil, fmt.Errorf("remap table %s: invalid target codepoint %q (for %q)", path, to, from)
		}
	}
	if doc.Remap == nil {
		doc.Remap = make(map[string]string)
	}
	return RemapTable(doc.Remap), nil
}

// LoadCategoryOrder reads the hand-curated category display sequence. The
// sequence is a versioned input: catalog categories appear in exactly this
// order, never alphabetical, never vendor-supplied.
func LoadCategoryOrder(path string) ([]string, error) {
	var doc struct {
		Order []string `toml:"order"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("category order %s: %w", path, err)
	}
	if len(doc.Order) == 0 {
		return nil, fmt.Errorf("category order %s: empty order list", path)
	}
	seen := make(map[string]bool, len(doc.Order))
	for _, label := range doc.Order {
		if strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("category order %s: blank category label", path)
		}
		if seen[label] {
			return nil, fmt.Errorf("category order %s: duplicate category %q", path, label)
		}
		seen[label] = true
	}
	return doc.Order, nil
}
