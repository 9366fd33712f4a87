package catalog

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/spritelab/emojibundle/pkg/emoji"
)

// Category is one bucket of the display catalog: an ordered run of
// codepoints under a curated label.
type Category struct {
	Label      string   `json:"label"`
	Codepoints []string `json:"codepoints"`
}

// Catalog is the display catalog consumed by client-side pickers. Category
// order is the hand-curated display sequence, never alphabetical.
type Catalog struct {
	Categories []Category
}

// BuildCatalog groups vendor records into the display catalog.
//
// A record is included when all of:
//   - the selected vendor ships an image for it,
//   - its raw codepoint has an approved display name in the index (curators
//     work from vendor codepoints; remap is an image-location concern),
//   - no earlier record normalized to the same codepoint (first wins).
//
// Emitted codepoints are normalized, since they name images downstream.
//
// Within a category, codepoints follow the vendor's display-order rank,
// with the codepoint itself as a deterministic tiebreak. Categories appear
// in the curated order; labels missing from that order are omitted, and
// empty categories are dropped.
func BuildCatalog(records []emoji.Record, remap emoji.RemapTable, idx *NameIndex, order []string, vendor emoji.Vendor) *Catalog {
	type ranked struct {
		cp   string
		rank int
	}
	buckets := make(map[string][]ranked, len(order))
	seen := make(map[string]bool, len(records))

	for i := range records {
		rec := &records[i]
		if !rec.HasImage(vendor) {
			continue
		}
		if _, approved := idx.CodepointToName[rec.Codepoint()]; !approved {
			continue
		}
		cp := emoji.ImageCodepoint(rec, remap)
		if seen[cp] {
			continue
		}
		seen[cp] = true
		buckets[rec.Category] = append(buckets[rec.Category], ranked{cp: cp, rank: rec.SortOrder})
	}

	cat := &Catalog{}
	for _, label := range order {
		entries := buckets[label]
		if len(entries) == 0 {
			continue
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].rank != entries[j].rank {
				return entries[i].rank < entries[j].rank
			}
			return entries[i].cp < entries[j].cp
		})
		cps := make([]string, len(entries))
		for i, e := range entries {
			cps[i] = e.cp
		}
		cat.Categories = append(cat.Categories, Category{Label: label, Codepoints: cps})
	}
	return cat
}

// MarshalJSON emits the catalog as a JSON object whose keys appear in
// catalog order. encoding/json would sort a map alphabetically, which
// would destroy the curated sequence.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(cat.Label)
		if err != nil {
			return nil, err
		}
		cps, err := json.Marshal(cat.Codepoints)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(cps)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
