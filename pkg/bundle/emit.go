package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/template"

	"github.com/spritelab/emojibundle/pkg/catalog"
	"github.com/spritelab/emojibundle/pkg/emoji"
)

// WriteData emits the standalone structured-data files. Map keys are
// serialized in sorted order by encoding/json, and the catalog carries its
// own order-preserving marshaller, so output is byte-identical across runs.
func WriteData(dir string, idx *catalog.NameIndex, cat *catalog.Catalog) error {
	files := []struct {
		name string
		v    any
	}{
		{"names.json", idx.Names},
		{"name_to_codepoint.json", idx.NameToCodepoint},
		{"codepoint_to_name.json", idx.CodepointToName},
		{"catalog.json", cat},
	}
	for _, f := range files {
		data, err := json.MarshalIndent(f.v, "", "  ")
		if err != nil {
			return fmt.Errorf("emit %s: %w", f.name, err)
		}
		data = append(data, '\n')
		if err := os.WriteFile(filepath.Join(dir, f.name), data, 0o644); err != nil {
			return fmt.Errorf("emit %s: %w", f.name, err)
		}
	}
	return nil
}

// WriteModule emits emoji.js, a script-loadable object carrying the same
// four structures as the data files.
func WriteModule(dir string, idx *catalog.NameIndex, cat *catalog.Catalog) error {
	parts := []struct {
		field string
		v     any
	}{
		{"names", idx.Names},
		{"nameToCodepoint", idx.NameToCodepoint},
		{"codepointToName", idx.CodepointToName},
		{"catalog", cat},
	}

	var buf bytes.Buffer
	buf.WriteString("window.emojiBundle = {\n")
	for i, p := range parts {
		data, err := json.Marshal(p.v)
		if err != nil {
			return fmt.Errorf("emit emoji.js: %w", err)
		}
		buf.WriteString("  ")
		buf.WriteString(p.field)
		buf.WriteString(": ")
		buf.Write(data)
		if i < len(parts)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("};\n")

	if err := os.WriteFile(filepath.Join(dir, "emoji.js"), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("emit emoji.js: %w", err)
	}
	return nil
}

var stylesheetTmpl = template.Must(template.New("sprite.css").Parse(
	`{{range .Rules}}.emoji-{{.Codepoint}} { background-position: {{.X}}% {{.Y}}%; }
{{end}}`))

type spriteRule struct {
	Codepoint string
	X, Y      string
}

// spriteOffset converts a grid index to a percentage background-position
// offset. The sheet is square-padded, so both axes scale by the larger
// dimension.
func spriteOffset(index, denom int) string {
	return strconv.FormatFloat(float64(index*100)/float64(denom), 'f', -1, 64)
}

// WriteStylesheet emits sprite.css: one rule per approved codepoint the
// vendor ships on its sprite sheet, in sorted codepoint order. Offsets are
// percentages of the square-padded sheet: (grid_index * 100) / max(rows, cols).
func WriteStylesheet(dir string, records []emoji.Record, remap emoji.RemapTable, idx *catalog.NameIndex, vendor emoji.Vendor) error {
	type cell struct{ x, y int }
	cells := make(map[string]cell)
	rows, cols := 0, 0

	note := func(cp string, x, y int) {
		if x+1 > cols {
			cols = x + 1
		}
		if y+1 > rows {
			rows = y + 1
		}
		if _, ok := cells[cp]; ok {
			return
		}
		cells[cp] = cell{x: x, y: y}
	}

	for i := range records {
		rec := &records[i]
		if rec.HasImage(vendor) {
			if _, approved := idx.CodepointToName[rec.Codepoint()]; approved {
				note(emoji.ImageCodepoint(rec, remap), rec.SheetX, rec.SheetY)
			}
		}
		for _, v := range rec.SkinVariations {
			if v.HasImage(vendor) {
				note(emoji.VariantImageCodepoint(v, remap), v.SheetX, v.SheetY)
			}
		}
	}

	denom := rows
	if cols > denom {
		denom = cols
	}
	if denom == 0 {
		return fmt.Errorf("emit sprite.css: no sprite cells for vendor %s", vendor)
	}

	cps := make([]string, 0, len(cells))
	for cp := range cells {
		cps = append(cps, cp)
	}
	sort.Strings(cps)

	rules := make([]spriteRule, len(cps))
	for i, cp := range cps {
		c := cells[cp]
		rules[i] = spriteRule{
			Codepoint: cp,
			X:         spriteOffset(c.x, denom),
			Y:         spriteOffset(c.y, denom),
		}
	}

	var buf bytes.Buffer
	if err := stylesheetTmpl.Execute(&buf, struct{ Rules []spriteRule }{rules}); err != nil {
		return fmt.Errorf("emit sprite.css: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sprite.css"), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("emit sprite.css: %w", err)
	}
	return nil
}
