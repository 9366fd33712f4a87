package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spritelab/emojibundle/pkg/catalog"
	"github.com/spritelab/emojibundle/pkg/emoji"
)

// fixture is a complete, minimal input set living under a temp dir: the
// thumbs_up/+1/thumbsup aliasing scenario plus one remapped flag emoji and
// one skin-tone variant.
type fixture struct {
	root string
	opts Options
}

const fixtureVendorJSON = `[
  {
    "unified": "1F44D",
    "category": "people",
    "sort_order": 2,
    "sheet_x": 1,
    "sheet_y": 0,
    "image": "1f44d.png",
    "has_img_apple": true,
    "skin_variations": {
      "1F3FB": {
        "unified": "1F44D-1F3FB",
        "image": "1f44d-1f3fb.png",
        "sheet_x": 2,
        "sheet_y": 0,
        "has_img_apple": true
      }
    }
  },
  {
    "unified": "1F600",
    "category": "smileys",
    "sort_order": 1,
    "sheet_x": 0,
    "sheet_y": 0,
    "image": "1f600.png",
    "has_img_apple": true
  },
  {
    "unified": "1F3F3-FE0F",
    "category": "flags",
    "sort_order": 3,
    "sheet_x": 0,
    "sheet_y": 1,
    "image": "1f3f3-fe0f.png",
    "has_img_apple": true
  }
]`

const fixtureNamesTOML = `
[[entry]]
names = ["grinning"]
codepoints = ["1f600"]

[[entry]]
names = ["thumbs_up", "+1"]
codepoints = ["1f44d"]

[[entry]]
names = ["thumbsup"]
codepoints = ["1f44d"]

[[entry]]
names = ["flag_white"]
codepoints = ["1f3f3-fe0f"]
`

// 1f3f3-fe0f's image ships under the plain codepoint.
const fixtureRemapTOML = `
[remap]
"1f3f3-fe0f" = "1f3f3"
`

const fixtureCategoriesTOML = `order = ["smileys", "people", "flags"]`

// fixtureImages are the per-codepoint files the farm links against.
var fixtureImages = []string{"1f44d", "1f44d-1f3fb", "1f600", "1f3f3"}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(root, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
		return path
	}

	imageDir := filepath.Join(root, "images")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for _, cp := range fixtureImages {
		if err := os.WriteFile(filepath.Join(imageDir, cp+".png"), []byte("png:"+cp), 0o644); err != nil {
			t.Fatalf("write image %s: %v", cp, err)
		}
	}

	return &fixture{
		root: root,
		opts: Options{
			Vendor:        emoji.VendorApple,
			VendorData:    write("emoji.json", fixtureVendorJSON),
			NameTable:     write("names.toml", fixtureNamesTOML),
			RemapTable:    write("remap.toml", fixtureRemapTOML),
			CategoryOrder: write("categories.toml", fixtureCategoriesTOML),
			ImageDir:      imageDir,
			CacheRoot:     filepath.Join(root, "cache"),
			PublishPath:   filepath.Join(root, "current"),
		},
	}
}

func (f *fixture) imageDir() string { return f.opts.ImageDir }

func (f *fixture) loadTables(t *testing.T) (*emoji.NameTable, emoji.RemapTable, []emoji.Record, *catalog.NameIndex) {
	t.Helper()
	table, err := emoji.LoadNameTable(f.opts.NameTable)
	if err != nil {
		t.Fatalf("LoadNameTable: %v", err)
	}
	remap, err := emoji.LoadRemapTable(f.opts.RemapTable)
	if err != nil {
		t.Fatalf("LoadRemapTable: %v", err)
	}
	records, err := emoji.LoadVendorData(f.opts.VendorData)
	if err != nil {
		t.Fatalf("LoadVendorData: %v", err)
	}
	idx, err := catalog.BuildNameIndex(table)
	if err != nil {
		t.Fatalf("BuildNameIndex: %v", err)
	}
	return table, remap, records, idx
}
