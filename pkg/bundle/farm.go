package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spritelab/emojibundle/pkg/catalog"
	"github.com/spritelab/emojibundle/pkg/emoji"
)

// LinkResult is the outcome of a create-or-skip link attempt. Tolerating
// already-present targets is part of the farm contract, not an error that
// happens to be swallowed.
type LinkResult int

const (
	LinkCreated LinkResult = iota
	LinkExists
)

// createLink creates a symlink at name pointing to target, relative to the
// link's directory so the bundle stays relocatable.
func createLink(target, name string) (LinkResult, error) {
	rel, err := filepath.Rel(filepath.Dir(name), target)
	if err != nil {
		return 0, fmt.Errorf("link %s: %w", name, err)
	}
	if err := os.Symlink(rel, name); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return LinkExists, nil
		}
		return 0, fmt.Errorf("link %s: %w", name, err)
	}
	return LinkCreated, nil
}

// imagePath returns the canonical image file for a resolved codepoint and
// verifies it exists. A referenced image missing from the image directory
// is an input-integrity error that aborts the whole build.
func imagePath(imageDir, cp string) (string, error) {
	path := filepath.Join(imageDir, cp+".png")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("image for %s: %w", cp, err)
	}
	return path, nil
}

// BuildFarm constructs the flat, legacy-shaped directory of image
// references under dir. Two independent trees are produced:
//
//   - by-name/<name>.png, one per entry of the name index. Collisions here
//     are not expected and fail loudly.
//   - by-codepoint/<cp>.png, one per distinct raw curated codepoint plus one
//     per vendor skin-tone variant. Two names aliasing the same codepoint
//     collide here; the second link is skipped.
//
// Every link target is resolved through the remap table. The pass is
// idempotent and runs once per freshly created cache directory, after the
// name index is fully built.
func BuildFarm(dir, imageDir string, idx *catalog.NameIndex, table *emoji.NameTable, records []emoji.Record, remap emoji.RemapTable, vendor emoji.Vendor) error {
	byName := filepath.Join(dir, "by-name")
	byCodepoint := filepath.Join(dir, "by-codepoint")
	for _, d := range []string{byName, byCodepoint} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("farm: %w", err)
		}
	}

	// Name-keyed tree.
	for _, name := range idx.Names {
		cp := remap.Resolve(idx.NameToCodepoint[name])
		target, err := imagePath(imageDir, cp)
		if err != nil {
			return fmt.Errorf("farm name %q: %w", name, err)
		}
		res, err := createLink(target, filepath.Join(byName, name+".png"))
		if err != nil {
			return fmt.Errorf("farm: %w", err)
		}
		if res == LinkExists {
			return fmt.Errorf("farm: duplicate name link %q", name)
		}
	}

	// Codepoint-keyed tree: raw curated codepoints, resolved targets.
	for _, raw := range catalog.Codepoints(table) {
		target, err := imagePath(imageDir, remap.Resolve(raw))
		if err != nil {
			return fmt.Errorf("farm codepoint %q: %w", raw, err)
		}
		if _, err := createLink(target, filepath.Join(byCodepoint, raw+".png")); err != nil {
			return fmt.Errorf("farm: %w", err)
		}
	}

	// Skin-tone variants, each normalized independently of its parent.
	for i := range records {
		for _, v := range records[i].SkinVariations {
			if !v.HasImage(vendor) {
				continue
			}
			target, err := imagePath(imageDir, emoji.VariantImageCodepoint(v, remap))
			if err != nil {
				return fmt.Errorf("farm variant %q: %w", v.Codepoint(), err)
			}
			if _, err := createLink(target, filepath.Join(byCodepoint, v.Codepoint()+".png")); err != nil {
				return fmt.Errorf("farm: %w", err)
			}
		}
	}
	return nil
}
