package bundle

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// manifestName is the bundle content manifest, written just before the
// completion marker. The marker alone gates cache reuse (the hot path never
// re-reads bundle contents); the manifest exists so an operator can check a
// marked directory for corruption on demand.
const manifestName = "manifest.json"

// ManifestEntry describes one file of a bundle. Regular files record their
// size; symlinks record their target instead.
type ManifestEntry struct {
	Path   string `json:"path"`
	Size   int64  `json:"size,omitempty"`
	Target string `json:"target,omitempty"`
}

// WriteManifest scans dir and writes manifest.json listing every file and
// link in the bundle, sorted by path. The marker and the manifest itself
// are excluded.
func WriteManifest(dir string) error {
	var entries []ManifestEntry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == manifestName || rel == markerName {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			entries = append(entries, ManifestEntry{Path: rel, Target: filepath.ToSlash(target)})
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, ManifestEntry{Path: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, manifestName), data, 0o644); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	return nil
}

// VerifyManifest checks every manifest entry against the bundle directory.
// It reports the first mismatch: a missing file, a size change, or a
// retargeted link.
func VerifyManifest(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("verify: manifest: %w", err)
	}

	for _, e := range entries {
		path := filepath.Join(dir, filepath.FromSlash(e.Path))
		info, err := os.Lstat(path)
		if err != nil {
			return fmt.Errorf("verify %s: %w", e.Path, err)
		}
		if e.Target != "" {
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("verify %s: %w", e.Path, err)
			}
			if filepath.ToSlash(target) != e.Target {
				return fmt.Errorf("verify %s: link target %q, manifest says %q", e.Path, target, e.Target)
			}
			continue
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("verify %s: is a symlink, manifest says regular file", e.Path)
		}
		if info.Size() != e.Size {
			return fmt.Errorf("verify %s: size %d, manifest says %d", e.Path, info.Size(), e.Size)
		}
	}
	return nil
}
