package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// markerName is the completion marker written as the very last step of a
// build. Its presence is the sole signal that a cache directory holds a
// complete bundle; an interrupted build leaves no marker and the directory
// is rebuilt from scratch on the next run.
const markerName = ".complete"

// Gate decides whether a previously built bundle can be reused, and owns
// the cache directory layout and the publish step. It does no locking:
// concurrent builds of the same key redundantly produce identical content.
type Gate struct {
	// Root is the cache root directory, resolved once at startup.
	Root string
}

// Dir returns the cache directory for a key, using a 2-character fan-out
// layout: <root>/ab/cdef0123...
func (g *Gate) Dir(k Key) string {
	return filepath.Join(g.Root, string(k[:2]), string(k[2:]))
}

// Complete reports whether the bundle for k was fully built.
func (g *Gate) Complete(k Key) bool {
	_, err := os.Stat(filepath.Join(g.Dir(k), markerName))
	return err == nil
}

// MarkComplete writes the completion marker. Callers must have finished
// every other write to the directory first.
func (g *Gate) MarkComplete(k Key) error {
	path := filepath.Join(g.Dir(k), markerName)
	if err := os.WriteFile(path, []byte(string(k)+"\n"), 0o644); err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}
	return nil
}

// Publish points the well-known link path at the bundle directory for k.
// The swap is atomic (symlink to a temp name, then rename over the link)
// so the serving application never observes a half-constructed bundle.
func (g *Gate) Publish(k Key, link string) error {
	dir := g.Dir(k)
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	tmp := fmt.Sprintf("%s.%d.tmp", link, os.Getpid())
	if err := os.Symlink(dir, tmp); err != nil {
		return fmt.Errorf("publish: symlink: %w", err)
	}
	if err := os.Rename(tmp, link); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish: swap: %w", err)
	}
	return nil
}

// KeyOf recovers the cache key addressing a bundle directory under this
// gate's root. Reports false for paths outside the root or not shaped like
// a fan-out entry.
func (g *Gate) KeyOf(dir string) (Key, bool) {
	rel, err := filepath.Rel(g.Root, dir)
	if err != nil {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || parts[1] == "" {
		return "", false
	}
	return Key(parts[0] + parts[1]), true
}

// Published resolves the bundle directory the link currently points at.
func Published(link string) (string, error) {
	dir, err := os.Readlink(link)
	if err != nil {
		return "", fmt.Errorf("published bundle: %w", err)
	}
	return dir, nil
}

// Clean removes every cache directory under the root except keep. Empty
// fan-out directories are removed too. Returns the number of bundle
// directories pruned.
func (g *Gate) Clean(keep Key) (int, error) {
	keepDir := ""
	if keep != "" {
		keepDir = g.Dir(keep)
	}

	fanouts, err := os.ReadDir(g.Root)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("clean: %w", err)
	}

	pruned := 0
	for _, fo := range fanouts {
		if !fo.IsDir() {
			continue
		}
		foPath := filepath.Join(g.Root, fo.Name())
		entries, err := os.ReadDir(foPath)
		if err != nil {
			return pruned, fmt.Errorf("clean: %w", err)
		}
		for _, e := range entries {
			dir := filepath.Join(foPath, e.Name())
			if dir == keepDir {
				continue
			}
			if err := os.RemoveAll(dir); err != nil {
				return pruned, fmt.Errorf("clean %s: %w", dir, err)
			}
			pruned++
		}
		// Drop the fan-out dir if nothing is left in it.
		if rest, err := os.ReadDir(foPath); err == nil && len(rest) == 0 {
			os.Remove(foPath)
		}
	}
	return pruned, nil
}
