package bundle

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// snapshot records every path under root with its modification time.
func snapshot(t *testing.T, root string) map[string]time.Time {
	t.Helper()
	out := make(map[string]time.Time)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out[path] = info.ModTime()
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return out
}

func TestBuild_EndToEnd(t *testing.T) {
	f := newFixture(t)

	res, err := Build(f.opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Reused {
		t.Errorf("first build reported Reused")
	}

	// The publish link resolves to the completed cache directory.
	dir, err := Published(f.opts.PublishPath)
	if err != nil {
		t.Fatalf("Published: %v", err)
	}
	if dir != res.Dir {
		t.Errorf("published %q, want %q", dir, res.Dir)
	}

	// All artifacts exist under the published path.
	for _, name := range []string{
		"names.json", "name_to_codepoint.json", "codepoint_to_name.json",
		"catalog.json", "emoji.js", "sprite.css", "manifest.json", markerName,
		filepath.Join("farm", "by-name", "thumbs_up.png"),
		filepath.Join("farm", "by-codepoint", "1f44d.png"),
	} {
		if _, err := os.Stat(filepath.Join(f.opts.PublishPath, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	if err := VerifyManifest(res.Dir); err != nil {
		t.Errorf("VerifyManifest after build: %v", err)
	}
}

func TestBuild_CacheShortCircuit(t *testing.T) {
	f := newFixture(t)

	first, err := Build(f.opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	before := snapshot(t, f.opts.CacheRoot)

	second, err := Build(f.opts)
	if err != nil {
		t.Fatalf("Build (rerun): %v", err)
	}
	if !second.Reused {
		t.Errorf("second build did not reuse the cache")
	}
	if second.Key != first.Key {
		t.Errorf("key changed across identical runs: %s vs %s", first.Key, second.Key)
	}

	// Nothing under the cache directory was created or rewritten; only the
	// publish link is touched.
	after := snapshot(t, f.opts.CacheRoot)
	if len(after) != len(before) {
		t.Fatalf("cache entries changed: %d -> %d", len(before), len(after))
	}
	for path, mtime := range before {
		got, ok := after[path]
		if !ok {
			t.Errorf("cache entry vanished: %s", path)
			continue
		}
		if !got.Equal(mtime) {
			t.Errorf("cache entry rewritten: %s", path)
		}
	}
}

func TestBuild_InputChangeNewKey(t *testing.T) {
	f := newFixture(t)

	first, err := Build(f.opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Append a curated alias; the content hash must move.
	extra := "\n[[entry]]\nnames = [\"thumb\"]\ncodepoints = [\"1f44d\"]\n"
	nt, err := os.ReadFile(f.opts.NameTable)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := os.WriteFile(f.opts.NameTable, append(nt, extra...), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	second, err := Build(f.opts)
	if err != nil {
		t.Fatalf("Build (changed): %v", err)
	}
	if second.Reused {
		t.Errorf("changed inputs reused the old bundle")
	}
	if second.Key == first.Key {
		t.Errorf("changed inputs produced the same key")
	}

	// The old bundle directory is still intact (keys address immutable
	// directories; nothing is patched in place).
	if _, err := os.Stat(filepath.Join(first.Dir, markerName)); err != nil {
		t.Errorf("previous bundle lost its marker: %v", err)
	}
}

func TestBuild_FatalErrorNoPublish(t *testing.T) {
	f := newFixture(t)

	// First a good build so a valid bundle is published.
	first, err := Build(f.opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Break the inputs: a curated name now references a missing image.
	if err := os.Remove(filepath.Join(f.imageDir(), "1f600.png")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := Build(f.opts); err == nil {
		t.Fatalf("Build succeeded with missing referenced image")
	}

	// The previously published bundle remains valid and visible.
	dir, err := Published(f.opts.PublishPath)
	if err != nil {
		t.Fatalf("Published: %v", err)
	}
	if dir != first.Dir {
		t.Errorf("publish link moved after failed build: %q", dir)
	}
	if err := VerifyManifest(dir); err != nil {
		t.Errorf("published bundle corrupted by failed build: %v", err)
	}

	// The failed build left no completion marker behind.
	g := &Gate{Root: f.opts.CacheRoot}
	key, err := computeInputKey(f.opts)
	if err != nil {
		t.Fatalf("computeInputKey: %v", err)
	}
	if g.Complete(key) {
		t.Errorf("failed build wrote a completion marker")
	}
}

func TestBuild_AbandonedPartialRebuilt(t *testing.T) {
	f := newFixture(t)

	key, err := computeInputKey(f.opts)
	if err != nil {
		t.Fatalf("computeInputKey: %v", err)
	}
	g := &Gate{Root: f.opts.CacheRoot}

	// Simulate a crash mid-build: files present, no marker.
	if err := os.MkdirAll(g.Dir(key), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	stale := filepath.Join(g.Dir(key), "stale.json")
	if err := os.WriteFile(stale, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	res, err := Build(f.opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Reused {
		t.Errorf("partial directory was reused")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived the rebuild")
	}
}
