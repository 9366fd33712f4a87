package bundle

import (
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Key is a lowercase hex-encoded BLAKE2b-256 digest identifying one bundle.
// A cache directory under a given key is immutable once marked complete.
type Key string

// formatVersion is folded into every cache key so that output-format changes
// in this tool invalidate previously cached bundles.
const formatVersion = "1"

// Inputs collects the raw bytes of everything that determines bundle
// content. Two input sets hash equal exactly when the bundles they produce
// are interchangeable.
type Inputs struct {
	Vendor        string
	VendorData    []byte
	NameTable     []byte
	RemapTable    []byte
	CategoryOrder []byte
	AssetListing  []byte
}

// ComputeKey hashes the inputs into a cache key. Each field is framed as
// "label len\0data" so that field boundaries cannot be confused.
func ComputeKey(in Inputs) Key {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only reachable with a bad key argument, which we never pass.
		panic(err)
	}
	frame := func(label string, data []byte) {
		fmt.Fprintf(h, "%s %d\x00", label, len(data))
		h.Write(data)
	}
	frame("format", []byte(formatVersion))
	frame("vendor", []byte(in.Vendor))
	frame("vendor-data", in.VendorData)
	frame("name-table", in.NameTable)
	frame("remap-table", in.RemapTable)
	frame("category-order", in.CategoryOrder)
	frame("assets", in.AssetListing)
	return Key(hex.EncodeToString(h.Sum(nil)))
}

// AssetListing summarizes an image directory as one line per file,
// "relpath digest\n", in sorted path order. The per-file digest covers file
// contents, so touching any image yields a new cache key.
func AssetListing(dir string) ([]byte, error) {
	var paths []string
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
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("asset listing %s: %w", dir, err)
	}
	sort.Strings(paths)

	var out []byte
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("asset listing %s: %w", rel, err)
		}
		sum := blake2b.Sum256(data)
		out = append(out, fmt.Sprintf("%s %s\n", rel, hex.EncodeToString(sum[:]))...)
	}
	return out, nil
}
