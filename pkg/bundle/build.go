// Package bundle builds, caches, and publishes the static emoji asset
// bundle. A bundle is identified by a content hash of every build-relevant
// input; once a cache directory carries its completion marker it is treated
// as immutable and republishing it is a symlink swap.
package bundle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/spritelab/emojibundle/pkg/catalog"
	"github.com/spritelab/emojibundle/pkg/emoji"
)

// Options carries everything one pipeline run needs. All tables are loaded
// fresh from these paths on every invocation; nothing is read ad hoc from
// globals or the environment inside the pipeline.
type Options struct {
	Vendor        emoji.Vendor
	VendorData    string
	NameTable     string
	RemapTable    string
	CategoryOrder string
	ImageDir      string
	CacheRoot     string
	PublishPath   string
	Logger        *log.Logger
}

// FromConfig converts a loaded config file into pipeline options.
func FromConfig(cfg *Config, cacheRoot string, logger *log.Logger) Options {
	return Options{
		Vendor:        emoji.Vendor(cfg.Vendor),
		VendorData:    cfg.VendorData,
		NameTable:     cfg.NameTable,
		RemapTable:    cfg.RemapTable,
		CategoryOrder: cfg.CategoryOrder,
		ImageDir:      cfg.ImageDir,
		CacheRoot:     cacheRoot,
		PublishPath:   cfg.PublishPath,
		Logger:        logger,
	}
}

// Result reports what a pipeline run did.
type Result struct {
	Key    Key
	Dir    string
	Reused bool
}

// Build runs the pipeline once, synchronously:
//
//  1. Hash all inputs into the cache key.
//  2. If the key's directory carries the completion marker, republish it
//     and stop; the generation steps are skipped entirely.
//  3. Otherwise rebuild the directory from scratch: normalize vendor
//     records, derive the name index and catalog, link the farm, emit data
//     files, module, stylesheet, and manifest.
//  4. Write the completion marker last, then publish.
//
// Any fatal error aborts before the marker and before the publish swap, so
// a previously published bundle stays valid.
func Build(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	key, err := computeInputKey(opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("computed cache key", "key", key)

	gate := &Gate{Root: opts.CacheRoot}
	dir := gate.Dir(key)

	if gate.Complete(key) {
		logger.Info("reusing cached bundle", "dir", dir)
		if err := gate.Publish(key, opts.PublishPath); err != nil {
			return nil, err
		}
		return &Result{Key: key, Dir: dir, Reused: true}, nil
	}

	records, err := emoji.LoadVendorData(opts.VendorData)
	if err != nil {
		return nil, err
	}
	table, err := emoji.LoadNameTable(opts.NameTable)
	if err != nil {
		return nil, err
	}
	remap, err := emoji.LoadRemapTable(opts.RemapTable)
	if err != nil {
		return nil, err
	}
	order, err := emoji.LoadCategoryOrder(opts.CategoryOrder)
	if err != nil {
		return nil, err
	}
	logger.Info("building bundle",
		"vendor", opts.Vendor,
		"records", len(records),
		"entries", len(table.Entries))

	idx, err := catalog.BuildNameIndex(table)
	if err != nil {
		return nil, err
	}
	cat := catalog.BuildCatalog(records, remap, idx, order, opts.Vendor)

	// A directory without a marker is an abandoned partial build; throw it
	// away and start clean.
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	if err := BuildFarm(filepath.Join(dir, "farm"), opts.ImageDir, idx, table, records, remap, opts.Vendor); err != nil {
		return nil, err
	}
	if err := WriteData(dir, idx, cat); err != nil {
		return nil, err
	}
	if err := WriteModule(dir, idx, cat); err != nil {
		return nil, err
	}
	if err := WriteStylesheet(dir, records, remap, idx, opts.Vendor); err != nil {
		return nil, err
	}
	if err := WriteManifest(dir); err != nil {
		return nil, err
	}

	if err := gate.MarkComplete(key); err != nil {
		return nil, err
	}
	if err := gate.Publish(key, opts.PublishPath); err != nil {
		return nil, err
	}
	logger.Info("published bundle", "dir", dir, "link", opts.PublishPath)
	return &Result{Key: key, Dir: dir, Reused: false}, nil
}

// computeInputKey reads the raw bytes of every build-relevant input and
// hashes them into the cache key.
func computeInputKey(opts Options) (Key, error) {
	read := func(path string) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cache key: %w", err)
		}
		return data, nil
	}

	vendorData, err := read(opts.VendorData)
	if err != nil {
		return "", err
	}
	nameTable, err := read(opts.NameTable)
	if err != nil {
		return "", err
	}
	remapTable, err := read(opts.RemapTable)
	if err != nil {
		return "", err
	}
	categoryOrder, err := read(opts.CategoryOrder)
	if err != nil {
		return "", err
	}
	assets, err := AssetListing(opts.ImageDir)
	if err != nil {
		return "", err
	}

	return ComputeKey(Inputs{
		Vendor:        string(opts.Vendor),
		VendorData:    vendorData,
		NameTable:     nameTable,
		RemapTable:    remapTable,
		CategoryOrder: categoryOrder,
		AssetListing:  assets,
	}), nil
}
