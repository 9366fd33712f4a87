package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the TOML build configuration. Relative input paths are resolved
// against the config file's directory, so a checked-in config works from
// any working directory.
type Config struct {
	Vendor        string `toml:"vendor"`
	VendorData    string `toml:"vendor_data"`
	NameTable     string `toml:"name_table"`
	RemapTable    string `toml:"remap_table"`
	CategoryOrder string `toml:"category_order"`
	ImageDir      string `toml:"image_dir"`
	PublishPath   string `toml:"publish_path"`
	CacheRoot     string `toml:"cache_root,omitempty"`
}

// cacheRootEnv overrides the config file's cache root, for execution
// environments whose default root is not writable (CI sandboxes, read-only
// deploys).
const cacheRootEnv = "EMOJI_CACHE_ROOT"

// LoadConfig reads and validates a build config file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	required := []struct{ name, value string }{
		{"vendor", cfg.Vendor},
		{"vendor_data", cfg.VendorData},
		{"name_table", cfg.NameTable},
		{"remap_table", cfg.RemapTable},
		{"category_order", cfg.CategoryOrder},
		{"image_dir", cfg.ImageDir},
		{"publish_path", cfg.PublishPath},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("config %s: %s is required", path, r.name)
		}
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.VendorData, &cfg.NameTable, &cfg.RemapTable, &cfg.CategoryOrder, &cfg.ImageDir, &cfg.PublishPath, &cfg.CacheRoot} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return &cfg, nil
}

// ResolveCacheRoot picks the cache root, resolved once at startup and
// injected into the gate. Precedence: command-line flag, then the
// EMOJI_CACHE_ROOT environment variable, then the config file, then the
// per-user default.
func ResolveCacheRoot(flagValue string, cfg *Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(cacheRootEnv); env != "" {
		return env, nil
	}
	if cfg != nil && cfg.CacheRoot != "" {
		return cfg.CacheRoot, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cache root: %w", err)
	}
	return filepath.Join(home, ".cache", "emojibundle"), nil
}
