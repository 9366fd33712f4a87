package emoji

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// LoadVendorData reads the vendor emoji metadata feed: a JSON array of
// records, optionally gzip-compressed (".json.gz", as vendor packages ship
// it). Records are returned in feed order.
func LoadVendorData(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vendor data: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("vendor data %s: gzip: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	var records []Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("vendor data %s: decode: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("vendor data %s: no records", path)
	}

	for i := range records {
		rec := &records[i]
		if !ValidCodepoint(rec.Codepoint()) {
			return nil, fmt.Errorf("vendor data %s: record %d: invalid codepoint %q", path, i, rec.Unified)
		}
		for key, v := range rec.SkinVariations {
			if v == nil || !ValidCodepoint(v.Codepoint()) {
				return nil, fmt.Errorf("vendor data %s: record %d (%s): invalid skin variant %q", path, i, rec.Unified, key)
			}
		}
	}
	return records, nil
}
