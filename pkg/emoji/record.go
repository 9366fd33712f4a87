package emoji

import "strings"

// Vendor identifies an emoji image provider. Vendor metadata carries an
// image-availability flag per vendor; the catalog is built against exactly
// one of them.
type Vendor string

const (
	VendorApple    Vendor = "apple"
	VendorGoogle   Vendor = "google"
	VendorTwitter  Vendor = "twitter"
	VendorFacebook Vendor = "facebook"
)

// Record is one emoji record as shipped in the vendor metadata feed.
// Records are immutable after loading.
type Record struct {
	Unified   string `json:"unified"`
	Category  string `json:"category"`
	SortOrder int    `json:"sort_order"`
	SheetX    int    `json:"sheet_x"`
	SheetY    int    `json:"sheet_y"`
	Image     string `json:"image"`

	HasApple    bool `json:"has_img_apple"`
	HasGoogle   bool `json:"has_img_google"`
	HasTwitter  bool `json:"has_img_twitter"`
	HasFacebook bool `json:"has_img_facebook"`

	// SkinVariations maps a skin-tone key (itself a codepoint sequence,
	// e.g. "1F3FB") to an alternate rendering with its own codepoint and
	// availability flags.
	SkinVariations map[string]*SkinVariation `json:"skin_variations,omitempty"`
}

// SkinVariation is an alternate rendering of a base emoji. It is resolved
// independently of its parent record.
type SkinVariation struct {
	Unified string `json:"unified"`
	Image   string `json:"image"`
	SheetX  int    `json:"sheet_x"`
	SheetY  int    `json:"sheet_y"`

	HasApple    bool `json:"has_img_apple"`
	HasGoogle   bool `json:"has_img_google"`
	HasTwitter  bool `json:"has_img_twitter"`
	HasFacebook bool `json:"has_img_facebook"`
}

// Codepoint returns the record's primary codepoint in canonical form
// (lowercase hex, dash-joined for sequences).
func (r *Record) Codepoint() string {
	return strings.ToLower(r.Unified)
}

// HasImage reports whether the given vendor ships an image for this record.
func (r *Record) HasImage(v Vendor) bool {
	switch v {
	case VendorApple:
		return r.HasApple
	case VendorGoogle:
		return r.HasGoogle
	case VendorTwitter:
		return r.HasTwitter
	case VendorFacebook:
		return r.HasFacebook
	}
	return false
}

// Codepoint returns the variant's codepoint in canonical form.
func (v *SkinVariation) Codepoint() string {
	return strings.ToLower(v.Unified)
}

// HasImage reports whether the given vendor ships an image for this variant.
func (sv *SkinVariation) HasImage(v Vendor) bool {
	switch v {
	case VendorApple:
		return sv.HasApple
	case VendorGoogle:
		return sv.HasGoogle
	case VendorTwitter:
		return sv.HasTwitter
	case VendorFacebook:
		return sv.HasFacebook
	}
	return false
}
