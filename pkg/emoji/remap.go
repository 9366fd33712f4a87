package emoji

// RemapTable substitutes a legacy or renamed codepoint with the codepoint of
// the image actually on disk. Absence is the default, valid case: lookups
// fall back to the input unchanged.
type RemapTable map[string]string

// Resolve returns the codepoint to use when locating an image for cp.
func (t RemapTable) Resolve(cp string) string {
	if mapped, ok := t[cp]; ok {
		return mapped
	}
	return cp
}

// ImageCodepoint resolves the codepoint that names a record's image file,
// applying any remap override.
func ImageCodepoint(r *Record, remap RemapTable) string {
	return remap.Resolve(r.Codepoint())
}

// VariantImageCodepoint resolves the image codepoint for a skin-tone
// variant. Each variant is normalized independently of its parent.
func VariantImageCodepoint(v *SkinVariation, remap RemapTable) string {
	return remap.Resolve(v.Codepoint())
}
