package sanitizer

// NormalizeAmenities trims every entry, drops blanks, and removes
// duplicates while preserving first-seen order.
func NormalizeAmenities(values []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(values))

	for _, v := range values {
		normalized := TrimAndNormalize(v)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}

	return out
}
