package textutil

import "strings"

// NormalizeStringMap returns a copy of values with surrounding whitespace
// stripped from every key and value. Entries whose key becomes empty are
// dropped; an empty result is returned as nil.
func NormalizeStringMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
