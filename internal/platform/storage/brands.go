package storage

import (
	"sort"
	"strings"
)

// dedupBrands returns distinct non-empty brands sorted alphabetically.
// Brands differing only in letter case are merged, the spelling stored first wins.
func dedupBrands(brands []string) []string {
	seen := make(map[string]struct{}, len(brands))
	result := make([]string, 0, len(brands))

	for _, brand := range brands {
		brand = strings.TrimSpace(brand)
		if brand == "" {
			continue
		}

		key := strings.ToLower(brand)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		result = append(result, brand)
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i]) < strings.ToLower(result[j])
	})

	return result
}

// escapeLike escapes LIKE pattern metacharacters.
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
