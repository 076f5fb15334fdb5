// Package matcher maps canonical columns onto source columns for colorder.
package matcher

import (
	"colorder/internal/normalizer"
)

// Unmapped marks a canonical column with no source column.
const Unmapped = -1

// Mapping assigns each canonical column index a source column index, or Unmapped.
// Its length is always the number of canonical columns. A source index may
// appear more than once, and some source indices may not appear at all.
type Mapping []int

// NewMapping returns a mapping of the given size with every column unmapped.
func NewMapping(size int) Mapping {
	m := make(Mapping, size)
	for i := range m {
		m[i] = Unmapped
	}
	return m
}

// Source returns the source index mapped to the canonical column, if any.
func (m Mapping) Source(canonical int) (int, bool) {
	if canonical < 0 || canonical >= len(m) || m[canonical] == Unmapped {
		return Unmapped, false
	}
	return m[canonical], true
}

// MappedCount returns how many canonical columns have a source column.
func (m Mapping) MappedCount() int {
	count := 0
	for _, src := range m {
		if src != Unmapped {
			count++
		}
	}
	return count
}

// Equal reports whether two mappings assign every canonical column identically.
func (m Mapping) Equal(other Mapping) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

// MapDeterministic matches each canonical header to the first source header
// with the same normalized, lowercased form.
//
// Every canonical column is searched independently: a matched source header
// stays available to later canonical columns, so one source column can fill
// several canonical slots when near-duplicate headers exist.
func MapDeterministic(source []string, canonical []string) Mapping {
	sourceKeys := make([]string, len(source))
	for i, h := range source {
		sourceKeys[i] = normalizer.Key(h)
	}

	mapping := NewMapping(len(canonical))
	for c, header := range canonical {
		key := normalizer.Key(header)
		for s, sourceKey := range sourceKeys {
			if sourceKey == key {
				mapping[c] = s
				break
			}
		}
	}
	return mapping
}
