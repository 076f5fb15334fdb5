// Package table holds in-memory tabular data and the canonical row materializer.
package table

import (
	"colorder/internal/matcher"
	"colorder/internal/normalizer"
)

// Row maps a column header to its cell value.
type Row map[string]string

// Table is a header list plus rows keyed by those headers.
// Headers keeps the file's column order; rows are assumed to share it.
type Table struct {
	Headers []string
	Rows    []Row
	// Delimiter is the field separator of delimited text; zero means comma.
	Delimiter rune
}

// SourceHeader pairs a header as found in the file with its normalized form.
type SourceHeader struct {
	Raw        string
	Normalized string
}

// SourceHeaderSet returns the distinct headers of the table in file order,
// each paired with its normalized form. A repeated header keeps its first position.
func (t *Table) SourceHeaderSet() []SourceHeader {
	seen := make(map[string]bool, len(t.Headers))
	set := make([]SourceHeader, 0, len(t.Headers))
	for _, h := range t.Headers {
		if seen[h] {
			continue
		}
		seen[h] = true
		set = append(set, SourceHeader{Raw: h, Normalized: normalizer.Normalize(h)})
	}
	return set
}

// RawHeaders returns the raw strings of a source header set.
func RawHeaders(set []SourceHeader) []string {
	raw := make([]string, len(set))
	for i, h := range set {
		raw[i] = h.Raw
	}
	return raw
}

// Materialize builds one output row per input row, keyed by every canonical
// header. Each cell is copied from the mapped source column, or left empty
// when the column is unmapped or the row lacks that header. Row order and
// count are preserved.
func Materialize(rows []Row, mapping matcher.Mapping, source []string, canonical []string) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		reordered := make(Row, len(canonical))
		for c, header := range canonical {
			value := ""
			if src, ok := mapping.Source(c); ok && src < len(source) {
				value = row[source[src]]
			}
			reordered[header] = value
		}
		out[i] = reordered
	}
	return out
}

// Reorder returns a new table in canonical column order.
func Reorder(t *Table, mapping matcher.Mapping, source []string, canonical []string) *Table {
	headers := make([]string, len(canonical))
	copy(headers, canonical)
	return &Table{
		Headers:   headers,
		Rows:      Materialize(t.Rows, mapping, source, canonical),
		Delimiter: t.Delimiter,
	}
}
