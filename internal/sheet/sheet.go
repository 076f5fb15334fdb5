// Package sheet reads and writes tabular files: CSV through encoding/csv and
// XLSX workbooks through excelize.
package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"colorder/internal/table"
)

// Format identifies a tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatError is returned for files whose extension is not supported.
type FormatError struct {
	Path string
	Ext  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported file type %q: %s (expected .csv, .txt or .xlsx)", e.Ext, e.Path)
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", &FormatError{Path: path, Ext: ext}
	}
}

// IsTabular reports whether path has a supported extension.
func IsTabular(path string) bool {
	_, err := DetectFormat(path)
	return err == nil
}

// Read loads the whole file. The first record is the header row; every later
// record becomes a row keyed by those headers. Delimited text may be
// separated by commas, semicolons or tabs, detected from the header record. Short records are padded with
// empty cells and a repeated header keeps its first column's value.
func Read(path string) (*table.Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var records [][]string
	var delimiter rune
	switch format {
	case FormatCSV:
		records, delimiter, err = readCSV(path)
	case FormatXLSX:
		records, err = readXLSX(path)
	}
	if err != nil {
		return nil, err
	}

	t := fromRecords(records)
	t.Delimiter = delimiter
	return t, nil
}

// Write saves t to path in the format implied by the extension,
// with a header row in t.Headers order. Delimited text uses t.Delimiter,
// or a comma when it is unset.
func Write(path string, t *table.Table) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	records := toRecords(t)
	switch format {
	case FormatCSV:
		return writeCSV(path, records, t.Delimiter)
	case FormatXLSX:
		return writeXLSX(path, records)
	}
	return nil
}

func fromRecords(records [][]string) *table.Table {
	if len(records) == 0 {
		return &table.Table{Headers: []string{}, Rows: []table.Row{}}
	}

	headers := make([]string, len(records[0]))
	copy(headers, records[0])

	rows := make([]table.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		// Empty worksheet rows come back as zero-length records.
		if len(record) == 0 {
			continue
		}
		row := make(table.Row, len(headers))
		for i, h := range headers {
			if _, exists := row[h]; exists {
				continue
			}
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return &table.Table{Headers: headers, Rows: rows}
}

func toRecords(t *table.Table) [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, len(t.Headers))
	copy(header, t.Headers)
	records = append(records, header)

	for _, row := range t.Rows {
		record := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			record[i] = row[h]
		}
		records = append(records, record)
	}
	return records
}
