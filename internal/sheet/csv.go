package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

// candidateDelimiters are the separators recognized in delimited text, in
// tie-break order.
var candidateDelimiters = []rune{',', ';', '\t'}

func readCSV(path string) ([][]string, rune, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))

	delimiter := sniffDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return records, delimiter, nil
}

// sniffDelimiter picks the candidate that occurs most often in the header
// record, ignoring quoted text. Comma wins ties and empty input.
func sniffDelimiter(data []byte) rune {
	counts := make(map[rune]int, len(candidateDelimiters))
	inQuotes := false

scan:
	for _, r := range string(data) {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case r == '\n' || r == '\r':
			break scan
		default:
			counts[r]++
		}
	}

	best := ','
	for _, d := range candidateDelimiters {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

func writeCSV(path string, records [][]string, delimiter rune) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if delimiter != 0 {
		w.Comma = delimiter
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return f.Close()
}
