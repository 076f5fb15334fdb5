package oracle

import (
	"fmt"
	"strings"
)

// BuildPrompt lists both header sets with 1-based labels and asks for a JSON
// object mapping every source label to a canonical label or null.
// Only header names are included, never cell values.
func BuildPrompt(source []string, canonical []string) string {
	var b strings.Builder

	b.WriteString("Match the columns of a spreadsheet export to a fixed list of target columns.\n")
	b.WriteString("Headers may differ in casing, spacing, line breaks, quoting, abbreviations or wording.\n\n")

	b.WriteString("Source headers:\n")
	for i, h := range source {
		fmt.Fprintf(&b, "%d. %s\n", i+1, quoteHeader(h))
	}

	b.WriteString("\nTarget headers:\n")
	for i, h := range canonical {
		fmt.Fprintf(&b, "%d. %s\n", i+1, quoteHeader(h))
	}

	b.WriteString("\nReturn a JSON object with one entry per source header. ")
	b.WriteString("Each key is the source header number as a string. ")
	b.WriteString("Each value is the number of the matching target header, or null if no target header matches.\n")
	b.WriteString(`Example: {"1": 2, "2": null, "3": 1}`)
	b.WriteString("\n")

	return b.String()
}

// quoteHeader keeps embedded newlines from breaking the numbered list.
func quoteHeader(h string) string {
	return fmt.Sprintf("%q", h)
}
