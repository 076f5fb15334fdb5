// Package schema holds the canonical column order for the compensation export.
package schema

// defaultHeaders is the canonical column order of the compensation-tracking
// export. Reformatted files always carry exactly these columns, in this order.
var defaultHeaders = []string{
	"ST",
	"Carrier",
	"Product",
	"Policy Number",
	"Insured Name",
	"Effective Date",
	"Premium",
	"Commission Rate",
	"Commission Amount",
	"Writing Agent",
	"Agent ID",
	"Statement Date",
	"Paid Date",
	"Notes",
}

// Schema is an ordered, immutable list of canonical headers.
type Schema struct {
	headers []string
}

// New creates a Schema from the given headers. The slice is copied.
func New(headers ...string) Schema {
	copied := make([]string, len(headers))
	copy(copied, headers)
	return Schema{headers: copied}
}

// Default returns the compiled-in compensation export schema.
func Default() Schema {
	return New(defaultHeaders...)
}

// Headers returns a copy of the canonical headers in output order.
func (s Schema) Headers() []string {
	copied := make([]string, len(s.headers))
	copy(copied, s.headers)
	return copied
}

// Len returns the number of canonical columns.
func (s Schema) Len() int {
	return len(s.headers)
}

// At returns the canonical header at index i.
func (s Schema) At(i int) string {
	return s.headers[i]
}
