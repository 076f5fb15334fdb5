package schema

import "testing"

func TestDefaultSchemaOrder(t *testing.T) {
	s := Default()

	if s.Len() != len(defaultHeaders) {
		t.Fatalf("Expected %d headers, got %d", len(defaultHeaders), s.Len())
	}
	if s.At(0) != "ST" || s.At(1) != "Carrier" {
		t.Errorf("Expected schema to start with ST, Carrier; got %q, %q", s.At(0), s.At(1))
	}

	seen := make(map[string]bool)
	for _, h := range s.Headers() {
		if seen[h] {
			t.Errorf("Duplicate canonical header %q", h)
		}
		seen[h] = true
	}
}

func TestSchemaIsImmutable(t *testing.T) {
	source := []string{"ST", "Carrier"}
	s := New(source...)

	source[0] = "changed"
	if s.At(0) != "ST" {
		t.Errorf("New did not copy its input: got %q", s.At(0))
	}

	headers := s.Headers()
	headers[1] = "changed"
	if s.At(1) != "Carrier" {
		t.Errorf("Headers exposed internal storage: got %q", s.At(1))
	}
}
