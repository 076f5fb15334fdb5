// Package credentials reads API credentials from a local KEY=value file.
package credentials

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultFile is the credentials file looked up when none is configured.
const DefaultFile = ".env"

// Store holds parsed credential values.
type Store struct {
	values map[string]string
	// lookupEnv consults the process environment after the file; nil disables it.
	lookupEnv func(string) (string, bool)
}

// Empty returns a store with no values and no environment fallback.
func Empty() *Store {
	return &Store{values: map[string]string{}}
}

// Parse reads KEY=value lines from r.
func Parse(r io.Reader) (*Store, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &Store{values: values}, nil
}

// Load parses the credentials file at path. A missing file yields an empty
// store rather than an error: credentials are optional.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("open credentials file %s: %w", path, err)
	}
	defer f.Close()

	store, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// WithEnvironment returns a copy of the store that falls back to the
// process environment for keys the file does not define.
func (s *Store) WithEnvironment() *Store {
	return &Store{values: s.values, lookupEnv: os.LookupEnv}
}

// Lookup returns the value for key and whether it is defined.
func (s *Store) Lookup(key string) (string, bool) {
	if v, ok := s.values[key]; ok {
		return v, true
	}
	if s.lookupEnv != nil {
		return s.lookupEnv(key)
	}
	return "", false
}

// Secret returns the trimmed value for key. Blank values count as undefined,
// so a blank file entry still falls back to the environment when enabled.
func (s *Store) Secret(key string) (string, bool) {
	if v := strings.TrimSpace(s.values[key]); v != "" {
		return v, true
	}
	if s.lookupEnv == nil {
		return "", false
	}
	v, ok := s.lookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Keys returns the number of values read from the file.
func (s *Store) Keys() int {
	return len(s.values)
}
