package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// stubStrategy returns a fixed mapping or error.
type stubStrategy struct {
	mapping Mapping
	err     error
	panics  bool
	calls   int
}

func (s *stubStrategy) Name() string { return StrategyOracle }

func (s *stubStrategy) Map(_ context.Context, _ []string, _ []string) (Mapping, error) {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.mapping, s.err
}

func TestResolve_NoPrimaryUsesExact(t *testing.T) {
	outcome := Resolve(context.Background(), nil, []string{"st"}, []string{"ST", "Carrier"})

	if outcome.Strategy != StrategyExact {
		t.Errorf("Expected exact strategy, got %q", outcome.Strategy)
	}
	if outcome.UsedFallback() {
		t.Errorf("Skipping the oracle is not a fallback, got %v", outcome.Fallback)
	}
	if !outcome.Mapping.Equal(Mapping{0, Unmapped}) {
		t.Errorf("Unexpected mapping %v", outcome.Mapping)
	}
}

func TestResolve_PrimarySucceeds(t *testing.T) {
	primary := &stubStrategy{mapping: Mapping{1, 0}}

	outcome := Resolve(context.Background(), primary, []string{"Carrier", "State"}, []string{"ST", "Carrier"})

	if outcome.Strategy != StrategyOracle {
		t.Errorf("Expected oracle strategy, got %q", outcome.Strategy)
	}
	if outcome.UsedFallback() {
		t.Errorf("Unexpected fallback: %v", outcome.Fallback)
	}
	if !outcome.Mapping.Equal(Mapping{1, 0}) {
		t.Errorf("Expected primary mapping, got %v", outcome.Mapping)
	}
}

func TestResolve_FallsBack(t *testing.T) {
	source := []string{"st", "Carrier  \n"}
	canonical := []string{"ST", "Carrier"}

	tests := []struct {
		name    string
		primary *stubStrategy
	}{
		{"primary error", &stubStrategy{err: errors.New("network down")}},
		{"primary panic", &stubStrategy{panics: true}},
		{"wrong size", &stubStrategy{mapping: Mapping{0}}},
		{"source index out of range", &stubStrategy{mapping: Mapping{0, 7}}},
		{"negative source index", &stubStrategy{mapping: Mapping{-3, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Resolve(context.Background(), tt.primary, source, canonical)

			if tt.primary.calls != 1 {
				t.Errorf("Expected primary to be called once, got %d", tt.primary.calls)
			}
			if !outcome.UsedFallback() {
				t.Error("Expected fallback to be recorded")
			}
			if outcome.Strategy != StrategyExact {
				t.Errorf("Expected exact strategy, got %q", outcome.Strategy)
			}
			if !outcome.Mapping.Equal(Mapping{0, 1}) {
				t.Errorf("Expected exact mapping, got %v", outcome.Mapping)
			}
		})
	}
}

// Feature: column-mapping, Property 3: Failing Primary Equals Exact Match

func TestResolveFailingPrimaryMatchesExact(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a primary that always fails yields the deterministic mapping", prop.ForAll(
		func(source []string, canonical []string) bool {
			primary := &stubStrategy{err: errors.New("oracle unavailable")}
			outcome := Resolve(context.Background(), primary, source, canonical)
			return outcome.Mapping.Equal(MapDeterministic(source, canonical))
		},
		gen.SliceOf(genMessyHeader()),
		gen.SliceOf(genHeader()),
	))

	properties.TestingRun(t)
}
