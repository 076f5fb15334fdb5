package matcher

import (
	"context"
	"fmt"
)

// Strategy names used in run summaries.
const (
	StrategyExact  = "exact"
	StrategyOracle = "oracle"
)

// Strategy produces a canonical-to-source mapping from two header lists.
type Strategy interface {
	Name() string
	Map(ctx context.Context, source []string, canonical []string) (Mapping, error)
}

// Exact is the deterministic strategy. It never fails.
type Exact struct{}

// Name returns the strategy name.
func (Exact) Name() string {
	return StrategyExact
}

// Map runs MapDeterministic.
func (Exact) Map(_ context.Context, source []string, canonical []string) (Mapping, error) {
	return MapDeterministic(source, canonical), nil
}

// Outcome is the mapping chosen for a run and how it was obtained.
type Outcome struct {
	Mapping  Mapping
	Strategy string
	// Fallback holds the primary strategy's failure when the exact match was used instead.
	Fallback error
}

// UsedFallback reports whether the primary strategy failed.
func (o Outcome) UsedFallback() bool {
	return o.Fallback != nil
}

// Resolve asks the primary strategy for a mapping and falls back to the
// exact match when it is nil, fails, panics, or returns a mapping of the
// wrong size. The fallback sees the same inputs, so the result is always
// a complete mapping.
func Resolve(ctx context.Context, primary Strategy, source []string, canonical []string) Outcome {
	if primary == nil {
		return exactOutcome(source, canonical, nil)
	}

	mapping, err := tryStrategy(ctx, primary, source, canonical)
	if err != nil {
		return exactOutcome(source, canonical, err)
	}

	return Outcome{
		Mapping:  mapping,
		Strategy: primary.Name(),
	}
}

func exactOutcome(source []string, canonical []string, fallback error) Outcome {
	return Outcome{
		Mapping:  MapDeterministic(source, canonical),
		Strategy: StrategyExact,
		Fallback: fallback,
	}
}

func tryStrategy(ctx context.Context, s Strategy, source []string, canonical []string) (mapping Mapping, err error) {
	defer func() {
		if r := recover(); r != nil {
			mapping = nil
			err = fmt.Errorf("%s strategy panicked: %v", s.Name(), r)
		}
	}()

	mapping, err = s.Map(ctx, source, canonical)
	if err != nil {
		return nil, err
	}
	if len(mapping) != len(canonical) {
		return nil, fmt.Errorf("%s strategy returned %d columns, expected %d", s.Name(), len(mapping), len(canonical))
	}
	for c, src := range mapping {
		if src != Unmapped && (src < 0 || src >= len(source)) {
			return nil, fmt.Errorf("%s strategy mapped column %d to source %d outside 0..%d", s.Name(), c, src, len(source)-1)
		}
	}
	return mapping, nil
}
