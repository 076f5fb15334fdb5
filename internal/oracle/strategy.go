package oracle

import (
	"context"
	"errors"

	"colorder/internal/matcher"
)

// Strategy maps headers by asking a Client. It implements matcher.Strategy.
type Strategy struct {
	Client      Client
	Model       string
	Temperature float64
}

// NewStrategy creates an oracle strategy.
func NewStrategy(client Client, model string, temperature float64) *Strategy {
	return &Strategy{
		Client:      client,
		Model:       model,
		Temperature: temperature,
	}
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return matcher.StrategyOracle
}

// Map sends the header lists to the oracle and reconciles its reply.
// Every failure is returned as an *OracleError.
func (s *Strategy) Map(ctx context.Context, source []string, canonical []string) (matcher.Mapping, error) {
	if s.Client == nil {
		return nil, newError(MissingCredentials, nil, "no oracle client")
	}

	reply, err := s.Client.Complete(ctx, Request{
		Model:       s.Model,
		Prompt:      BuildPrompt(source, canonical),
		Temperature: s.Temperature,
		JSON:        true,
	})
	if err != nil {
		var oe *OracleError
		if errors.As(err, &oe) {
			return nil, err
		}
		return nil, newError(Transport, err, "completion failed")
	}

	assignments, err := ParseAssignments(reply, len(source), len(canonical))
	if err != nil {
		return nil, err
	}
	return Reconcile(assignments, len(canonical)), nil
}
