package orchestrator

import (
	"fmt"

	"colorder/internal/config"
	"colorder/internal/credentials"
	"colorder/internal/matcher"
	"colorder/internal/oracle"
	"colorder/internal/output"
	"colorder/internal/schema"
)

// PrimaryStrategy builds the oracle strategy when the configuration allows it
// and an API key is available. Otherwise it returns nil and the reason,
// which callers report in verbose output.
func PrimaryStrategy(cfg *config.Configuration, creds *credentials.Store) (matcher.Strategy, string) {
	if !cfg.OracleEnabled() {
		return nil, "oracle disabled"
	}
	key, ok := creds.Secret(cfg.Oracle.APIKeyVariable)
	if !ok {
		return nil, fmt.Sprintf("%s not set in %s or the environment", cfg.Oracle.APIKeyVariable, cfg.Oracle.CredentialsFile)
	}

	client := oracle.NewHTTPClient(key, cfg.Oracle.BaseURL, cfg.OracleTimeout())
	return oracle.NewStrategy(client, cfg.Oracle.Model, cfg.Oracle.Temperature), ""
}

// NewFromConfig wires a Reformatter from configuration and credentials.
func NewFromConfig(cfg *config.Configuration, creds *credentials.Store, out *output.Output) *Reformatter {
	primary, reason := PrimaryStrategy(cfg, creds)
	if primary == nil && out != nil {
		out.Verbose("exact header matching only: %s", reason)
	}
	return New(Options{
		Schema:  schema.Default(),
		Naming:  cfg.Naming(),
		Primary: primary,
		Output:  out,
	})
}
