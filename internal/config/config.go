// Package config handles run configuration loading and validation for colorder.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"colorder/internal/artifact"
	"colorder/internal/credentials"
	"colorder/internal/oracle"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidJSON     ConfigErrorType = "INVALID_JSON"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Defaults.
const (
	DefaultModel             = "gpt-4o-mini"
	DefaultTimeoutSeconds    = 60
	DefaultAPIKeyVariable    = "OPENAI_API_KEY"
	DefaultDebounceSeconds   = 2
	DefaultStableThresholdMs = 1000
)

// OracleConfig configures the AI-assisted header matching.
type OracleConfig struct {
	// Enabled is a pointer so an absent field can default to true.
	Enabled         *bool   `json:"enabled,omitempty"`
	Model           string  `json:"model,omitempty"`
	BaseURL         string  `json:"baseURL,omitempty"`
	Temperature     float64 `json:"temperature"`
	TimeoutSeconds  int     `json:"timeoutSeconds,omitempty"`
	CredentialsFile string  `json:"credentialsFile,omitempty"`
	APIKeyVariable  string  `json:"apiKeyVariable,omitempty"`
}

// OutputConfig configures artifact naming.
type OutputConfig struct {
	ReformattedSuffix string `json:"reformattedSuffix,omitempty"`
	BackupSuffix      string `json:"backupSuffix,omitempty"`
	Overwrite         bool   `json:"overwrite,omitempty"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Directories       []string `json:"directories,omitempty"`
	DebounceSeconds   int      `json:"debounceSeconds,omitempty"`
	StableThresholdMs int      `json:"stableThresholdMs,omitempty"`
	IgnorePatterns    []string `json:"ignorePatterns,omitempty"`
}

// Configuration holds all settings for colorder. The canonical schema is
// compiled in and deliberately absent here.
type Configuration struct {
	Oracle OracleConfig `json:"oracle"`
	Output OutputConfig `json:"output"`
	Watch  WatchConfig  `json:"watch"`
}

// Default returns a configuration with every default applied.
func Default() *Configuration {
	cfg := &Configuration{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with defaults.
// Temperature stays as given: zero is the intended default.
func (c *Configuration) ApplyDefaults() {
	if c.Oracle.Enabled == nil {
		enabled := true
		c.Oracle.Enabled = &enabled
	}
	if c.Oracle.Model == "" {
		c.Oracle.Model = DefaultModel
	}
	if c.Oracle.BaseURL == "" {
		c.Oracle.BaseURL = oracle.DefaultBaseURL
	}
	if c.Oracle.TimeoutSeconds == 0 {
		c.Oracle.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Oracle.CredentialsFile == "" {
		c.Oracle.CredentialsFile = credentials.DefaultFile
	}
	if c.Oracle.APIKeyVariable == "" {
		c.Oracle.APIKeyVariable = DefaultAPIKeyVariable
	}

	if c.Output.ReformattedSuffix == "" {
		c.Output.ReformattedSuffix = artifact.DefaultReformattedSuffix
	}
	if c.Output.BackupSuffix == "" {
		c.Output.BackupSuffix = artifact.DefaultBackupSuffix
	}

	if c.Watch.DebounceSeconds == 0 {
		c.Watch.DebounceSeconds = DefaultDebounceSeconds
	}
	if c.Watch.StableThresholdMs == 0 {
		c.Watch.StableThresholdMs = DefaultStableThresholdMs
	}
}

// OracleEnabled reports whether the oracle may be consulted.
func (c *Configuration) OracleEnabled() bool {
	return c.Oracle.Enabled == nil || *c.Oracle.Enabled
}

// DisableOracle turns the oracle off for this run.
func (c *Configuration) DisableOracle() {
	disabled := false
	c.Oracle.Enabled = &disabled
}

// OracleTimeout returns the oracle request timeout.
func (c *Configuration) OracleTimeout() time.Duration {
	return time.Duration(c.Oracle.TimeoutSeconds) * time.Second
}

// Naming returns the artifact naming rules.
func (c *Configuration) Naming() artifact.Naming {
	return artifact.Naming{
		ReformattedSuffix: c.Output.ReformattedSuffix,
		BackupSuffix:      c.Output.BackupSuffix,
		Overwrite:         c.Output.Overwrite,
	}
}

// Validate checks the settings a run cannot work without.
func (c *Configuration) Validate() error {
	result := ValidateConfig(c)
	if !result.Valid {
		first := result.Errors[0]
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("%s: %s", first.Field, first.Message),
		}
	}
	return nil
}

// Load reads, parses and validates a configuration file.
func Load(filePath string) (*Configuration, error) {
	config, err := Read(filePath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Read parses a configuration file and applies defaults without validating,
// so every finding can be reported at once.
func Read(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, &ConfigError{
			Type:    FileNotFound,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	var config Configuration
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidJSON,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	config.ApplyDefaults()
	return &config, nil
}

// LoadOrDefault loads the file when a path is given and returns defaults otherwise.
func LoadOrDefault(filePath string) (*Configuration, error) {
	if filePath == "" {
		return Default(), nil
	}
	return Load(filePath)
}

// Save serializes and writes a configuration to the given path.
func Save(config *Configuration, filePath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return &ConfigError{
			Type:    InvalidJSON,
			Message: err.Error(),
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("failed to write configuration file: %s", err.Error()),
		}
	}

	return nil
}
