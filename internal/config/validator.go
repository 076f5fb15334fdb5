package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             // Config field with issue (e.g., "watch.directories[0]")
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

// ValidateConfig checks the configuration for errors and returns all findings.
func ValidateConfig(cfg *Configuration) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
		Valid:    true,
	}

	var findings []ConfigValidationError
	findings = append(findings, ValidateOracle(cfg)...)
	findings = append(findings, ValidateOutput(cfg)...)
	findings = append(findings, ValidateWatch(cfg)...)

	for _, f := range findings {
		if f.Severity == SeverityError {
			result.Errors = append(result.Errors, f)
		} else {
			result.Warnings = append(result.Warnings, f)
		}
	}

	result.Valid = len(result.Errors) == 0

	return result
}

// ValidateOracle checks the oracle settings.
func ValidateOracle(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	if cfg.Oracle.Temperature < 0 || cfg.Oracle.Temperature > 2 {
		errors = append(errors, ConfigValidationError{
			Field:    "oracle.temperature",
			Message:  fmt.Sprintf("temperature must be between 0 and 2, got %g", cfg.Oracle.Temperature),
			Severity: SeverityError,
		})
	}

	if cfg.Oracle.TimeoutSeconds < 0 {
		errors = append(errors, ConfigValidationError{
			Field:    "oracle.timeoutSeconds",
			Message:  "timeout cannot be negative",
			Severity: SeverityError,
		})
	}

	if !cfg.OracleEnabled() {
		return errors
	}

	if strings.TrimSpace(cfg.Oracle.Model) == "" {
		errors = append(errors, ConfigValidationError{
			Field:    "oracle.model",
			Message:  "model cannot be empty while the oracle is enabled",
			Severity: SeverityError,
		})
	}

	if cfg.Oracle.Temperature > 0.5 {
		errors = append(errors, ConfigValidationError{
			Field:    "oracle.temperature",
			Message:  "high temperature makes header matches less repeatable",
			Severity: SeverityWarning,
		})
	}

	if cfg.Oracle.CredentialsFile != "" {
		if _, err := os.Stat(cfg.Oracle.CredentialsFile); os.IsNotExist(err) {
			errors = append(errors, ConfigValidationError{
				Field:    "oracle.credentialsFile",
				Message:  "credentials file does not exist, exact header matching only unless " + cfg.Oracle.APIKeyVariable + " is set: " + cfg.Oracle.CredentialsFile,
				Severity: SeverityWarning,
			})
		}
	}

	return errors
}

// ValidateOutput checks the artifact suffixes.
func ValidateOutput(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	suffixes := map[string]string{
		"output.reformattedSuffix": cfg.Output.ReformattedSuffix,
		"output.backupSuffix":      cfg.Output.BackupSuffix,
	}
	for _, field := range []string{"output.reformattedSuffix", "output.backupSuffix"} {
		suffix := suffixes[field]
		if strings.TrimSpace(suffix) == "" {
			errors = append(errors, ConfigValidationError{
				Field:    field,
				Message:  "suffix cannot be empty: the original file would be overwritten",
				Severity: SeverityError,
			})
			continue
		}
		if strings.ContainsAny(suffix, `/\`) {
			errors = append(errors, ConfigValidationError{
				Field:    field,
				Message:  "suffix cannot contain path separators: " + suffix,
				Severity: SeverityError,
			})
		}
	}

	if cfg.Output.ReformattedSuffix != "" && strings.EqualFold(cfg.Output.ReformattedSuffix, cfg.Output.BackupSuffix) {
		errors = append(errors, ConfigValidationError{
			Field:    "output.backupSuffix",
			Message:  "backup suffix must differ from the reformatted suffix",
			Severity: SeverityError,
		})
	}

	return errors
}

// ValidateWatch checks watch directories and timings.
func ValidateWatch(cfg *Configuration) []ConfigValidationError {
	var errors []ConfigValidationError

	for i, dir := range cfg.Watch.Directories {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				errors = append(errors, ConfigValidationError{
					Field:    formatField("watch.directories", i),
					Message:  "directory does not exist: " + dir,
					Severity: SeverityWarning,
				})
			} else {
				errors = append(errors, ConfigValidationError{
					Field:    formatField("watch.directories", i),
					Message:  "error accessing directory: " + err.Error(),
					Severity: SeverityError,
				})
			}
			continue
		}
		if !info.IsDir() {
			errors = append(errors, ConfigValidationError{
				Field:    formatField("watch.directories", i),
				Message:  "path is not a directory: " + dir,
				Severity: SeverityError,
			})
		}
	}

	if cfg.Watch.DebounceSeconds < 0 {
		errors = append(errors, ConfigValidationError{
			Field:    "watch.debounceSeconds",
			Message:  "debounce cannot be negative",
			Severity: SeverityError,
		})
	}
	if cfg.Watch.StableThresholdMs < 0 {
		errors = append(errors, ConfigValidationError{
			Field:    "watch.stableThresholdMs",
			Message:  "stability threshold cannot be negative",
			Severity: SeverityError,
		})
	}

	for i, pattern := range cfg.Watch.IgnorePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			errors = append(errors, ConfigValidationError{
				Field:    formatField("watch.ignorePatterns", i),
				Message:  "invalid glob pattern: " + pattern,
				Severity: SeverityError,
			})
		}
	}

	return errors
}

// formatField formats a field name with an index.
func formatField(name string, index int) string {
	return fmt.Sprintf("%s[%d]", name, index)
}
