package config

import (
	"path/filepath"
	"strconv"
	"strings"

	"stampname/internal/scanner"
)

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             // Option with the issue (e.g., "paths[1]")
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

// Validate checks the parsed command and returns all findings.
// Roots that do not exist are not reported here; the run reports them
// per path and carries on with the others.
func Validate(cmd *Command) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
		Valid:    true,
	}

	findings := append(ValidatePaths(cmd), ValidatePolicies(cmd)...)
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

// ValidatePaths rejects empty path arguments and warns about roots that
// would be visited more than once.
func ValidatePaths(cmd *Command) []ConfigValidationError {
	var errors []ConfigValidationError

	seen := make(map[string]int) // cleaned path -> first index
	for i, path := range cmd.Paths {
		if strings.TrimSpace(path) == "" {
			errors = append(errors, ConfigValidationError{
				Field:    formatField("paths", i),
				Message:  "path must not be empty",
				Severity: SeverityError,
			})
			continue
		}

		clean := filepath.Clean(path)
		if first, dup := seen[clean]; dup {
			errors = append(errors, ConfigValidationError{
				Field:    formatField("paths", i),
				Message:  "duplicate path: \"" + path + "\" was already given at index " + strconv.Itoa(first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[clean] = i
	}

	if !cmd.Recursive {
		return errors
	}

	// A root nested inside another root is walked twice in recursive mode.
	for i := 0; i < len(cmd.Paths); i++ {
		for j := i + 1; j < len(cmd.Paths); j++ {
			outer, inner := cmd.Paths[i], cmd.Paths[j]
			if filepath.Clean(outer) == filepath.Clean(inner) {
				continue
			}
			if pathsOverlap(outer, inner) {
				errors = append(errors, ConfigValidationError{
					Field:    formatField("paths", j),
					Message:  "overlapping path: \"" + inner + "\" overlaps with \"" + outer + "\" at index " + strconv.Itoa(i),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return errors
}

// ValidatePolicies checks that policy values are valid.
func ValidatePolicies(cmd *Command) []ConfigValidationError {
	var errors []ConfigValidationError

	if cmd.SymlinkPolicy != "" {
		validPolicies := map[string]bool{
			scanner.SymlinkPolicyFollow: true,
			scanner.SymlinkPolicySkip:   true,
			scanner.SymlinkPolicyError:  true,
		}
		if !validPolicies[cmd.SymlinkPolicy] {
			errors = append(errors, ConfigValidationError{
				Field:    "symlinks",
				Message:  "invalid symlink policy: \"" + cmd.SymlinkPolicy + "\". Must be \"follow\", \"skip\", or \"error\"",
				Severity: SeverityError,
			})
		}
	}

	return errors
}

// formatField creates a field reference string for validation errors.
func formatField(name string, index int) string {
	return name + "[" + strconv.Itoa(index) + "]"
}

// pathsOverlap checks if one path is an ancestor of the other.
func pathsOverlap(a, b string) bool {
	cleanA := filepath.Clean(a)
	cleanB := filepath.Clean(b)

	if cleanA == cleanB {
		return true
	}
	if strings.HasPrefix(cleanB, strings.TrimSuffix(cleanA, string(filepath.Separator))+string(filepath.Separator)) {
		return true
	}
	if strings.HasPrefix(cleanA, strings.TrimSuffix(cleanB, string(filepath.Separator))+string(filepath.Separator)) {
		return true
	}
	return false
}
