package engine

import (
	"errors"
	"fmt"
	"strings"
)

// EngineError represents a fatal input-contract violation detected
// during a run.
//
// The engine performs pure computation, so there is nothing transient
// to retry: every EngineError aborts the run before any output is
// written. Numeric edge cases (zero denominators, zero-previous
// volatility) are NOT errors - they are absorbed by the smoothing and
// clamping rules in the feature and volatility stages.
type EngineError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Family names the input table at fault ("biometric",
	// "demographic", or "enrolment").
	Family string

	// Missing lists required columns that were absent (schema errors).
	Missing []string

	// Present lists the columns actually found (schema errors).
	Present []string
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeMissingColumns indicates a required column is absent from
	// an input table. This is an upstream contract violation and must
	// never be silently masked.
	ErrCodeMissingColumns ErrorCode = "SCHEMA_MISSING_COLUMNS"

	// ErrCodeEmptyInput indicates an input table has zero rows. A
	// percentile rank over an empty population is meaningless, so the
	// run aborts instead of producing empty outputs.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"
)

// Error implements the error interface.
func (e *EngineError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s table: %s (missing=[%s], present=[%s])",
			e.Code, e.Family, e.Message,
			strings.Join(e.Missing, ", "), strings.Join(e.Present, ", "))
	}
	if e.Family != "" {
		return fmt.Sprintf("%s: %s table: %s", e.Code, e.Family, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewSchemaError creates an EngineError for required columns absent
// from an input table. Both the missing and the actually-present
// columns are recorded so the upstream violation is diagnosable from
// the error alone.
func NewSchemaError(family string, missing, present []string) *EngineError {
	return &EngineError{
		Code:    ErrCodeMissingColumns,
		Message: "required columns missing",
		Family:  family,
		Missing: missing,
		Present: present,
	}
}

// NewEmptyInputError creates an EngineError for an input table with no
// usable rows.
func NewEmptyInputError(family string) *EngineError {
	return &EngineError{
		Code:    ErrCodeEmptyInput,
		Message: "table has no rows",
		Family:  family,
	}
}

// IsSchemaError returns true if the error is a missing-columns error.
// Uses errors.As to handle wrapped errors.
func IsSchemaError(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeMissingColumns
	}
	return false
}

// IsEmptyInputError returns true if the error is an empty-input error.
// Uses errors.As to handle wrapped errors.
func IsEmptyInputError(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeEmptyInput
	}
	return false
}
